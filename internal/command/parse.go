package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/strandkv/strand/internal/resp"
)

var (
	// ErrParse reports a well-framed request that is not a valid command.
	ErrParse = errors.New("command: parse error")

	// ErrUnknownCommand reports an unrecognized command name.
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", ErrParse)
)

// Parse maps a decoded request value onto a typed command. The request must
// be a present array whose first element is a bulk string naming the
// command; names match case-insensitively.
func Parse(v resp.Value) (Command, error) {
	if v.Kind() != resp.KindArray || v.IsNull() || v.Len() == 0 {
		return nil, fmt.Errorf("%w: request must be a non-empty array", ErrParse)
	}

	elems := v.Elems()
	name, ok := argText(elems[0])
	if !ok {
		return nil, fmt.Errorf("%w: command name must be a bulk string", ErrParse)
	}
	args := elems[1:]

	switch strings.ToUpper(name) {
	case "PING":
		return parsePing(args)
	case "ECHO":
		return parseEcho(args)
	case "SET":
		return parseSet(args)
	case "GET":
		return parseGet(args)
	case "LPUSH":
		return parsePush(args, Left)
	case "RPUSH":
		return parsePush(args, Right)
	case "LRANGE":
		return parseRange(args)
	case "LLEN":
		return parseLen(args)
	case "LPOP":
		return parsePop(args, Left)
	case "RPOP":
		return parsePop(args, Right)
	case "BLPOP":
		return parseBlockingPop(args, Left)
	case "BRPOP":
		return parseBlockingPop(args, Right)
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, name)
	}
}

func parsePing(args []resp.Value) (Command, error) {
	switch len(args) {
	case 0:
		return Ping{}, nil
	case 1:
		msg, ok := argText(args[0])
		if !ok {
			return nil, wrongArg("PING", "message must be a bulk string")
		}
		return Ping{Message: []byte(msg), HasMessage: true}, nil
	default:
		return nil, wrongArity("PING")
	}
}

func parseEcho(args []resp.Value) (Command, error) {
	if len(args) != 1 {
		return nil, wrongArity("ECHO")
	}
	msg, ok := argText(args[0])
	if !ok {
		return nil, wrongArg("ECHO", "message must be a bulk string")
	}
	return Echo{Message: msg}, nil
}

func parseSet(args []resp.Value) (Command, error) {
	if len(args) < 2 {
		return nil, wrongArity("SET")
	}
	key, ok := argText(args[0])
	if !ok {
		return nil, wrongArg("SET", "key must be a bulk string")
	}

	cmd := Set{Key: key, Value: args[1]}

	// Trailing tokens are scanned for a PX option; anything else is kept in
	// Extra and ignored.
	for i := 2; i < len(args); i++ {
		tok, ok := argText(args[i])
		if !ok {
			return nil, wrongArg("SET", "options must be bulk strings")
		}
		if strings.EqualFold(tok, "PX") {
			if i+1 >= len(args) {
				return nil, wrongArg("SET", "PX requires a millisecond value")
			}
			msTok, ok := argText(args[i+1])
			if !ok {
				return nil, wrongArg("SET", "PX value must be a bulk string")
			}
			ms, err := strconv.ParseInt(msTok, 10, 64)
			if err != nil || ms < 0 {
				return nil, wrongArg("SET", "PX value is not a valid integer")
			}
			cmd.TTL = time.Duration(ms) * time.Millisecond
			cmd.HasTTL = true
			i++
			continue
		}
		cmd.Extra = append(cmd.Extra, tok)
	}
	return cmd, nil
}

func parseGet(args []resp.Value) (Command, error) {
	if len(args) != 1 {
		return nil, wrongArity("GET")
	}
	key, ok := argText(args[0])
	if !ok {
		return nil, wrongArg("GET", "key must be a bulk string")
	}
	return Get{Key: key}, nil
}

func parsePush(args []resp.Value, dir Direction) (Command, error) {
	cmd := ListPush{Dir: dir}
	if len(args) < 2 {
		return nil, wrongArity(cmd.Name())
	}
	key, ok := argText(args[0])
	if !ok {
		return nil, wrongArg(cmd.Name(), "key must be a bulk string")
	}
	cmd.Key = key
	cmd.Values = append(cmd.Values, args[1:]...)
	return cmd, nil
}

func parseRange(args []resp.Value) (Command, error) {
	if len(args) != 3 {
		return nil, wrongArity("LRANGE")
	}
	key, ok := argText(args[0])
	if !ok {
		return nil, wrongArg("LRANGE", "key must be a bulk string")
	}
	start, ok := argInt(args[1])
	if !ok {
		return nil, wrongArg("LRANGE", "start index is not an integer")
	}
	stop, ok := argInt(args[2])
	if !ok {
		return nil, wrongArg("LRANGE", "stop index is not an integer")
	}
	return ListRange{Key: key, Start: start, Stop: stop}, nil
}

func parseLen(args []resp.Value) (Command, error) {
	if len(args) != 1 {
		return nil, wrongArity("LLEN")
	}
	key, ok := argText(args[0])
	if !ok {
		return nil, wrongArg("LLEN", "key must be a bulk string")
	}
	return ListLen{Key: key}, nil
}

func parsePop(args []resp.Value, dir Direction) (Command, error) {
	cmd := ListPop{Dir: dir, Count: 1}
	if len(args) < 1 || len(args) > 2 {
		return nil, wrongArity(cmd.Name())
	}
	key, ok := argText(args[0])
	if !ok {
		return nil, wrongArg(cmd.Name(), "key must be a bulk string")
	}
	cmd.Key = key
	if len(args) == 2 {
		count, ok := argInt(args[1])
		if !ok || count < 0 {
			return nil, wrongArg(cmd.Name(), "count is not a valid integer")
		}
		cmd.Count = count
		cmd.HasCount = true
	}
	return cmd, nil
}

func parseBlockingPop(args []resp.Value, dir Direction) (Command, error) {
	cmd := ListPop{Dir: dir, Count: 1, Block: true}
	if len(args) < 1 || len(args) > 2 {
		return nil, wrongArity(cmd.Name())
	}
	key, ok := argText(args[0])
	if !ok {
		return nil, wrongArg(cmd.Name(), "key must be a bulk string")
	}
	cmd.Key = key
	if len(args) == 2 {
		tok, ok := argText(args[1])
		if !ok {
			return nil, wrongArg(cmd.Name(), "timeout must be a bulk string")
		}
		secs, err := strconv.ParseFloat(tok, 64)
		if err != nil || secs < 0 {
			return nil, wrongArg(cmd.Name(), "timeout is not a valid number")
		}
		cmd.Timeout = time.Duration(secs * float64(time.Second))
	}
	return cmd, nil
}

// argText extracts the text of a non-null bulk string argument.
func argText(v resp.Value) (string, bool) {
	if v.Kind() != resp.KindBulkString || v.IsNull() {
		return "", false
	}
	return string(v.Bytes()), true
}

// argInt extracts an integer argument, accepting either an integer value or
// numeric text in a bulk or simple string.
func argInt(v resp.Value) (int64, bool) {
	switch v.Kind() {
	case resp.KindInteger:
		return v.Int(), true
	case resp.KindBulkString:
		if v.IsNull() {
			return 0, false
		}
		n, err := strconv.ParseInt(string(v.Bytes()), 10, 64)
		return n, err == nil
	case resp.KindSimpleString:
		n, err := strconv.ParseInt(v.Text(), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func wrongArity(name string) error {
	return fmt.Errorf("%w: wrong number of arguments for '%s' command", ErrParse, name)
}

func wrongArg(name, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrParse, name, detail)
}
