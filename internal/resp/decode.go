package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits to keep a single frame from exhausting memory.
const (
	// MaxArrayLen limits the number of elements in an array frame.
	MaxArrayLen = 1024

	// MaxBulkLen limits the size of a single bulk string payload (512KB).
	MaxBulkLen = 512 * 1024

	// maxHeaderLen limits a scalar line or length header ("+...", "$nnn").
	maxHeaderLen = 64 * 1024
)

var (
	// ErrProtocol reports a malformed frame: bad lead byte, non-numeric
	// length, missing or mismatched terminator.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrIncomplete reports that the buffer ends before the frame does.
	// The caller should read more bytes and retry.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrUnsupported reports a recognized RESP3 type this server does not
	// implement (floats, big numbers, maps, sets, verbatim strings, bulk
	// errors, attributes, push).
	ErrUnsupported = errors.New("resp: unsupported type")

	// ErrLimitExceeded reports a frame exceeding a protocol limit.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

var crlf = []byte("\r\n")

// Decode parses exactly one frame from the front of buf and returns the
// decoded value together with the number of bytes it consumed. It is a
// prefix parser: bytes past the frame are left untouched, so pipelined
// frames can be decoded by repeated calls.
//
// A buffer that ends mid-frame yields ErrIncomplete rather than a protocol
// error, and never a panic.
func Decode(buf []byte) (Value, int, error) {
	if len(buf) == 0 {
		return Value{}, 0, ErrIncomplete
	}
	switch buf[0] {
	case '+':
		return decodeSimpleString(buf)
	case '-':
		return decodeSimpleError(buf)
	case ':':
		return decodeInteger(buf)
	case '$':
		return decodeBulkString(buf)
	case '*':
		return decodeArray(buf)
	case '_':
		return decodeNull(buf)
	case '#':
		return decodeBoolean(buf)
	case ',', '(', '!', '=', '%', '|', '~', '>':
		return Value{}, 0, fmt.Errorf("%w: lead byte %q", ErrUnsupported, buf[0])
	default:
		return Value{}, 0, fmt.Errorf("%w: unknown lead byte %q", ErrProtocol, buf[0])
	}
}

// line extracts the bytes between the lead byte and the first CRLF.
// Returned n is the total length of the line including lead byte and CRLF.
func line(buf []byte) (payload []byte, n int, err error) {
	idx := bytes.Index(buf[1:], crlf)
	if idx < 0 {
		if len(buf) > maxHeaderLen {
			return nil, 0, fmt.Errorf("%w: header length exceeds limit %d", ErrLimitExceeded, maxHeaderLen)
		}
		return nil, 0, ErrIncomplete
	}
	return buf[1 : 1+idx], 1 + idx + len(crlf), nil
}

func decodeSimpleString(buf []byte) (Value, int, error) {
	payload, n, err := line(buf)
	if err != nil {
		return Value{}, 0, err
	}
	return SimpleString(string(payload)), n, nil
}

func decodeSimpleError(buf []byte) (Value, int, error) {
	payload, n, err := line(buf)
	if err != nil {
		return Value{}, 0, err
	}
	// Kind and message split on the first space; no space means the whole
	// line is the kind and the message is empty.
	kind, message, _ := bytes.Cut(payload, []byte(" "))
	return Error(string(kind), string(message)), n, nil
}

func decodeInteger(buf []byte) (Value, int, error) {
	payload, n, err := line(buf)
	if err != nil {
		return Value{}, 0, err
	}
	num, err := strconv.ParseInt(string(payload), 10, 64)
	if err != nil {
		return Value{}, 0, fmt.Errorf("%w: invalid integer %q", ErrProtocol, payload)
	}
	return Integer(num), n, nil
}

func decodeBulkString(buf []byte) (Value, int, error) {
	header, n, err := line(buf)
	if err != nil {
		return Value{}, 0, err
	}
	length, err := strconv.Atoi(string(header))
	if err != nil {
		return Value{}, 0, fmt.Errorf("%w: invalid bulk length %q", ErrProtocol, header)
	}
	if length == -1 {
		return NullBulkString(), n, nil
	}
	if length < 0 {
		return Value{}, 0, fmt.Errorf("%w: negative bulk length %d", ErrProtocol, length)
	}
	if length > MaxBulkLen {
		return Value{}, 0, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, length, MaxBulkLen)
	}

	// Length-driven read: the payload is binary-safe, so we never scan it
	// for a terminator.
	end := n + length
	if len(buf) < end+len(crlf) {
		return Value{}, 0, ErrIncomplete
	}
	if !bytes.Equal(buf[end:end+len(crlf)], crlf) {
		return Value{}, 0, fmt.Errorf("%w: bulk string not terminated by CRLF", ErrProtocol)
	}
	payload := make([]byte, length)
	copy(payload, buf[n:end])
	return BulkString(payload), end + len(crlf), nil
}

func decodeArray(buf []byte) (Value, int, error) {
	header, n, err := line(buf)
	if err != nil {
		return Value{}, 0, err
	}
	count, err := strconv.Atoi(string(header))
	if err != nil {
		return Value{}, 0, fmt.Errorf("%w: invalid array length %q", ErrProtocol, header)
	}
	if count == -1 {
		return NullArray(), n, nil
	}
	if count < 0 {
		return Value{}, 0, fmt.Errorf("%w: negative array length %d", ErrProtocol, count)
	}
	if count > MaxArrayLen {
		return Value{}, 0, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, count, MaxArrayLen)
	}

	// An array frame has no terminator of its own: it ends where its last
	// element ends.
	elems := make([]Value, 0, count)
	for i := 0; i < count; i++ {
		elem, consumed, err := Decode(buf[n:])
		if err != nil {
			return Value{}, 0, err
		}
		elems = append(elems, elem)
		n += consumed
	}
	return Array(elems...), n, nil
}

func decodeNull(buf []byte) (Value, int, error) {
	if len(buf) < 3 {
		return Value{}, 0, ErrIncomplete
	}
	if !bytes.Equal(buf[1:3], crlf) {
		return Value{}, 0, fmt.Errorf("%w: null not terminated by CRLF", ErrProtocol)
	}
	return Null(), 3, nil
}

func decodeBoolean(buf []byte) (Value, int, error) {
	payload, n, err := line(buf)
	if err != nil {
		return Value{}, 0, err
	}
	switch string(payload) {
	case "t":
		return Boolean(true), n, nil
	case "f":
		return Boolean(false), n, nil
	default:
		return Value{}, 0, fmt.Errorf("%w: invalid boolean %q", ErrProtocol, payload)
	}
}
