package store

import (
	"context"

	"github.com/strandkv/strand/internal/command"
	"github.com/strandkv/strand/internal/resp"
)

// Execute runs one command against the store and returns its response
// value. It never fails: missing keys, empty lists, and type mismatches are
// soft failures with a defined response. The context bounds blocking pops;
// everything else completes without suspending.
func (s *Store) Execute(ctx context.Context, cmd command.Command) resp.Value {
	switch c := cmd.(type) {
	case command.Ping:
		if c.HasMessage {
			return resp.BulkString(c.Message)
		}
		return resp.SimpleString("PONG")

	case command.Echo:
		return resp.BulkStringText(c.Message)

	case command.Set:
		return s.set(c)

	case command.Get:
		return s.get(c.Key)

	case command.ListPush:
		return s.push(c)

	case command.ListRange:
		return s.listRange(c)

	case command.ListLen:
		return s.listLen(c.Key)

	case command.ListPop:
		if c.Block {
			return s.blockingPop(ctx, c)
		}
		return s.pop(c)

	default:
		// Unreachable while the command union stays closed.
		return resp.Error("ERR", "unhandled command '"+cmd.Name()+"'")
	}
}

func (s *Store) set(c command.Set) resp.Value {
	s.mu.Lock()
	gen := uint64(1)
	if old, ok := s.entries[c.Key]; ok {
		gen = old.gen + 1
	}
	s.entries[c.Key] = &entry{val: c.Value, gen: gen}
	s.updateKeyGauge()
	s.mu.Unlock()

	if c.HasTTL {
		s.scheduleExpiry(c.Key, gen, c.TTL)
	}
	return resp.SimpleString("OK")
}

func (s *Store) get(key string) resp.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.val.Kind() == resp.KindArray {
		// Lists are not readable through GET; absent and list-typed keys
		// both answer the null bulk string.
		return resp.NullBulkString()
	}
	return e.val
}
