package command

import (
	"time"

	"github.com/strandkv/strand/internal/resp"
)

// Direction selects which end of a list an operation works on.
type Direction int

const (
	Left Direction = iota
	Right
)

// String returns "left" or "right".
func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Command is one validated client request. The set of implementations is
// closed; construction through Parse is the only place argument validation
// happens, and commands are immutable after that.
type Command interface {
	// Name returns the normalized (upper-case) command name.
	Name() string
}

// Ping checks liveness. With a message it behaves like Echo.
type Ping struct {
	Message    []byte
	HasMessage bool
}

func (Ping) Name() string { return "PING" }

// Echo returns its argument verbatim.
type Echo struct {
	Message string
}

func (Echo) Name() string { return "ECHO" }

// Set stores a value under a key, optionally expiring it after TTL.
type Set struct {
	Key   string
	Value resp.Value

	// TTL is the PX expiry; valid only when HasTTL is set.
	TTL    time.Duration
	HasTTL bool

	// Extra holds trailing tokens that were not recognized as options.
	// They are preserved but otherwise ignored.
	Extra []string
}

func (Set) Name() string { return "SET" }

// Get reads the value stored under a key.
type Get struct {
	Key string
}

func (Get) Name() string { return "GET" }

// ListPush appends one or more values to a list, creating it if absent.
type ListPush struct {
	Key    string
	Values []resp.Value
	Dir    Direction
}

func (p ListPush) Name() string {
	if p.Dir == Left {
		return "LPUSH"
	}
	return "RPUSH"
}

// ListRange reads an inclusive index range of a list. Negative indexes
// count from the end.
type ListRange struct {
	Key   string
	Start int64
	Stop  int64
}

func (ListRange) Name() string { return "LRANGE" }

// ListLen reads the length of a list.
type ListLen struct {
	Key string
}

func (ListLen) Name() string { return "LLEN" }

// ListPop removes elements from one end of a list.
//
// Non-blocking pops take an optional count (HasCount reports whether one was
// given; the default is one element). Blocking pops always take exactly one
// element and carry an optional timeout, where zero means wait forever.
type ListPop struct {
	Key string
	Dir Direction

	Count    int64
	HasCount bool

	Block   bool
	Timeout time.Duration
}

func (p ListPop) Name() string {
	switch {
	case p.Block && p.Dir == Left:
		return "BLPOP"
	case p.Block:
		return "BRPOP"
	case p.Dir == Left:
		return "LPOP"
	default:
		return "RPOP"
	}
}
