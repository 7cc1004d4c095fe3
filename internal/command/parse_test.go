package command

import (
	"errors"
	"testing"
	"time"

	"github.com/strandkv/strand/internal/resp"
)

func req(args ...string) resp.Value {
	elems := make([]resp.Value, 0, len(args))
	for _, a := range args {
		elems = append(elems, resp.BulkStringText(a))
	}
	return resp.Array(elems...)
}

// ============================================================
// Parse Tests - Basic Commands
// ============================================================

func TestParse_Ping(t *testing.T) {
	cmd, err := Parse(req("PING"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p, ok := cmd.(Ping)
	if !ok {
		t.Fatalf("Parse() = %T, want Ping", cmd)
	}
	if p.HasMessage {
		t.Error("bare PING should carry no message")
	}

	cmd, err = Parse(req("ping", "hello"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p = cmd.(Ping)
	if !p.HasMessage || string(p.Message) != "hello" {
		t.Errorf("PING message = %q, want %q", p.Message, "hello")
	}
}

func TestParse_Echo(t *testing.T) {
	cmd, err := Parse(req("EcHo", "hey there"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	e, ok := cmd.(Echo)
	if !ok {
		t.Fatalf("Parse() = %T, want Echo", cmd)
	}
	if e.Message != "hey there" {
		t.Errorf("message = %q, want %q", e.Message, "hey there")
	}

	if _, err := Parse(req("ECHO")); err == nil {
		t.Error("ECHO with no argument should fail")
	}
	if _, err := Parse(req("ECHO", "a", "b")); err == nil {
		t.Error("ECHO with two arguments should fail")
	}
}

func TestParse_Set(t *testing.T) {
	tests := []struct {
		name     string
		input    resp.Value
		wantKey  string
		wantTTL  time.Duration
		hasTTL   bool
		wantErr  bool
		extraLen int
	}{
		{
			name:    "plain set",
			input:   req("SET", "k", "v"),
			wantKey: "k",
		},
		{
			name:    "set with px",
			input:   req("SET", "k", "v", "PX", "1500"),
			wantKey: "k",
			wantTTL: 1500 * time.Millisecond,
			hasTTL:  true,
		},
		{
			name:    "px is case-insensitive",
			input:   req("SET", "k", "v", "px", "100"),
			wantKey: "k",
			wantTTL: 100 * time.Millisecond,
			hasTTL:  true,
		},
		{
			name:     "unrecognized trailing tokens preserved",
			input:    req("SET", "k", "v", "NX", "KEEPTTL"),
			wantKey:  "k",
			extraLen: 2,
		},
		{
			name:    "malformed px value",
			input:   req("SET", "k", "v", "PX", "soon"),
			wantErr: true,
		},
		{
			name:    "px without value",
			input:   req("SET", "k", "v", "PX"),
			wantErr: true,
		},
		{
			name:    "missing value",
			input:   req("SET", "k"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() error = nil, want error")
				}
				if !errors.Is(err, ErrParse) {
					t.Errorf("error = %v, want ErrParse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			s := cmd.(Set)
			if s.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", s.Key, tt.wantKey)
			}
			if s.HasTTL != tt.hasTTL || s.TTL != tt.wantTTL {
				t.Errorf("ttl = (%v, %v), want (%v, %v)", s.TTL, s.HasTTL, tt.wantTTL, tt.hasTTL)
			}
			if len(s.Extra) != tt.extraLen {
				t.Errorf("extra = %v, want %d tokens", s.Extra, tt.extraLen)
			}
		})
	}
}

// ============================================================
// Parse Tests - List Commands
// ============================================================

func TestParse_Push(t *testing.T) {
	cmd, err := Parse(req("LPUSH", "mylist", "a", "b", "c"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := cmd.(ListPush)
	if p.Dir != Left || p.Key != "mylist" || len(p.Values) != 3 {
		t.Errorf("ListPush = %+v", p)
	}

	cmd, err = Parse(req("rpush", "mylist", "x"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.(ListPush).Dir != Right {
		t.Error("RPUSH direction should be Right")
	}

	if _, err := Parse(req("LPUSH", "mylist")); err == nil {
		t.Error("push without values should fail")
	}
}

func TestParse_Range(t *testing.T) {
	cmd, err := Parse(req("LRANGE", "mylist", "-100", "-1"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r := cmd.(ListRange)
	if r.Start != -100 || r.Stop != -1 {
		t.Errorf("range = (%d, %d), want (-100, -1)", r.Start, r.Stop)
	}

	// Indexes may also arrive as integer frames.
	cmd, err = Parse(resp.Array(
		resp.BulkStringText("LRANGE"),
		resp.BulkStringText("mylist"),
		resp.Integer(0),
		resp.Integer(2),
	))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r = cmd.(ListRange)
	if r.Start != 0 || r.Stop != 2 {
		t.Errorf("range = (%d, %d), want (0, 2)", r.Start, r.Stop)
	}

	if _, err := Parse(req("LRANGE", "mylist", "zero", "1")); err == nil {
		t.Error("non-numeric index should fail")
	}
}

func TestParse_Pop(t *testing.T) {
	cmd, err := Parse(req("LPOP", "mylist"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := cmd.(ListPop)
	if p.Block || p.HasCount || p.Count != 1 || p.Dir != Left {
		t.Errorf("ListPop = %+v", p)
	}

	cmd, err = Parse(req("RPOP", "mylist", "3"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p = cmd.(ListPop)
	if !p.HasCount || p.Count != 3 || p.Dir != Right {
		t.Errorf("ListPop = %+v", p)
	}

	if _, err := Parse(req("LPOP", "mylist", "-1")); err == nil {
		t.Error("negative count should fail")
	}
}

func TestParse_BlockingPop(t *testing.T) {
	cmd, err := Parse(req("BLPOP", "mylist", "0"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := cmd.(ListPop)
	if !p.Block || p.Timeout != 0 || p.Dir != Left {
		t.Errorf("ListPop = %+v", p)
	}

	cmd, err = Parse(req("BRPOP", "mylist", "1.5"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p = cmd.(ListPop)
	if !p.Block || p.Timeout != 1500*time.Millisecond || p.Dir != Right {
		t.Errorf("ListPop = %+v", p)
	}

	if _, err := Parse(req("BLPOP", "mylist", "never")); err == nil {
		t.Error("non-numeric timeout should fail")
	}
}

// ============================================================
// Parse Tests - Malformed Requests
// ============================================================

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input resp.Value
	}{
		{"not an array", resp.BulkStringText("PING")},
		{"null array", resp.NullArray()},
		{"empty array", resp.Array()},
		{"name not a bulk string", resp.Array(resp.Integer(1))},
		{"null name", resp.Array(resp.NullBulkString())},
		{"unknown command", req("FLUSHALL")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
		})
	}
}
