package output

import (
	"testing"

	"github.com/strandkv/strand/internal/resp"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   resp.Value
		want string
	}{
		{
			name: "simple string",
			in:   resp.SimpleString("OK"),
			want: "OK",
		},
		{
			name: "error",
			in:   resp.Error("ERR", "unknown command 'FOO'"),
			want: "(error) ERR unknown command 'FOO'",
		},
		{
			name: "integer",
			in:   resp.Integer(42),
			want: "(integer) 42",
		},
		{
			name: "bulk string",
			in:   resp.BulkStringText("hello"),
			want: `"hello"`,
		},
		{
			name: "bulk string with escapes",
			in:   resp.BulkStringText("a\r\nb"),
			want: `"a\r\nb"`,
		},
		{
			name: "null bulk string",
			in:   resp.NullBulkString(),
			want: "(nil)",
		},
		{
			name: "empty array",
			in:   resp.Array(),
			want: "(empty array)",
		},
		{
			name: "null array",
			in:   resp.NullArray(),
			want: "(nil)",
		},
		{
			name: "flat array",
			in:   resp.Array(resp.BulkStringText("a"), resp.BulkStringText("b")),
			want: "1) \"a\"\n2) \"b\"",
		},
		{
			name: "array with mixed types",
			in:   resp.Array(resp.Integer(1), resp.NullBulkString()),
			want: "1) (integer) 1\n2) (nil)",
		},
		{
			name: "nested array",
			in: resp.Array(
				resp.BulkStringText("jobs"),
				resp.Array(resp.BulkStringText("x"), resp.BulkStringText("y")),
			),
			want: "1) \"jobs\"\n2) 1) \"x\"\n   2) \"y\"",
		},
		{
			name: "null",
			in:   resp.Null(),
			want: "(nil)",
		},
		{
			name: "boolean",
			in:   resp.Boolean(true),
			want: "(true)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
