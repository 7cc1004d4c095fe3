package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind identifies the protocol type of a Value.
type Kind uint8

const (
	KindSimpleString Kind = iota
	KindSimpleError
	KindInteger
	KindBulkString
	KindArray
	KindNull
	KindBoolean
)

// String returns the protocol type name.
func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple-string"
	case KindSimpleError:
		return "simple-error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is one RESP protocol value. It is a closed tagged union: every value
// is exactly one of the kinds above, and the zero Value is the empty simple
// string.
//
// Bulk strings and arrays are nullable independently of being empty. A null
// bulk string ("$-1") carries no payload; an empty bulk string ("$0") carries
// a zero-length payload. The two are distinct on the wire and in this type.
type Value struct {
	kind  Kind
	str   string // simple string text, or simple error kind
	msg   string // simple error message
	num   int64
	flag  bool // boolean payload
	null  bool // wire null marker for bulk strings and arrays
	bulk  []byte
	elems []Value
}

// SimpleString returns a "+text" value.
func SimpleString(s string) Value {
	return Value{kind: KindSimpleString, str: s}
}

// Error returns a "-kind message" value.
func Error(kind, message string) Value {
	return Value{kind: KindSimpleError, str: kind, msg: message}
}

// Integer returns a ":n" value.
func Integer(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

// BulkString returns a length-prefixed binary-safe string value.
// A nil payload is the null bulk string; use an empty non-nil slice for the
// empty bulk string.
func BulkString(b []byte) Value {
	if b == nil {
		return Value{kind: KindBulkString, null: true}
	}
	return Value{kind: KindBulkString, bulk: b}
}

// BulkStringText returns a non-null bulk string holding s.
func BulkStringText(s string) Value {
	return Value{kind: KindBulkString, bulk: []byte(s)}
}

// NullBulkString returns the null bulk string ("$-1").
func NullBulkString() Value {
	return Value{kind: KindBulkString, null: true}
}

// Array returns a present array of the given elements. Array() with no
// arguments is the empty-but-present array ("*0"), not the null array.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, elems: elems}
}

// NullArray returns the null array ("*-1").
func NullArray() Value {
	return Value{kind: KindArray, null: true}
}

// Null returns the RESP3 null value ("_").
func Null() Value {
	return Value{kind: KindNull}
}

// Boolean returns a "#t" / "#f" value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, flag: b}
}

// Kind returns the protocol type of the value.
func (v Value) Kind() Kind { return v.kind }

// Text returns the simple string payload.
func (v Value) Text() string { return v.str }

// ErrorParts returns the kind and message of a simple error.
func (v Value) ErrorParts() (kind, message string) { return v.str, v.msg }

// Int returns the integer payload.
func (v Value) Int() int64 { return v.num }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.flag }

// IsNull reports whether the value is a null bulk string, a null array, or
// the Null kind.
func (v Value) IsNull() bool {
	return v.kind == KindNull || ((v.kind == KindBulkString || v.kind == KindArray) && v.null)
}

// Bytes returns the bulk string payload. It is nil for the null bulk string
// and non-nil (possibly empty) otherwise.
func (v Value) Bytes() []byte {
	if v.null {
		return nil
	}
	return v.bulk
}

// Elems returns the array elements. It is nil for the null array and non-nil
// (possibly empty) otherwise.
func (v Value) Elems() []Value {
	if v.null {
		return nil
	}
	return v.elems
}

// Len returns the number of elements of a present array, or 0.
func (v Value) Len() int {
	if v.kind != KindArray || v.null {
		return 0
	}
	return len(v.elems)
}

// Equal reports whether two values are identical, including the null versus
// empty distinction for bulk strings and arrays.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindSimpleString:
		return v.str == o.str
	case KindSimpleError:
		return v.str == o.str && v.msg == o.msg
	case KindInteger:
		return v.num == o.num
	case KindBoolean:
		return v.flag == o.flag
	case KindNull:
		return true
	case KindBulkString:
		if v.null != o.null {
			return false
		}
		return v.null || bytes.Equal(v.bulk, o.bulk)
	case KindArray:
		if v.null != o.null {
			return false
		}
		if v.null {
			return true
		}
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns a readable debug form, not the wire form.
func (v Value) String() string {
	switch v.kind {
	case KindSimpleString:
		return "+" + v.str
	case KindSimpleError:
		return "-" + v.str + " " + v.msg
	case KindInteger:
		return ":" + strconv.FormatInt(v.num, 10)
	case KindBulkString:
		if v.null {
			return "(nil)"
		}
		return strconv.Quote(string(v.bulk))
	case KindArray:
		if v.null {
			return "(nil array)"
		}
		return fmt.Sprintf("%v", v.elems)
	case KindNull:
		return "(null)"
	case KindBoolean:
		if v.flag {
			return "#t"
		}
		return "#f"
	}
	return "(?)"
}
