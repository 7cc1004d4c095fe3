package resp

import "strconv"

// Encode returns the wire form of the value. Encoding is total: every
// representable value has exactly one wire form, and Decode(Encode(v))
// yields v back while consuming len(Encode(v)) bytes.
func (v Value) Encode() []byte {
	return v.AppendTo(nil)
}

// AppendTo appends the wire form of the value to dst and returns the
// extended slice.
func (v Value) AppendTo(dst []byte) []byte {
	switch v.kind {
	case KindSimpleString:
		dst = append(dst, '+')
		dst = append(dst, v.str...)
		return append(dst, crlf...)
	case KindSimpleError:
		dst = append(dst, '-')
		dst = append(dst, v.str...)
		// The space separates kind from message; a bare kind carries
		// neither, matching the decoded form.
		if len(v.msg) > 0 {
			dst = append(dst, ' ')
			dst = append(dst, v.msg...)
		}
		return append(dst, crlf...)
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.num, 10)
		return append(dst, crlf...)
	case KindBulkString:
		if v.null {
			return append(dst, "$-1\r\n"...)
		}
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.bulk)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, v.bulk...)
		return append(dst, crlf...)
	case KindArray:
		if v.null {
			return append(dst, "*-1\r\n"...)
		}
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.elems)), 10)
		dst = append(dst, crlf...)
		for _, elem := range v.elems {
			dst = elem.AppendTo(dst)
		}
		return dst
	case KindNull:
		return append(dst, "_\r\n"...)
	case KindBoolean:
		if v.flag {
			return append(dst, "#t\r\n"...)
		}
		return append(dst, "#f\r\n"...)
	}
	return dst
}
