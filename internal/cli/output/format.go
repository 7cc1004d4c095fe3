// Package output provides reply formatting for strand-cli.
package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strandkv/strand/internal/resp"
)

// Format renders a reply value the way interactive Redis clients do:
// annotated scalars, quoted bulk strings, numbered (and nestable) arrays.
func Format(v resp.Value) string {
	var sb strings.Builder
	writeValue(&sb, v, "")
	return sb.String()
}

func writeValue(sb *strings.Builder, v resp.Value, indent string) {
	switch v.Kind() {
	case resp.KindSimpleString:
		sb.WriteString(v.Text())

	case resp.KindSimpleError:
		kind, msg := v.ErrorParts()
		sb.WriteString("(error) " + kind + " " + msg)

	case resp.KindInteger:
		sb.WriteString("(integer) " + strconv.FormatInt(v.Int(), 10))

	case resp.KindBulkString:
		if v.IsNull() {
			sb.WriteString("(nil)")
			return
		}
		sb.WriteString(strconv.Quote(string(v.Bytes())))

	case resp.KindArray:
		if v.IsNull() {
			sb.WriteString("(nil)")
			return
		}
		elems := v.Elems()
		if len(elems) == 0 {
			sb.WriteString("(empty array)")
			return
		}
		// Continuation lines are indented to keep nested arrays readable.
		pad := indent + strings.Repeat(" ", numberWidth(len(elems))+2)
		for i, e := range elems {
			if i > 0 {
				sb.WriteString("\n" + indent)
			}
			sb.WriteString(fmt.Sprintf("%*d) ", numberWidth(len(elems)), i+1))
			writeValue(sb, e, pad)
		}

	case resp.KindNull:
		sb.WriteString("(nil)")

	case resp.KindBoolean:
		if v.Bool() {
			sb.WriteString("(true)")
		} else {
			sb.WriteString("(false)")
		}
	}
}

func numberWidth(n int) int {
	return len(strconv.Itoa(n))
}
