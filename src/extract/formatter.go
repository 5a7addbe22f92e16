package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FormatCell converts one extraction result into one CSV cell. Absent and
// JSON null both become the empty placeholder, so a sparse field never
// shortens a row. Strings are sanitized and double-quoted; numbers and
// booleans are written bare. Pure function, no side effects.
func FormatCell(r Result) string {
	if !r.OK || r.Value == nil {
		return ""
	}
	switch v := r.Value.(type) {
	case string:
		return quoteCell(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// Records decoded without number preservation land here.
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		// A path may legitimately stop at an object or array; render it
		// as compact JSON and treat it like any other text cell.
		encoded, err := json.Marshal(v)
		if err != nil {
			return quoteCell(fmt.Sprintf("%v", v))
		}
		return quoteCell(string(encoded))
	}
}

// quoteCell produces a double-quoted CSV cell. Embedded newlines and
// carriage returns become single spaces (a raw line break inside a cell
// would split the row), bytes that are not valid UTF-8 are written as
// decimal character references so the output stays well-formed, and
// interior quote characters are doubled.
func quoteCell(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(s[i])))
			b.WriteByte(';')
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r == '"':
			b.WriteString(`""`)
		default:
			b.WriteRune(r)
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}
