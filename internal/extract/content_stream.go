package extract

import (
	"encoding/hex"
	"strings"
)

// textFromContentStream decodes the strings shown by Tj, TJ, ' and " operators.
// Positioning operators become whitespace so words from separate runs stay apart.
func textFromContentStream(data []byte) string {
	var (
		out     strings.Builder
		pending []string
	)
	newline := func() {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
	}
	space := func() {
		if s := out.String(); s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			out.WriteByte(' ')
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := readLiteral(data, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] != '<':
			s, next := readHex(data, i)
			pending = append(pending, s)
			i = next
		case isOperatorStart(c):
			start := i
			for i < len(data) && isOperatorChar(data[i]) {
				i++
			}
			switch string(data[start:i]) {
			case "Tj", "TJ":
				for _, s := range pending {
					out.WriteString(s)
				}
			case "'", "\"":
				newline()
				for _, s := range pending {
					out.WriteString(s)
				}
			case "Td", "TD", "Tm":
				space()
			case "T*", "ET":
				newline()
			}
			pending = pending[:0]
		default:
			i++
		}
	}
	return strings.TrimSpace(out.String())
}

func isOperatorStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '\'' || c == '"'
}

func isOperatorChar(c byte) bool {
	return isOperatorStart(c) || c == '*'
}

// readLiteral reads a balanced (...) string starting at data[start] and returns the
// decoded text and the index just past the closing paren.
func readLiteral(data []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			i++
			if i >= len(data) {
				return sb.String(), i
			}
			switch e := data[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					val := 0
					for n := 0; n < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7'; n++ {
						val = val*8 + int(data[i]-'0')
						i++
					}
					sb.WriteByte(byte(val))
					continue
				}
				sb.WriteByte(e)
			}
			i++
			continue
		case '(':
			depth++
			if depth > 1 {
				sb.WriteByte(c)
			}
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
		i++
	}
	return sb.String(), i
}

// readHex reads a <...> string. Non-printable decodings (CID fonts) are dropped.
func readHex(data []byte, start int) (string, int) {
	end := start + 1
	for end < len(data) && data[end] != '>' {
		end++
	}
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') {
			return r
		}
		return -1
	}, string(data[start+1:end]))
	if len(digits)%2 == 1 {
		digits += "0"
	}
	decoded, err := hex.DecodeString(digits)
	if err != nil {
		return "", end + 1
	}
	for _, b := range decoded {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return "", end + 1
		}
	}
	return string(decoded), end + 1
}
