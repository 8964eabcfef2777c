// Package sqlout renders donations as MySQL insert statements.
package sqlout

import (
	"fmt"
	"strings"
)

// Null is what Quote emits for an empty value.
const Null = "NULL"

var quoter = strings.NewReplacer(`\`, `\\`, `'`, `''`, "\n", `\n`)

// Quote renders s as a MySQL string literal. The empty string becomes NULL.
func Quote(s string) string {
	if s == "" {
		return Null
	}

	return "'" + quoter.Replace(s) + "'"
}

// Unquote reverses Quote.
func Unquote(lit string) (string, error) {
	if lit == Null {
		return "", nil
	}

	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", fmt.Errorf("not a quoted literal: %s", lit)
	}

	body := lit[1 : len(lit)-1]

	var sb strings.Builder

	sb.Grow(len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]

		switch c {
		case '\\':
			if i+1 == len(body) {
				return "", fmt.Errorf("dangling backslash in %s", lit)
			}

			i++

			switch body[i] {
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			default:
				return "", fmt.Errorf("unknown escape \\%c in %s", body[i], lit)
			}
		case '\'':
			if i+1 == len(body) || body[i+1] != '\'' {
				return "", fmt.Errorf("unpaired quote in %s", lit)
			}

			i++

			sb.WriteByte('\'')
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}
