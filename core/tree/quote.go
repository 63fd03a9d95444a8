package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Labels that contain any of these must be quoted in Newick.
const newickSpecial = " \t\r\n()[]',:;"

// quoteLabel returns name as a Newick label: unchanged when it is a plain
// token, otherwise wrapped in single quotes with embedded quotes doubled.
func quoteLabel(name string) string {
	if name != "" && !strings.ContainsAny(name, newickSpecial) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// Private-use rune that starts a stand-in token; no FASTA label carries it.
const stand = '\uE000'

// unquote replaces every quoted label in nw with a bare stand-in token the
// gotree lexer accepts, and returns the stand-in to label mapping. Bracketed
// comments are copied through untouched.
func unquote(nw string) (string, map[string]string, error) {
	if !strings.ContainsRune(nw, '\'') {
		return nw, nil, nil
	}
	var out strings.Builder
	labels := map[string]string{}
	rs := []rune(nw)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '[':
			end := i
			for end < len(rs) && rs[end] != ']' {
				end++
			}
			if end == len(rs) {
				return "", nil, fmt.Errorf("newick: unterminated comment")
			}
			out.WriteString(string(rs[i : end+1]))
			i = end
		case '\'':
			var label strings.Builder
			closed := false
			for i++; i < len(rs); i++ {
				if rs[i] != '\'' {
					label.WriteRune(rs[i])
					continue
				}
				if i+1 < len(rs) && rs[i+1] == '\'' {
					label.WriteRune('\'')
					i++
					continue
				}
				closed = true
				break
			}
			if !closed {
				return "", nil, fmt.Errorf("newick: unterminated quoted label")
			}
			key := string(stand) + strconv.Itoa(len(labels))
			labels[key] = label.String()
			out.WriteString(key)
		default:
			out.WriteRune(rs[i])
		}
	}
	return out.String(), labels, nil
}
