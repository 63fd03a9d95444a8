// Package seq turns raw FASTA or JSON text into named sequence records.
package seq

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"seqtree-core/errs"
)

// DefaultName labels records whose input carries no usable name.
const DefaultName = "Unknown"

// Record is one named sequence. Seq never contains whitespace.
type Record struct {
	Name string `json:"name"`
	Seq  string `json:"sequence"`
}

// Format selects the input syntax.
type Format string

const (
	FormatFASTA Format = "fasta"
	FormatJSON  Format = "json"
)

// ParseFormat accepts "fasta", "fa" or "json" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fasta", "fa":
		return FormatFASTA, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown sequence format %q (want fasta or json)", s)
}

// Parse reads every record from r. On failure no records are returned and
// the error is categorized as errs.ErrMalformedInput.
func Parse(r io.Reader, f Format) ([]Record, error) {
	switch f {
	case FormatFASTA:
		return parseFASTA(r)
	case FormatJSON:
		return parseJSON(r)
	}
	return nil, errs.MalformedInput("unsupported format %q", f)
}

// ParseString is Parse over an in-memory blob.
func ParseString(text string, f Format) ([]Record, error) {
	return Parse(strings.NewReader(text), f)
}

// FoldCase upper-cases an ASCII letter and returns any other byte unchanged.
func FoldCase(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// StripSpace removes every Unicode whitespace rune.
func StripSpace(s string) string {
	if strings.IndexFunc(s, unicode.IsSpace) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
