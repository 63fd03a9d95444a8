// Package pretty renders alignments as wrapped, human-readable ASCII blocks.
package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"seqtree-core/align"
	"seqtree-core/seq"
)

// Options control the ASCII rendering.
type Options struct {
	// Columns per block. If <=0, use default (60).
	Width int

	// Fold ASCII case before deciding match vs mismatch.
	CaseSensitive bool

	// Glyphs
	MatchGlyph    byte // default '|'
	MismatchGlyph byte // default '.'
	GapGlyph      byte // default ' '
}

// DefaultOptions renders 60 columns, case-insensitive.
var DefaultOptions = Options{
	Width:         60,
	MatchGlyph:    '|',
	MismatchGlyph: '.',
	GapGlyph:      ' ',
}

const linePrefix = "# "

// MatchLine marks each aligned column.
func MatchLine(a, b string, opt Options) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		x, y := a[i], b[i]
		if !opt.CaseSensitive {
			x, y = seq.FoldCase(x), seq.FoldCase(y)
		}
		switch {
		case x == align.Gap || y == align.Gap:
			out[i] = opt.GapGlyph
		case x == y:
			out[i] = opt.MatchGlyph
		default:
			out[i] = opt.MismatchGlyph
		}
	}
	return string(out)
}

// RenderAlignment renders r with DefaultOptions.
func RenderAlignment(nameA, nameB string, r align.Result) string {
	return RenderAlignmentWithOptions(nameA, nameB, r, DefaultOptions)
}

// RenderAlignmentWithOptions renders r as blocks of three lines: row A with
// 1-based residue coordinates, the match line, row B. Blocks are separated
// by a blank line.
func RenderAlignmentWithOptions(nameA, nameB string, r align.Result, opt Options) string {
	if opt.Width <= 0 {
		opt.Width = DefaultOptions.Width
	}
	if opt.MatchGlyph == 0 {
		opt.MatchGlyph = DefaultOptions.MatchGlyph
	}
	if opt.MismatchGlyph == 0 {
		opt.MismatchGlyph = DefaultOptions.MismatchGlyph
	}
	if opt.GapGlyph == 0 {
		opt.GapGlyph = DefaultOptions.GapGlyph
	}

	nameW := len(nameA)
	if len(nameB) > nameW {
		nameW = len(nameB)
	}
	resA := len(r.A) - strings.Count(r.A, string(align.Gap))
	resB := len(r.B) - strings.Count(r.B, string(align.Gap))
	numW := len(strconv.Itoa(max(resA, resB, 1)))
	pad := strings.Repeat(" ", nameW+1+numW+1)
	marks := MatchLine(r.A, r.B, opt)

	var b strings.Builder
	posA, posB := 0, 0
	for lo := 0; lo < len(r.A); lo += opt.Width {
		hi := min(lo+opt.Width, len(r.A))
		if lo > 0 {
			b.WriteByte('\n')
		}
		posA = row(&b, nameA, nameW, numW, r.A[lo:hi], posA)
		b.WriteString(strings.TrimRight(linePrefix+pad+marks[lo:hi], " "))
		b.WriteByte('\n')
		posB = row(&b, nameB, nameW, numW, r.B[lo:hi], posB)
	}
	return b.String()
}

func row(b *strings.Builder, name string, nameW, numW int, chunk string, pos int) int {
	n := len(chunk) - strings.Count(chunk, string(align.Gap))
	fmt.Fprintf(b, "%s%-*s %*d %s %d\n", linePrefix, nameW, name, numW, pos+1, chunk, pos+n)
	return pos + n
}
