// Package distance scores dissimilarity between aligned sequences.
package distance

import "seqtree-core/seq"

// Hamming counts differing positions up to the longer length. Positions past
// the end of the shorter string count as mismatches. The count is not
// normalized; callers pass aligned (equal-length) rows.
func Hamming(a, b string) int {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	d := len(long) - len(short)
	for i := 0; i < len(short); i++ {
		if short[i] != long[i] {
			d++
		}
	}
	return d
}

// HammingFold is Hamming with ASCII letters compared case-insensitively.
func HammingFold(a, b string) int {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	d := len(long) - len(short)
	for i := 0; i < len(short); i++ {
		if seq.FoldCase(short[i]) != seq.FoldCase(long[i]) {
			d++
		}
	}
	return d
}

// For returns Hamming or HammingFold to match an aligner's case policy.
func For(caseSensitive bool) func(a, b string) int {
	if caseSensitive {
		return Hamming
	}
	return HammingFold
}

// Identity is 1 - d/max(len) where d is the distance For(caseSensitive)
// returns. Two empty strings are identical.
func Identity(a, b string, caseSensitive bool) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 1
	}
	return 1 - float64(For(caseSensitive)(a, b))/float64(n)
}
