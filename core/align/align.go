// Package align implements Needleman-Wunsch global alignment with a linear
// gap penalty.
//
// The score matrix has |B|+1 rows and |A|+1 columns. Traceback starts at the
// bottom-right cell and, when several predecessors reproduce a cell's score,
// prefers diagonal, then up (a gap in A), then left (a gap in B).
package align

import (
	"fmt"

	"seqtree-core/errs"
	"seqtree-core/seq"
)

// Gap is the symbol inserted into aligned strings.
const Gap = '-'

// Scoring holds the linear scoring scheme.
type Scoring struct {
	Match    int `json:"match" yaml:"match"`
	Mismatch int `json:"mismatch" yaml:"mismatch"`
	Gap      int `json:"gap" yaml:"gap"`
}

// DefaultScoring is match +1, mismatch -1, gap -2.
var DefaultScoring = Scoring{Match: 1, Mismatch: -1, Gap: -2}

// Validate rejects schemes under which global alignment stops rewarding identity.
func (s Scoring) Validate() error {
	if s.Match <= 0 {
		return fmt.Errorf("match score must be positive, got %d", s.Match)
	}
	if s.Mismatch >= s.Match {
		return fmt.Errorf("mismatch score (%d) must be below match score (%d)", s.Mismatch, s.Match)
	}
	if s.Gap >= 0 {
		return fmt.Errorf("gap penalty must be negative, got %d", s.Gap)
	}
	return nil
}

// Options configure an Aligner.
type Options struct {
	Scoring Scoring

	// CaseSensitive compares residues byte-for-byte. When false, ASCII
	// letters are upper-cased for comparison only; aligned output keeps the
	// input's own letters.
	CaseSensitive bool

	// MaxCells caps (|A|+1)*(|B|+1) for one alignment; 0 means no cap.
	MaxCells int64
}

// Result is a pair of equal-length aligned strings and their score.
type Result struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Score int    `json:"score"`
}

// Aligner is safe for concurrent use; every call owns its buffers.
type Aligner struct {
	opt Options
}

// New validates opt and returns an Aligner.
func New(opt Options) (*Aligner, error) {
	if err := opt.Scoring.Validate(); err != nil {
		return nil, err
	}
	if opt.MaxCells < 0 {
		return nil, fmt.Errorf("max cells must be >= 0, got %d", opt.MaxCells)
	}
	return &Aligner{opt: opt}, nil
}

// Default returns an Aligner with DefaultScoring, case-insensitive, uncapped.
func Default() *Aligner {
	return &Aligner{opt: Options{Scoring: DefaultScoring}}
}

// CaseSensitive reports whether residues are compared byte-for-byte.
func (al *Aligner) CaseSensitive() bool { return al.opt.CaseSensitive }

// Fingerprint identifies the scoring and comparison policy, e.g. for cache keys.
func (al *Aligner) Fingerprint() string {
	return fmt.Sprintf("nw:m=%d,x=%d,g=%d,cs=%t",
		al.opt.Scoring.Match, al.opt.Scoring.Mismatch, al.opt.Scoring.Gap, al.opt.CaseSensitive)
}

// Cells is the DP matrix size for sequences of length n and m.
func Cells(n, m int) int64 { return int64(n+1) * int64(m+1) }

func (al *Aligner) check(a, b string) error {
	if a == "" && b == "" {
		return errs.AlignmentFailure("both sequences are empty")
	}
	if al.opt.MaxCells > 0 {
		if c := Cells(len(a), len(b)); c > al.opt.MaxCells {
			return errs.WorkloadExceeded("alignment of %d x %d residues needs %d cells, limit %d",
				len(a), len(b), c, al.opt.MaxCells)
		}
	}
	return nil
}

func (al *Aligner) sub(x, y byte) int {
	if !al.opt.CaseSensitive {
		x, y = seq.FoldCase(x), seq.FoldCase(y)
	}
	if x == y {
		return al.opt.Scoring.Match
	}
	return al.opt.Scoring.Mismatch
}

// fill computes the full score matrix, row-major with len(a)+1 columns.
func (al *Aligner) fill(a, b string) []int {
	gap := al.opt.Scoring.Gap
	cols := len(a) + 1
	rows := len(b) + 1
	m := make([]int, rows*cols)
	for j := 0; j < cols; j++ {
		m[j] = j * gap
	}
	for i := 1; i < rows; i++ {
		row := i * cols
		prev := row - cols
		m[row] = i * gap
		for j := 1; j < cols; j++ {
			best := m[prev+j-1] + al.sub(b[i-1], a[j-1])
			if up := m[prev+j] + gap; up > best {
				best = up
			}
			if left := m[row+j-1] + gap; left > best {
				best = left
			}
			m[row+j] = best
		}
	}
	return m
}

// Align globally aligns a and b.
func (al *Aligner) Align(a, b string) (Result, error) {
	if err := al.check(a, b); err != nil {
		return Result{}, err
	}
	m := al.fill(a, b)
	gap := al.opt.Scoring.Gap
	cols := len(a) + 1

	outA := make([]byte, 0, len(a)+len(b))
	outB := make([]byte, 0, len(a)+len(b))
	i, j := len(b), len(a)
	for i > 0 && j > 0 {
		cur := m[i*cols+j]
		switch {
		case cur == m[(i-1)*cols+j-1]+al.sub(b[i-1], a[j-1]):
			outA = append(outA, a[j-1])
			outB = append(outB, b[i-1])
			i--
			j--
		case cur == m[(i-1)*cols+j]+gap:
			outA = append(outA, Gap)
			outB = append(outB, b[i-1])
			i--
		default:
			outA = append(outA, a[j-1])
			outB = append(outB, Gap)
			j--
		}
	}
	for ; i > 0; i-- {
		outA = append(outA, Gap)
		outB = append(outB, b[i-1])
	}
	for ; j > 0; j-- {
		outA = append(outA, a[j-1])
		outB = append(outB, Gap)
	}
	reverse(outA)
	reverse(outB)

	return Result{A: string(outA), B: string(outB), Score: m[len(m)-1]}, nil
}

// AlignToReference aligns query against ref and returns only the aligned query.
func (al *Aligner) AlignToReference(ref, query string) (string, error) {
	res, err := al.Align(ref, query)
	if err != nil {
		return "", err
	}
	return res.B, nil
}

// Score returns the optimal global score using two rows of memory.
func (al *Aligner) Score(a, b string) (int, error) {
	if err := al.check(a, b); err != nil {
		return 0, err
	}
	gap := al.opt.Scoring.Gap
	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j * gap
	}
	for i := 1; i <= len(b); i++ {
		cur[0] = i * gap
		for j := 1; j <= len(a); j++ {
			best := prev[j-1] + al.sub(b[i-1], a[j-1])
			if up := prev[j] + gap; up > best {
				best = up
			}
			if left := cur[j-1] + gap; left > best {
				best = left
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}
	return prev[len(a)], nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
