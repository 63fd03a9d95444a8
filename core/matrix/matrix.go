// Package matrix holds the labelled, symmetric distance matrix handed to a
// tree assembler, and the strategies used to fill it.
package matrix

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"seqtree-core/errs"
)

// Strategy selects how pairwise distances are derived.
type Strategy string

const (
	// AllPairs aligns every unordered pair directly: O(n²) alignments.
	AllPairs Strategy = "all-pairs"
	// Reference aligns every record to one reference and compares the
	// aligned-to-reference rows: O(n) alignments.
	Reference Strategy = "reference"
)

// ParseStrategy accepts "all-pairs"/"allpairs"/"pairwise" and "reference"/"ref".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all-pairs", "allpairs", "pairwise":
		return AllPairs, nil
	case "reference", "ref":
		return Reference, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want all-pairs or reference)", s)
}

// DistanceMatrix is an n×n symmetric matrix with zero diagonal, paired with
// n ordered labels. Row/column k belongs to Labels()[k].
type DistanceMatrix struct {
	labels []string
	d      *mat.SymDense
}

// New returns a zero matrix for labels. At least two labels are required.
func New(labels []string) (*DistanceMatrix, error) {
	if len(labels) < 2 {
		return nil, errs.InsufficientData("distance matrix needs at least 2 taxa, got %d", len(labels))
	}
	return &DistanceMatrix{
		labels: append([]string(nil), labels...),
		d:      mat.NewSymDense(len(labels), nil),
	}, nil
}

// Len is the number of taxa.
func (m *DistanceMatrix) Len() int { return len(m.labels) }

// Labels returns a copy of the taxon labels in input order.
func (m *DistanceMatrix) Labels() []string { return append([]string(nil), m.labels...) }

// At returns D[i][j].
func (m *DistanceMatrix) At(i, j int) float64 { return m.d.At(i, j) }

// Set stores d at (i, j) and (j, i).
func (m *DistanceMatrix) Set(i, j int, d float64) error {
	n := m.Len()
	switch {
	case i < 0 || j < 0 || i >= n || j >= n:
		return fmt.Errorf("cell (%d,%d) outside %dx%d matrix", i, j, n, n)
	case i == j && d != 0:
		return fmt.Errorf("diagonal cell (%d,%d) must stay 0, got %v", i, j, d)
	case d < 0:
		return fmt.Errorf("distance at (%d,%d) must be non-negative, got %v", i, j, d)
	}
	m.d.SetSym(i, j, d)
	return nil
}

// Rows copies the matrix into a dense row slice.
func (m *DistanceMatrix) Rows() [][]float64 {
	n := m.Len()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.d.At(i, j)
		}
	}
	return out
}

// Equal reports identical labels and bit-identical distances.
func (m *DistanceMatrix) Equal(o *DistanceMatrix) bool {
	if o == nil || m.Len() != o.Len() {
		return false
	}
	for i := range m.labels {
		if m.labels[i] != o.labels[i] {
			return false
		}
	}
	return mat.Equal(m.d, o.d)
}

// Validate checks the zero-diagonal and non-negativity invariants.
func (m *DistanceMatrix) Validate() error {
	n := m.Len()
	for i := 0; i < n; i++ {
		if v := m.d.At(i, i); v != 0 {
			return fmt.Errorf("diagonal (%d,%d) = %v", i, i, v)
		}
		for j := i + 1; j < n; j++ {
			if v := m.d.At(i, j); v < 0 {
				return fmt.Errorf("negative distance at (%d,%d) = %v", i, j, v)
			}
		}
	}
	return nil
}

// String renders the matrix for debug logs.
func (m *DistanceMatrix) String() string {
	return fmt.Sprintf("%v\n%v", m.labels, mat.Formatted(m.d, mat.Squeeze()))
}

// SelectReference returns the index of the longest sequence; the first one
// wins ties. It returns -1 for an empty slice.
func SelectReference(seqs []string) int {
	best := -1
	for i, s := range seqs {
		if best < 0 || len(s) > len(seqs[best]) {
			best = i
		}
	}
	return best
}
