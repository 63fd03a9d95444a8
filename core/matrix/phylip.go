package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WritePHYLIP writes m as a relaxed, square PHYLIP distance matrix: the taxon
// count, then one line per taxon holding its name and its distances. names
// overrides the matrix labels when non-nil (external tools often choke on
// arbitrary labels).
func WritePHYLIP(w io.Writer, m *DistanceMatrix, names []string) error {
	if names == nil {
		names = m.labels
	}
	if len(names) != m.Len() {
		return fmt.Errorf("phylip: %d names for %d taxa", len(names), m.Len())
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", m.Len())
	for i, name := range names {
		bw.WriteString(name)
		for j := 0; j < m.Len(); j++ {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(m.d.At(i, j), 'f', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
