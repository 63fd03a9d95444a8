package writers

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"seqtree-core/matrix"
)

func init() {
	Register("phylip", func(w io.Writer, r Report) error {
		return matrix.WritePHYLIP(w, r.Matrix, nil)
	})
	Register("tsv", WriteTSV)
}

// WriteTSV writes a header of labels, then one tab-separated row per taxon.
func WriteTSV(w io.Writer, r Report) error {
	labels := r.Matrix.Labels()
	bw := bufio.NewWriter(w)
	bw.WriteString("taxon\t")
	bw.WriteString(strings.Join(labels, "\t"))
	bw.WriteByte('\n')
	for i, row := range r.Matrix.Rows() {
		bw.WriteString(labels[i])
		for _, d := range row {
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatFloat(d, 'f', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
