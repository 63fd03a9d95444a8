package writers

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"seqtree-core/matrix"
)

// FASTAWidth wraps aligned sequences.
const FASTAWidth = 60

func init() {
	Register("newick", WriteNewick)
	Register("fasta", WriteAlignedFASTA)
}

// WriteNewick prints the assembled topology on one line.
func WriteNewick(w io.Writer, r Report) error {
	if r.Topology == nil {
		return fmt.Errorf("newick output needs a tree assembler (set --assembler)")
	}
	nw := strings.TrimSpace(r.Topology.Newick)
	if !strings.HasSuffix(nw, ";") {
		nw += ";"
	}
	_, err := fmt.Fprintln(w, nw)
	return err
}

// WriteAlignedFASTA writes the aligned-to-reference rows, reference first
// flagged in its header.
func WriteAlignedFASTA(w io.Writer, r Report) error {
	if r.Strategy != matrix.Reference || r.Aligned == nil {
		return fmt.Errorf("fasta output needs --strategy reference")
	}
	labels := r.Matrix.Labels()
	bw := bufio.NewWriter(w)
	for i, s := range r.Aligned {
		bw.WriteByte('>')
		bw.WriteString(labels[i])
		if i == r.Reference {
			bw.WriteString(" reference")
		}
		bw.WriteByte('\n')
		for len(s) > FASTAWidth {
			bw.WriteString(s[:FASTAWidth])
			bw.WriteByte('\n')
			s = s[FASTAWidth:]
		}
		bw.WriteString(s)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
