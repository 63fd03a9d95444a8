// Package tree defines the contract between a distance matrix and whatever
// turns it into a topology, plus validation of the Newick strings that come
// back.
package tree

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	gtree "github.com/evolbioinfo/gotree/tree"

	"seqtree-core/matrix"
)

// Topology is the renderer hand-off: a rooted or unrooted tree in Newick
// notation whose leaves are exactly Labels.
type Topology struct {
	Newick    string
	Labels    []string
	LeafCount int
}

// Assembler clusters a distance matrix into a topology. Implementations are
// free to use any method (NJ, BIONJ, UPGMA).
type Assembler interface {
	Assemble(ctx context.Context, m *matrix.DistanceMatrix) (Topology, error)
}

// ParseTopology parses nw and checks that its leaf names form the same
// multiset as labels.
func ParseTopology(nw string, labels []string) (Topology, error) {
	t, err := parse(nw)
	if err != nil {
		return Topology{}, err
	}
	if err := checkLeaves(t, labels); err != nil {
		return Topology{}, err
	}
	return Topology{
		Newick:    strings.TrimSpace(nw),
		Labels:    append([]string(nil), labels...),
		LeafCount: len(labels),
	}, nil
}

// RenameTips parses nw, replaces every tip whose name is a key of names, and
// validates the result against labels. Tips missing from names are an error.
// Labels that need it are quoted in the returned Newick.
func RenameTips(nw string, names map[string]string, labels []string) (Topology, error) {
	t, err := parse(nw)
	if err != nil {
		return Topology{}, err
	}
	for _, tip := range t.Tips() {
		to, ok := names[tip.Name()]
		if !ok {
			return Topology{}, fmt.Errorf("newick: unexpected tip %q", tip.Name())
		}
		tip.SetName(to)
	}
	if err := checkLeaves(t, labels); err != nil {
		return Topology{}, err
	}
	for _, n := range t.Nodes() {
		if n.Name() != "" {
			n.SetName(quoteLabel(n.Name()))
		}
	}
	return Topology{
		Newick:    t.Newick(),
		Labels:    append([]string(nil), labels...),
		LeafCount: len(labels),
	}, nil
}

// parse reads nw with quoted labels already unquoted in the node names.
func parse(nw string) (*gtree.Tree, error) {
	nw = strings.TrimSpace(nw)
	if nw == "" {
		return nil, fmt.Errorf("newick: empty tree")
	}
	bare, quoted, err := unquote(nw)
	if err != nil {
		return nil, err
	}
	t, err := newick.NewParser(strings.NewReader(bare)).Parse()
	if err != nil {
		return nil, fmt.Errorf("newick: %w", err)
	}
	if len(quoted) > 0 {
		for _, n := range t.Nodes() {
			if name, ok := quoted[n.Name()]; ok {
				n.SetName(name)
			}
		}
	}
	return t, nil
}

func checkLeaves(t *gtree.Tree, labels []string) error {
	tips := t.Tips()
	got := make([]string, 0, len(tips))
	for _, tip := range tips {
		got = append(got, tip.Name())
	}
	want := append([]string(nil), labels...)
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		return fmt.Errorf("newick: %d leaves, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("newick: leaf set differs from labels (%q vs %q)", got[i], want[i])
		}
	}
	return nil
}
