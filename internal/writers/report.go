package writers

import (
	"seqtree-core/matrix"
	"seqtree-core/tree"

	"seqtree/pkg/api"
)

// Report is everything a writer may render.
type Report struct {
	Matrix    *matrix.DistanceMatrix
	Topology  *tree.Topology // nil when no assembler ran
	Strategy  matrix.Strategy
	Reference int      // -1 for all-pairs
	Aligned   []string // reference strategy only, in label order
}

// ToAPIBuild converts a Report into the public wire type.
func ToAPIBuild(r Report) api.BuildResultV1 {
	labels := r.Matrix.Labels()
	out := api.BuildResultV1{
		Labels:    labels,
		Matrix:    r.Matrix.Rows(),
		LeafCount: len(labels),
		Strategy:  string(r.Strategy),
	}
	if r.Reference >= 0 && r.Reference < len(labels) {
		out.Reference = labels[r.Reference]
	}
	if r.Topology != nil {
		out.Newick = r.Topology.Newick
		out.LeafCount = r.Topology.LeafCount
	}
	for i, s := range r.Aligned {
		out.Aligned = append(out.Aligned, api.RecordV1{Name: labels[i], Sequence: s})
	}
	return out
}
