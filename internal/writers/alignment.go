package writers

import (
	"seqtree-core/align"
	"seqtree-core/distance"

	"seqtree/pkg/api"
)

// ToAPIAlignment converts one alignment into the public wire type. Hamming
// and identity follow the aligner's case policy.
func ToAPIAlignment(r align.Result, caseSensitive bool) api.AlignmentV1 {
	return api.AlignmentV1{
		AlignedA: r.A,
		AlignedB: r.B,
		Score:    r.Score,
		Length:   len(r.A),
		Hamming:  distance.For(caseSensitive)(r.A, r.B),
		Identity: distance.Identity(r.A, r.B, caseSensitive),
	}
}
