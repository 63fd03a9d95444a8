package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"seqtree-core/align"
)

// Aligner is the minimal capability the builder needs. *align.Aligner
// satisfies it; tests use fakes.
type Aligner interface {
	Align(a, b string) (align.Result, error)
	AlignToReference(ref, query string) (string, error)
	CaseSensitive() bool
	Fingerprint() string
}

// DistanceCache memoizes pairwise distances across builds. Get reports a
// miss with ok=false and a nil error.
type DistanceCache interface {
	Get(ctx context.Context, key string) (d int, ok bool, err error)
	Put(ctx context.Context, key string, d int) error
}

// CacheKey identifies the distance between a (as A) and b (as B) under an
// aligner fingerprint. The pair is ordered: tie-breaking is not symmetric.
func CacheKey(fingerprint, a, b string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	return hex.EncodeToString(h.Sum(nil))
}
