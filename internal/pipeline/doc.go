// Package pipeline turns parsed sequence records into a distance matrix.
//
// Alignments run on a bounded worker pool; one collector goroutine owns the
// matrix and writes each cell by index, so output never depends on the
// number of workers or on scheduling.
//
// The only contracts to implement are Aligner and DistanceCache.
package pipeline
