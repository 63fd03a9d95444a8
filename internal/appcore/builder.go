// Package appcore is the orchestration shared by the seqtree CLI and the
// HTTP server: records in, report out.
package appcore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"seqtree-core/errs"
	"seqtree-core/matrix"
	"seqtree-core/seq"
	"seqtree-core/tree"

	"seqtree/internal/assembler"
	"seqtree/internal/config"
	"seqtree/internal/pipeline"
	"seqtree/internal/writers"
)

// ErrNoAssembler is returned when a tree is requested but none is configured.
var ErrNoAssembler = errors.New("no tree assembler configured")

// Builder runs one build: matrix, then (optionally) the tree.
type Builder struct {
	Matrix    config.Matrix
	Cache     pipeline.DistanceCache // may be nil
	Assembler tree.Assembler         // may be nil
	Logger    *zap.Logger
}

// NewBuilder wires the assembler from cfg. The cache is left to the caller:
// the CLI opens a file, the server keeps one in memory.
func NewBuilder(cfg *config.Config, log *zap.Logger) *Builder {
	b := &Builder{Matrix: cfg.Matrix, Logger: log}
	if cfg.Assembler.Command != "" {
		b.Assembler = &assembler.Exec{
			Command: cfg.Assembler.Command,
			Args:    cfg.Assembler.Args,
			Timeout: cfg.Assembler.Timeout,
			Logger:  log,
		}
	}
	return b
}

// Build aligns recs with al and fills a Report. strategy overrides the
// configured one when non-empty.
func (b *Builder) Build(ctx context.Context, recs []seq.Record, al pipeline.Aligner, strategy matrix.Strategy, wantTree bool) (writers.Report, pipeline.Result, error) {
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if strategy == "" {
		strategy = matrix.Strategy(b.Matrix.Strategy)
	}
	if wantTree && b.Assembler == nil {
		return writers.Report{}, pipeline.Result{}, ErrNoAssembler
	}

	var cache pipeline.DistanceCache
	if strategy == matrix.AllPairs {
		cache = b.Cache
	}
	res, err := pipeline.Build(ctx, pipeline.Config{
		Strategy: strategy,
		Threads:  b.Matrix.Threads,
		MaxCells: b.Matrix.MaxCells,
		Logger:   log,
	}, recs, al, cache)
	if err != nil {
		return writers.Report{}, res, err
	}
	log.Info("distance matrix built",
		zap.String("strategy", string(res.Strategy)),
		zap.Int("taxa", res.Matrix.Len()),
		zap.Int("alignments", res.Alignments),
		zap.Int("cache_hits", res.CacheHits))

	rep := writers.Report{
		Matrix:    res.Matrix,
		Strategy:  res.Strategy,
		Reference: res.Reference,
		Aligned:   res.Aligned,
	}
	if wantTree {
		top, err := b.Assembler.Assemble(ctx, res.Matrix)
		if err != nil {
			return writers.Report{}, res, err
		}
		// Any Assembler must hand back exactly the matrix labels as leaves.
		if _, err := tree.ParseTopology(top.Newick, res.Matrix.Labels()); err != nil {
			return writers.Report{}, res, fmt.Errorf("%w: %w", assembler.ErrFailed, err)
		}
		log.Info("tree assembled", zap.Int("leaves", top.LeafCount))
		rep.Topology = &top
	}
	return rep, res, nil
}

// ReadInputs parses every file in order and concatenates the records.
// format "auto" (or empty) detects per file.
func ReadInputs(paths []string, format string) ([]seq.Record, error) {
	var f seq.Format
	if format != "" && format != "auto" {
		var err error
		if f, err = seq.ParseFormat(format); err != nil {
			return nil, err
		}
	}
	var all []seq.Record
	for _, p := range paths {
		recs, err := seq.ReadFile(p, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		all = append(all, recs...)
	}
	return all, nil
}

// ExitCode maps a run error onto the CLI exit status: 2 for bad input or an
// over-budget request, 130 for cancellation, 3 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, errs.ErrMalformedInput),
		errors.Is(err, errs.ErrInsufficientData),
		errors.Is(err, errs.ErrWorkloadExceeded),
		errors.Is(err, ErrNoAssembler):
		return 2
	}
	return 3
}
