package appcore

import (
	"bufio"
	"context"
	"io"

	"go.uber.org/zap"

	"seqtree-core/errs"
	"seqtree-core/matrix"

	"seqtree/internal/cache"
	"seqtree/internal/config"
	"seqtree/internal/writers"
)

// Options are the per-invocation inputs that are not configuration.
type Options struct {
	Inputs []string
	Format string
	Output string
}

// Run reads inputs, builds, optionally assembles, and writes one report to
// stdout. It returns the process exit code.
func Run(parent context.Context, stdout io.Writer, log *zap.Logger, cfg *config.Config, o Options) int {
	strategy := matrix.Strategy(cfg.Matrix.Strategy)
	wantTree := cfg.Assembler.Command != ""
	switch {
	case o.Output == "newick" && !wantTree:
		log.Error("newick output needs a tree assembler (--assembler)")
		return 2
	case o.Output == "fasta" && strategy != matrix.Reference:
		log.Error("fasta output needs --strategy reference")
		return 2
	}

	recs, err := ReadInputs(o.Inputs, o.Format)
	if err != nil {
		log.Error("cannot read sequences", zap.Error(err))
		return ExitCode(err)
	}
	log.Debug("sequences loaded", zap.Int("records", len(recs)), zap.Strings("inputs", o.Inputs))

	al, err := cfg.NewAligner()
	if err != nil {
		log.Error("bad alignment settings", zap.Error(err))
		return 2
	}

	b := NewBuilder(cfg, log)
	if cfg.Cache.Path != "" && strategy == matrix.AllPairs {
		c, err := cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			log.Error("cannot open distance cache", zap.Error(err))
			return 3
		}
		defer c.Close()
		if n, err := c.Len(parent); err == nil {
			log.Debug("distance cache opened", zap.String("path", cfg.Cache.Path), zap.Int("entries", n))
		}
		b.Cache = c
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	rep, _, err := b.Build(ctx, recs, al, strategy, wantTree)
	if err != nil {
		code := ExitCode(err)
		if code != 130 {
			log.Error("build failed", zap.Error(err), zap.String("kind", string(errs.KindOf(err))))
		}
		return code
	}

	outw := bufio.NewWriter(stdout)
	if err := writers.Write(o.Output, outw, rep); err != nil {
		log.Error("write output", zap.Error(err))
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		log.Error("flush output", zap.Error(e))
		return 3
	}
	return 0
}
