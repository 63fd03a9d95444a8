// Package alignapp is seqtree-align: one global alignment, rendered for
// people or as JSON.
package alignapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"seqtree-core/errs"
	"seqtree-core/seq"

	"seqtree/internal/aligncli"
	"seqtree/internal/appcore"
	"seqtree/internal/clibase"
	"seqtree/internal/cmdutil"
	"seqtree/internal/jsonutil"
	"seqtree/internal/pretty"
	"seqtree/internal/version"
	"seqtree/internal/writers"
	"seqtree/pkg/api"
)

func examples(out io.Writer) {
	_, _ = fmt.Fprintln(out, "  # Two inline sequences")
	_, _ = fmt.Fprintln(out, "  seqtree-align --a GATTACA --b GCATGCU")
	_, _ = fmt.Fprintln(out, "\n  # The two records of a FASTA file, as JSON")
	_, _ = fmt.Fprintln(out, "  seqtree-align -o json pair.fa")
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	flush := func(code int) int {
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return code
	}

	fs := aligncli.NewFlagSet("seqtree-align")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = aligncli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flush(0)
	}

	opts, err := aligncli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return flush(0)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, "seqtree-align", examples)
			return flush(0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(2)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqtree-align version %s\n", version.Version)
		return flush(0)
	}

	cfg, err := clibase.LoadConfig(fs, &opts.Common)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	log, err := cmdutil.NewLogger(cfg.Log.Level, cfg.Log.Format, opts.Quiet, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	a := seq.Record{Name: "a", Seq: opts.A}
	b := seq.Record{Name: "b", Seq: opts.B}
	if len(opts.Inputs) > 0 {
		recs, err := appcore.ReadInputs(opts.Inputs, opts.Format)
		if err != nil {
			log.Error("cannot read sequences", zap.Error(err))
			return appcore.ExitCode(err)
		}
		if len(recs) != 2 {
			log.Error("want exactly 2 records", zap.String("file", opts.Inputs[0]), zap.Int("records", len(recs)))
			return 2
		}
		a, b = recs[0], recs[1]
	}
	if parent.Err() != nil {
		return 130
	}

	al, err := cfg.NewAligner()
	if err != nil {
		log.Error("bad alignment settings", zap.Error(err))
		return 2
	}
	if opts.ScoreOnly {
		score, err := al.Score(a.Seq, b.Seq)
		if err != nil {
			return alignFailed(log, err)
		}
		if opts.Output == "json" {
			if err := jsonutil.EncodePretty(outw, api.ScoreV1{Score: score}); err != nil && !writers.IsBrokenPipe(err) {
				log.Error("write output", zap.Error(err))
				return 3
			}
		} else {
			_, _ = fmt.Fprintf(outw, "%d\n", score)
		}
		return flush(0)
	}

	res, err := al.Align(a.Seq, b.Seq)
	if err != nil {
		return alignFailed(log, err)
	}

	sum := writers.ToAPIAlignment(res, al.CaseSensitive())
	switch opts.Output {
	case "json":
		if err := jsonutil.EncodePretty(outw, sum); err != nil && !writers.IsBrokenPipe(err) {
			log.Error("write output", zap.Error(err))
			return 3
		}
	default:
		po := pretty.DefaultOptions
		po.Width = opts.Width
		po.CaseSensitive = al.CaseSensitive()
		_, _ = io.WriteString(outw, pretty.RenderAlignmentWithOptions(a.Name, b.Name, res, po))
		_, _ = fmt.Fprintf(outw, "\nscore %d  length %d  hamming %d  identity %.4f\n",
			sum.Score, sum.Length, sum.Hamming, sum.Identity)
	}
	return flush(0)
}

func alignFailed(log *zap.Logger, err error) int {
	log.Error("alignment failed", zap.Error(err))
	if errors.Is(err, errs.ErrWorkloadExceeded) {
		return 2
	}
	return 3
}
