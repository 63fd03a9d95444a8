// Package app is the seqtree command: sequence files in, distance matrix
// (and optionally a tree) out.
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"seqtree/internal/appcore"
	"seqtree/internal/cli"
	"seqtree/internal/clibase"
	"seqtree/internal/cmdutil"
	"seqtree/internal/version"
	"seqtree/internal/writers"
)

// flush finishes a help/version page: broken pipes are not failures.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}

func examples(out io.Writer) {
	_, _ = fmt.Fprintln(out, "  # PHYLIP matrix from a FASTA file")
	_, _ = fmt.Fprintln(out, "  seqtree seqs.fa > dist.phy")
	_, _ = fmt.Fprintln(out, "\n  # O(n) alignments against the longest sequence, TSV for a spreadsheet")
	_, _ = fmt.Fprintln(out, "  seqtree --strategy reference -o tsv seqs.fa")
	_, _ = fmt.Fprintln(out, "\n  # Neighbour-joining tree through an external program")
	_, _ = fmt.Fprintln(out, "  seqtree --assembler fastme --assembler-arg=-i --assembler-arg=/dev/stdin -o newick seqs.json")
	_, _ = fmt.Fprintln(out, "\n  # Reuse distances across runs")
	_, _ = fmt.Fprintln(out, "  seqtree --cache ~/.cache/seqtree.db seqs.fa.gz")
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewSeqtreeFlagSet("seqtree")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, 0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return flush(outw, stderr, 0)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, "seqtree", examples)
			return flush(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqtree version %s\n", version.Version)
		return flush(outw, stderr, 0)
	}

	cfg, err := clibase.LoadConfig(fs, &opts.Common, cli.Overrides(&opts)...)
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

	return appcore.Run(parent, stdout, log, cfg, appcore.Options{
		Inputs: opts.Inputs,
		Format: opts.Format,
		Output: opts.Output,
	})
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
