package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"seqtree-core/matrix"

	"seqtree/internal/clibase"
	"seqtree/internal/cliutil"
	"seqtree/internal/config"
	"seqtree/internal/writers"
)

// Options holds all seqtree flags and arguments.
type Options struct {
	clibase.Common

	// Input
	Inputs []string
	Format string // auto | fasta | json

	// Matrix
	Strategy string
	Threads  int
	MaxCells int64
	Cache    string

	// Tree
	Assembler        string
	AssemblerArgs    []string
	AssemblerTimeout time.Duration

	// Output
	Output string
}

func register(fs *flag.FlagSet, o *Options) {
	clibase.Register(fs, &o.Common)
	def := config.Default()

	clibase.StringSlice(fs, &o.Inputs, "sequence file(s) (repeatable) or '-'", "sequences", "s")
	fs.StringVar(&o.Format, "format", "auto", "input format: auto | fasta | json")
	fs.StringVar(&o.Format, "f", "auto", "alias of --format")

	fs.StringVar(&o.Strategy, "strategy", def.Matrix.Strategy, "distance strategy: all-pairs | reference")
	fs.IntVar(&o.Threads, "threads", def.Matrix.Threads, "worker threads (0=all CPUs)")
	fs.IntVar(&o.Threads, "t", def.Matrix.Threads, "alias of --threads")
	fs.Int64Var(&o.MaxCells, "max-cells", def.Matrix.MaxCells, "DP cell ceiling for the whole build (0=unlimited)")
	fs.StringVar(&o.Cache, "cache", def.Cache.Path, "SQLite distance cache file (all-pairs)")

	fs.StringVar(&o.Assembler, "assembler", def.Assembler.Command, "tree program: reads PHYLIP on stdin, writes Newick")
	clibase.StringSlice(fs, &o.AssemblerArgs, "argument passed to the tree program (repeatable)", "assembler-arg")
	fs.DurationVar(&o.AssemblerTimeout, "assembler-timeout", def.Assembler.Timeout, "tree program timeout (0=none)")

	fs.StringVar(&o.Output, "output", "phylip", "output: "+strings.Join(writers.Formats(), " | "))
	fs.StringVar(&o.Output, "o", "phylip", "alias of --output")
}

// NewSeqtreeFlagSet returns a ContinueOnError FlagSet with the seqtree usage.
func NewSeqtreeFlagSet(name string) *flag.FlagSet {
	fs := NewFlagSet(name)
	clibase.UsageCommon(fs, name, "sequences to distance matrix to tree", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage: %s [flags] FILE...\n", name)
		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -s, --sequences file        FASTA or JSON file(s) (repeatable, .gz ok) or '-' for STDIN")
		fmt.Fprintf(out, "  -f, --format string         auto | fasta | json [%s]\n", def("format"))
		fmt.Fprintln(out, "\nMatrix:")
		fmt.Fprintf(out, "      --strategy string       all-pairs | reference [%s]\n", def("strategy"))
		fmt.Fprintf(out, "  -t, --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --max-cells int         DP cell ceiling for the build (0=unlimited) [%s]\n", def("max-cells"))
		fmt.Fprintln(out, "      --cache file            SQLite distance cache (all-pairs)")
		fmt.Fprintln(out, "\nTree:")
		fmt.Fprintln(out, "      --assembler cmd         Program reading PHYLIP on stdin and writing Newick")
		fmt.Fprintln(out, "      --assembler-arg string  Argument for the program (repeatable)")
		fmt.Fprintf(out, "      --assembler-timeout dur Timeout for the program [%s]\n", def("assembler-timeout"))
		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         %s [%s]\n", strings.Join(writers.Formats(), " | "), def("output"))
	})
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Positional arguments are input files; globs are expanded.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	register(fs, &o)
	fs.BoolVar(&help, "h", false, "show this help message")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	if o.Examples {
		return o, clibase.ErrPrintedAndExitOK
	}
	exp, err := cliutil.ExpandPositionals(append(posArgs, fs.Args()...))
	if err != nil {
		return o, err
	}
	o.Inputs = append(o.Inputs, exp...)
	return o, validate(&o)
}

func validate(o *Options) error {
	if len(o.Inputs) == 0 {
		return errors.New("at least one sequence file is required")
	}
	switch o.Format {
	case "auto", "fasta", "fa", "json":
	default:
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	if _, err := matrix.ParseStrategy(o.Strategy); err != nil {
		return fmt.Errorf("invalid --strategy: %w", err)
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if o.MaxCells < 0 {
		return errors.New("--max-cells must be ≥ 0")
	}
	if o.AssemblerTimeout < 0 {
		return errors.New("--assembler-timeout must be ≥ 0")
	}
	if !slices.Contains(writers.Formats(), o.Output) {
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	return nil
}

// Overrides binds seqtree flags to config keys for clibase.LoadConfig.
func Overrides(o *Options) []clibase.Override {
	return []clibase.Override{
		{Flags: []string{"strategy"}, Apply: func(c *config.Config) {
			s, _ := matrix.ParseStrategy(o.Strategy)
			c.Matrix.Strategy = string(s)
		}},
		{Flags: []string{"threads", "t"}, Apply: func(c *config.Config) { c.Matrix.Threads = o.Threads }},
		{Flags: []string{"max-cells"}, Apply: func(c *config.Config) { c.Matrix.MaxCells = o.MaxCells }},
		{Flags: []string{"cache"}, Apply: func(c *config.Config) { c.Cache.Path = o.Cache }},
		{Flags: []string{"assembler"}, Apply: func(c *config.Config) { c.Assembler.Command = o.Assembler }},
		{Flags: []string{"assembler-arg"}, Apply: func(c *config.Config) { c.Assembler.Args = o.AssemblerArgs }},
		clibase.DurationOverride("assembler-timeout", &o.AssemblerTimeout, func(c *config.Config) *time.Duration { return &c.Assembler.Timeout }),
	}
}
