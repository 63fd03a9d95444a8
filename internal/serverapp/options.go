package serverapp

import (
	"flag"
	"fmt"
	"io"
	"time"

	"seqtree-core/matrix"

	"seqtree/internal/clibase"
	"seqtree/internal/config"
)

// Options holds seqtree-server flags. Anything left unset falls back to the
// config file and environment.
type Options struct {
	clibase.Common

	Addr         string
	Strategy     string
	Threads      int
	MaxCells     int64
	Cache        string
	CacheEntries int

	Assembler        string
	AssemblerArgs    []string
	AssemblerTimeout time.Duration
}

// NewFlagSet returns a ContinueOnError FlagSet with the seqtree-server usage.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "distance matrices and trees over HTTP", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage: %s [flags]\n", name)
		fmt.Fprintln(out, "\nServer:")
		fmt.Fprintf(out, "      --addr string           Listen address [%s]\n", def("addr"))
		fmt.Fprintln(out, "\nMatrix:")
		fmt.Fprintf(out, "      --strategy string       Default strategy: all-pairs | reference [%s]\n", def("strategy"))
		fmt.Fprintf(out, "  -t, --threads int           Worker threads per build (0=all CPUs) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --max-cells int         DP cell ceiling per build (0=unlimited) [%s]\n", def("max-cells"))
		fmt.Fprintln(out, "      --cache file            SQLite distance cache shared by all builds")
		fmt.Fprintf(out, "      --cache-entries int     In-memory cache size when --cache is unset (0=off) [%s]\n", def("cache-entries"))
		fmt.Fprintln(out, "\nTree:")
		fmt.Fprintln(out, "      --assembler cmd         Program reading PHYLIP on stdin and writing Newick")
		fmt.Fprintln(out, "      --assembler-arg string  Argument for the program (repeatable)")
		fmt.Fprintf(out, "      --assembler-timeout dur Timeout for the program [%s]\n", def("assembler-timeout"))
	})
	return fs
}

// ParseArgs registers and parses all flags. Positional arguments are rejected.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	clibase.Register(fs, &o.Common)
	def := config.Default()

	fs.StringVar(&o.Addr, "addr", def.Server.Addr, "listen address")
	fs.StringVar(&o.Strategy, "strategy", def.Matrix.Strategy, "default distance strategy")
	fs.IntVar(&o.Threads, "threads", def.Matrix.Threads, "worker threads per build")
	fs.IntVar(&o.Threads, "t", def.Matrix.Threads, "alias of --threads")
	fs.Int64Var(&o.MaxCells, "max-cells", def.Matrix.MaxCells, "DP cell ceiling per build")
	fs.StringVar(&o.Cache, "cache", def.Cache.Path, "SQLite distance cache file")
	fs.IntVar(&o.CacheEntries, "cache-entries", def.Cache.MemoryEntries, "in-memory cache entries")
	fs.StringVar(&o.Assembler, "assembler", def.Assembler.Command, "tree program")
	clibase.StringSlice(fs, &o.AssemblerArgs, "argument passed to the tree program (repeatable)", "assembler-arg")
	fs.DurationVar(&o.AssemblerTimeout, "assembler-timeout", def.Assembler.Timeout, "tree program timeout")
	fs.BoolVar(&help, "h", false, "show this help message")

	if err := fs.Parse(argv); err != nil {
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
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if _, err := matrix.ParseStrategy(o.Strategy); err != nil {
		return o, fmt.Errorf("invalid --strategy: %w", err)
	}
	return o, nil
}

// Overrides binds seqtree-server flags to config keys.
func Overrides(o *Options) []clibase.Override {
	return []clibase.Override{
		{Flags: []string{"addr"}, Apply: func(c *config.Config) { c.Server.Addr = o.Addr }},
		{Flags: []string{"strategy"}, Apply: func(c *config.Config) {
			s, _ := matrix.ParseStrategy(o.Strategy)
			c.Matrix.Strategy = string(s)
		}},
		{Flags: []string{"threads", "t"}, Apply: func(c *config.Config) { c.Matrix.Threads = o.Threads }},
		{Flags: []string{"max-cells"}, Apply: func(c *config.Config) { c.Matrix.MaxCells = o.MaxCells }},
		{Flags: []string{"cache"}, Apply: func(c *config.Config) { c.Cache.Path = o.Cache }},
		{Flags: []string{"cache-entries"}, Apply: func(c *config.Config) { c.Cache.MemoryEntries = o.CacheEntries }},
		{Flags: []string{"assembler"}, Apply: func(c *config.Config) { c.Assembler.Command = o.Assembler }},
		{Flags: []string{"assembler-arg"}, Apply: func(c *config.Config) { c.Assembler.Args = o.AssemblerArgs }},
		clibase.DurationOverride("assembler-timeout", &o.AssemblerTimeout, func(c *config.Config) *time.Duration { return &c.Assembler.Timeout }),
	}
}
