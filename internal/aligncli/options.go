// Package aligncli parses seqtree-align flags.
package aligncli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"seqtree-core/seq"

	"seqtree/internal/clibase"
	"seqtree/internal/cliutil"
	"seqtree/internal/pretty"
)

// Options holds all seqtree-align flags and arguments.
type Options struct {
	clibase.Common

	A      string
	B      string
	Inputs []string
	Format string

	Output    string // text | json
	Width     int
	ScoreOnly bool
}

// NewFlagSet returns a ContinueOnError FlagSet with the seqtree-align usage.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "global alignment of two sequences", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage:\n  %s [flags] --a SEQ --b SEQ\n  %s [flags] pair.fa\n", name, name)
		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "      --a string              First sequence")
		fmt.Fprintln(out, "      --b string              Second sequence")
		fmt.Fprintln(out, "  -s, --sequences file        File holding exactly two records (FASTA or JSON)")
		fmt.Fprintf(out, "  -f, --format string         auto | fasta | json [%s]\n", def("format"))
		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         text | json [%s]\n", def("output"))
		fmt.Fprintf(out, "      --width int             Columns per alignment block [%s]\n", def("width"))
		fmt.Fprintln(out, "      --score-only            Print only the optimal score (linear memory)")
	})
	return fs
}

// ParseArgs registers and parses all flags.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.A, "a", "", "first sequence")
	fs.StringVar(&o.B, "b", "", "second sequence")
	clibase.StringSlice(fs, &o.Inputs, "file with two records", "sequences", "s")
	fs.StringVar(&o.Format, "format", "auto", "input format: auto | fasta | json")
	fs.StringVar(&o.Format, "f", "auto", "alias of --format")
	fs.StringVar(&o.Output, "output", "text", "output: text | json")
	fs.StringVar(&o.Output, "o", "text", "alias of --output")
	fs.IntVar(&o.Width, "width", pretty.DefaultOptions.Width, "columns per block")
	fs.BoolVar(&o.ScoreOnly, "score-only", false, "print only the optimal score")
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
	o.A, o.B = seq.StripSpace(o.A), seq.StripSpace(o.B)
	return o, validate(&o)
}

func validate(o *Options) error {
	inline := o.A != "" || o.B != ""
	switch {
	case inline && len(o.Inputs) > 0:
		return errors.New("use either --a/--b or a sequence file, not both")
	case !inline && len(o.Inputs) == 0:
		return errors.New("need --a and --b, or one sequence file")
	case !inline && len(o.Inputs) > 1:
		return errors.New("exactly one sequence file is accepted")
	}
	switch o.Format {
	case "auto", "fasta", "fa", "json":
	default:
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	switch o.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	if o.Width < 1 {
		return errors.New("--width must be ≥ 1")
	}
	return nil
}
