package clibase

import (
	"flag"
	"fmt"
	"io"

	"seqtree/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections before the shared blocks.
func UsageCommon(fs *flag.FlagSet, name, tagline string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – %s\n\n", name, tagline)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nAlignment:")
		fmt.Fprintf(out, "      --match int             Match score [%s]\n", def("match"))
		fmt.Fprintf(out, "      --mismatch int          Mismatch score [%s]\n", def("mismatch"))
		fmt.Fprintf(out, "      --gap int               Gap penalty, negative [%s]\n", def("gap"))
		fmt.Fprintf(out, "      --case-sensitive        Compare residues case-sensitively [%s]\n", def("case-sensitive"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintln(out, "      --config file           YAML configuration (env SEQTREE_* overrides it, flags override both)")
		fmt.Fprintf(out, "      --log-level string      debug | info | warn | error [%s]\n", def("log-level"))
		fmt.Fprintf(out, "      --log-format string     console | json [%s]\n", def("log-format"))
		fmt.Fprintf(out, "  -q, --quiet                 Only log errors [%s]\n", def("quiet"))
		fmt.Fprintln(out, "      --examples              Print usage examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
