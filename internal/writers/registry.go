package writers

import (
	"fmt"
	"io"
	"sort"
)

// Writer registry (format → handler). Formats register in init() blocks.
var reportWriters = map[string]func(io.Writer, Report) error{}

// Register adds or replaces (last wins) the writer for format.
func Register(format string, fn func(io.Writer, Report) error) { reportWriters[format] = fn }

// Formats lists registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(reportWriters))
	for f := range reportWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Write dispatches r to the writer registered for format. Broken pipes are
// not errors: a downstream `head` is allowed to stop reading.
func Write(format string, w io.Writer, r Report) error {
	fn, ok := reportWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	if r.Matrix == nil {
		return fmt.Errorf("%s output: no distance matrix", format)
	}
	if err := fn(w, r); err != nil && !IsBrokenPipe(err) {
		return err
	}
	return nil
}
