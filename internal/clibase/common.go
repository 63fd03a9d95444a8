// Package clibase holds flags and help text shared by the seqtree tools.
package clibase

import (
	"flag"
	"fmt"
	"time"

	"seqtree/internal/config"
)

// Common holds CLI fields shared by seqtree, seqtree-align and seqtree-server.
// Values only override the configuration when the flag was set explicitly.
type Common struct {
	ConfigPath string

	// Alignment
	Match         int
	Mismatch      int
	Gap           int
	CaseSensitive bool

	// Logging
	LogLevel  string
	LogFormat string
	Quiet     bool

	Version  bool
	Examples bool
}

// sliceValue appends each value to a *[]string (for repeatable flags)
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return fmt.Sprint(*s.dst)
}

func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// StringSlice registers a repeatable string flag under every name.
func StringSlice(fs *flag.FlagSet, dst *[]string, usage string, names ...string) {
	v := &sliceValue{dst: dst}
	for _, n := range names {
		fs.Var(v, n, usage)
	}
}

// Register wires shared flags onto fs. Defaults mirror config.Default so the
// help text is truthful.
func Register(fs *flag.FlagSet, c *Common) {
	def := config.Default()

	fs.StringVar(&c.ConfigPath, "config", "", "YAML configuration file")

	fs.IntVar(&c.Match, "match", def.Alignment.Match, "match score")
	fs.IntVar(&c.Mismatch, "mismatch", def.Alignment.Mismatch, "mismatch score")
	fs.IntVar(&c.Gap, "gap", def.Alignment.Gap, "gap penalty (negative)")
	fs.BoolVar(&c.CaseSensitive, "case-sensitive", def.Alignment.CaseSensitive, "compare residues case-sensitively")

	fs.StringVar(&c.LogLevel, "log-level", def.Log.Level, "log level: debug | info | warn | error")
	fs.StringVar(&c.LogFormat, "log-format", def.Log.Format, "log format: console | json")
	fs.BoolVar(&c.Quiet, "quiet", false, "only log errors")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")

	fs.BoolVar(&c.Version, "v", false, "print version and exit")
	fs.BoolVar(&c.Version, "version", false, "print version and exit")
	fs.BoolVar(&c.Examples, "examples", false, "print usage examples and exit")
}

// Override is one flag-to-config binding, applied only if the flag was set.
type Override struct {
	Flags []string
	Apply func(*config.Config)
}

// CommonOverrides binds the shared flags to their config keys.
func CommonOverrides(c *Common) []Override {
	return []Override{
		{[]string{"match"}, func(cfg *config.Config) { cfg.Alignment.Match = c.Match }},
		{[]string{"mismatch"}, func(cfg *config.Config) { cfg.Alignment.Mismatch = c.Mismatch }},
		{[]string{"gap"}, func(cfg *config.Config) { cfg.Alignment.Gap = c.Gap }},
		{[]string{"case-sensitive"}, func(cfg *config.Config) { cfg.Alignment.CaseSensitive = c.CaseSensitive }},
		{[]string{"log-level"}, func(cfg *config.Config) { cfg.Log.Level = c.LogLevel }},
		{[]string{"log-format"}, func(cfg *config.Config) { cfg.Log.Format = c.LogFormat }},
	}
}

// DurationOverride is a convenience for duration flags.
func DurationOverride(name string, src *time.Duration, dst func(*config.Config) *time.Duration) Override {
	return Override{[]string{name}, func(cfg *config.Config) { *dst(cfg) = *src }}
}

// LoadConfig loads c.ConfigPath (plus environment), overlays every flag the
// user set explicitly, and validates the result.
func LoadConfig(fs *flag.FlagSet, c *Common, overrides ...Override) (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	for _, o := range append(CommonOverrides(c), overrides...) {
		for _, name := range o.Flags {
			if set[name] {
				o.Apply(cfg)
				break
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
