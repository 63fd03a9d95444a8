package clibase

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqtree/internal/config"
)

func TestLoadConfig_FlagsOverrideFileOnlyWhenSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alignment:\n  match: 3\n  gap: -4\n"), 0o644))

	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var c Common
	Register(fs, &c)
	var threads int
	fs.IntVar(&threads, "threads", 0, "")
	require.NoError(t, fs.Parse([]string{"--config", path, "--gap", "-5", "--threads", "7"}))

	cfg, err := LoadConfig(fs, &c, Override{[]string{"threads"}, func(cfg *config.Config) { cfg.Matrix.Threads = threads }})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Alignment.Match, "file value survives unset flag default")
	assert.Equal(t, -5, cfg.Alignment.Gap, "explicit flag wins")
	assert.Equal(t, 7, cfg.Matrix.Threads)
}

func TestLoadConfig_InvalidAfterOverride(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var c Common
	Register(fs, &c)
	require.NoError(t, fs.Parse([]string{"--gap", "3"}))
	_, err := LoadConfig(fs, &c)
	assert.Error(t, err)
}

func TestStringSlice(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	var got []string
	StringSlice(fs, &got, "", "arg", "a")
	require.NoError(t, fs.Parse([]string{"--arg", "x", "-a", "y"}))
	assert.Equal(t, []string{"x", "y"}, got)
}
