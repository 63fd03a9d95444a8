package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqtree-core/align"
	"seqtree-core/errs"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "seqtree.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, align.DefaultScoring, cfg.Scoring())
	assert.Equal(t, "all-pairs", cfg.Matrix.Strategy)
	assert.False(t, cfg.Alignment.CaseSensitive)
	assert.Equal(t, int64(200_000_000), cfg.Matrix.MaxCells)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeYAML(t, `
alignment:
  match: 2
  gap: -3
matrix:
  strategy: reference
  threads: 2
assembler:
  command: fastme
  args: ["-i", "/dev/stdin"]
  timeout: 90s
`)
	cfg, err := LoadWithEnv(path, env(map[string]string{
		"SEQTREE_MATRIX_THREADS":         "6",
		"SEQTREE_SERVER_ALLOWED_ORIGINS": "https://a.example, https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Alignment.Match, "file beats default")
	assert.Equal(t, -1, cfg.Alignment.Mismatch, "default kept")
	assert.Equal(t, -3, cfg.Alignment.Gap)
	assert.Equal(t, "reference", cfg.Matrix.Strategy)
	assert.Equal(t, 6, cfg.Matrix.Threads, "env beats file")
	assert.Equal(t, "fastme", cfg.Assembler.Command)
	assert.Equal(t, []string{"-i", "/dev/stdin"}, cfg.Assembler.Args)
	assert.Equal(t, 90*time.Second, cfg.Assembler.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	_, err := LoadWithEnv(writeYAML(t, "matrix:\n  strategie: reference\n"), env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategie")
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(writeYAML(t, ""), env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), env(nil))
	assert.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	_, err := LoadWithEnv("", env(map[string]string{
		"SEQTREE_MATRIX_THREADS":           "many",
		"SEQTREE_ASSEMBLER_TIMEOUT":        "soon",
		"SEQTREE_ALIGNMENT_CASE_SENSITIVE": "maybe",
	}))
	require.Error(t, err)
	for _, k := range []string{"MATRIX_THREADS", "ASSEMBLER_TIMEOUT", "ALIGNMENT_CASE_SENSITIVE"} {
		assert.Contains(t, err.Error(), k)
	}
}

func TestValidate_ReportsKeys(t *testing.T) {
	cfg := Default()
	cfg.Matrix.Strategy = "upgma"
	cfg.Alignment.Gap = 1
	cfg.Alignment.Mismatch = 5
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, k := range []string{"matrix.strategy", "alignment.gap", "alignment.mismatch", "log.level"} {
		assert.True(t, strings.Contains(msg, k), "missing %s in %q", k, msg)
	}
}

func TestNewAligner(t *testing.T) {
	cfg := Default()
	cfg.Alignment.CaseSensitive = true
	al, err := cfg.NewAligner()
	require.NoError(t, err)
	assert.True(t, al.CaseSensitive())

	cfg.Matrix.MaxCells = 10
	capped, err := cfg.NewAligner()
	require.NoError(t, err)
	_, err = capped.Align("AAAA", "AAAA")
	assert.ErrorIs(t, err, errs.ErrWorkloadExceeded)
}
