package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "SEQTREE_"

// Load reads defaults, then path (if non-empty), then the process
// environment, and validates the result.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Decode(f, cfg)
}

// Decode overlays YAML from r onto cfg. An empty document changes nothing.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

// applyEnv overlays SEQTREE_* variables. Malformed values are errors rather
// than silently ignored.
func applyEnv(cfg *Config, getenv func(string) string) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := getenv(EnvPrefix + key); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	num64 := func(key string, dst *int64) {
		if v := getenv(EnvPrefix + key); v != "" {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v := getenv(EnvPrefix + key); v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := getenv(EnvPrefix + key); v != "" {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	list := func(key string, dst *[]string, split func(string) []string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = split(v)
		}
	}

	num("ALIGNMENT_MATCH", &cfg.Alignment.Match)
	num("ALIGNMENT_MISMATCH", &cfg.Alignment.Mismatch)
	num("ALIGNMENT_GAP", &cfg.Alignment.Gap)
	boolean("ALIGNMENT_CASE_SENSITIVE", &cfg.Alignment.CaseSensitive)

	str("MATRIX_STRATEGY", &cfg.Matrix.Strategy)
	num("MATRIX_THREADS", &cfg.Matrix.Threads)
	num64("MATRIX_MAX_CELLS", &cfg.Matrix.MaxCells)

	str("CACHE_PATH", &cfg.Cache.Path)
	num("CACHE_MEMORY_ENTRIES", &cfg.Cache.MemoryEntries)

	str("ASSEMBLER_COMMAND", &cfg.Assembler.Command)
	list("ASSEMBLER_ARGS", &cfg.Assembler.Args, strings.Fields)
	dur("ASSEMBLER_TIMEOUT", &cfg.Assembler.Timeout)

	str("SERVER_ADDR", &cfg.Server.Addr)
	num64("SERVER_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)
	list("SERVER_ALLOWED_ORIGINS", &cfg.Server.AllowedOrigins, splitComma)
	dur("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	dur("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	dur("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	return errors.Join(errs...)
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
