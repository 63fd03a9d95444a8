// Package config loads seqtree settings from, lowest to highest priority:
//  1. defaults in code
//  2. an optional YAML file (unknown keys are rejected)
//  3. SEQTREE_* environment variables
//  4. command-line flags the user explicitly set (applied by the CLI)
//
// The merged result is validated with struct tags.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"seqtree-core/align"
	"seqtree-core/matrix"

	"seqtree/internal/runutil"
)

type Config struct {
	Alignment Alignment `yaml:"alignment"`
	Matrix    Matrix    `yaml:"matrix"`
	Cache     Cache     `yaml:"cache"`
	Assembler Assembler `yaml:"assembler"`
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
}

type Alignment struct {
	Match         int  `yaml:"match" validate:"gt=0"`
	Mismatch      int  `yaml:"mismatch" validate:"ltfield=Match"`
	Gap           int  `yaml:"gap" validate:"lt=0"`
	CaseSensitive bool `yaml:"case_sensitive"`
}

type Matrix struct {
	Strategy string `yaml:"strategy" validate:"oneof=all-pairs reference"`

	// 0 = all CPUs
	Threads int `yaml:"threads" validate:"gte=0"`

	// 0 = unlimited
	MaxCells int64 `yaml:"max_cells" validate:"gte=0"`
}

type Cache struct {
	// SQLite file; empty disables the persistent cache.
	Path string `yaml:"path"`

	// Server in-process cache size; 0 disables.
	MemoryEntries int `yaml:"memory_entries" validate:"gte=0"`
}

type Assembler struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

type Server struct {
	Addr            string        `yaml:"addr" validate:"required"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" validate:"gt=0"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Alignment: Alignment{
			Match:    align.DefaultScoring.Match,
			Mismatch: align.DefaultScoring.Mismatch,
			Gap:      align.DefaultScoring.Gap,
		},
		Matrix: Matrix{
			Strategy: string(matrix.AllPairs),
			MaxCells: runutil.DefaultMaxCells,
		},
		Cache: Cache{MemoryEntries: 100_000},
		Assembler: Assembler{
			Timeout: 5 * time.Minute,
		},
		Server: Server{
			Addr:            ":8080",
			MaxBodyBytes:    10 << 20,
			AllowedOrigins:  []string{"*"},
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks every field rule and reports all failures at once, using
// dotted YAML key names.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: must satisfy %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", key, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(parts, "; "))
}

// Scoring returns the alignment scoring scheme.
func (c *Config) Scoring() align.Scoring {
	return align.Scoring{Match: c.Alignment.Match, Mismatch: c.Alignment.Mismatch, Gap: c.Alignment.Gap}
}

// NewAligner builds an aligner from the alignment section. The per-alignment
// cell cap reuses matrix.max_cells.
func (c *Config) NewAligner() (*align.Aligner, error) {
	return align.New(align.Options{
		Scoring:       c.Scoring(),
		CaseSensitive: c.Alignment.CaseSensitive,
		MaxCells:      c.Matrix.MaxCells,
	})
}
