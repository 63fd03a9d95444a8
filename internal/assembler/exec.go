// Package assembler runs an external clustering program as a tree.Assembler.
//
// The program reads a PHYLIP distance matrix on stdin and writes one Newick
// tree on stdout. Taxa are passed as t0..tN-1 and renamed back afterwards,
// so labels never need quoting for the external tool.
package assembler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"seqtree-core/matrix"
	"seqtree-core/tree"
)

// ErrFailed marks failures of the external program or of its output.
var ErrFailed = errors.New("tree assembler failed")

// Exec is a tree.Assembler backed by an external command.
type Exec struct {
	Command string
	Args    []string
	Timeout time.Duration // 0 means no timeout beyond ctx
	Logger  *zap.Logger
}

var _ tree.Assembler = (*Exec)(nil)

// Placeholders returns t0..tn-1.
func Placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("t%d", i)
	}
	return out
}

func (e *Exec) Assemble(ctx context.Context, m *matrix.DistanceMatrix) (tree.Topology, error) {
	if e.Command == "" {
		return tree.Topology{}, fmt.Errorf("%w: no command configured", ErrFailed)
	}
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	labels := m.Labels()
	names := Placeholders(len(labels))
	var stdin bytes.Buffer
	if err := matrix.WritePHYLIP(&stdin, m, names); err != nil {
		return tree.Topology{}, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		log.Debug("assembler stderr", zap.String("command", e.Command), zap.String("stderr", msg))
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tree.Topology{}, fmt.Errorf("%w: %s: %w", ErrFailed, e.Command, ctxErr)
		}
		return tree.Topology{}, fmt.Errorf("%w: %s: %v: %s", ErrFailed, e.Command, err, firstLine(stderr.String()))
	}
	log.Debug("assembler finished", zap.String("command", e.Command), zap.Duration("took", time.Since(start)))

	rename := make(map[string]string, len(names))
	for i, n := range names {
		rename[n] = labels[i]
	}
	top, err := tree.RenameTips(stdout.String(), rename, labels)
	if err != nil {
		return tree.Topology{}, fmt.Errorf("%w: %s: %w", ErrFailed, e.Command, err)
	}
	return top, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
