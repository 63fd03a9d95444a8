package appshell

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMainCodePassesThrough(t *testing.T) {
	var seen []string
	code := mainCode(func(_ context.Context, argv []string, _, _ io.Writer) int {
		seen = argv
		return 2
	}, []string{"-x", "in.fa"}, io.Discard, io.Discard)
	assert.Equal(t, 2, code)
	assert.Equal(t, []string{"-x", "in.fa"}, seen)
}

func TestMainCodeContextIsLive(t *testing.T) {
	code := mainCode(func(ctx context.Context, _ []string, _, _ io.Writer) int {
		if ctx.Err() != nil {
			return 1
		}
		return 0
	}, nil, io.Discard, io.Discard)
	assert.Equal(t, 0, code)
}
