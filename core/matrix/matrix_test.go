package matrix

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqtree-core/errs"
)

func TestNew_NeedsTwoLabels(t *testing.T) {
	for _, labels := range [][]string{nil, {"a"}} {
		_, err := New(labels)
		assert.ErrorIs(t, err, errs.ErrInsufficientData)
	}
}

func TestSetIsSymmetric(t *testing.T) {
	m, err := New([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 2, 5))
	require.NoError(t, m.Set(1, 0, 1))

	want := [][]float64{
		{0, 1, 5},
		{1, 0, 0},
		{5, 0, 0},
	}
	if diff := cmp.Diff(want, m.Rows()); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	assert.NoError(t, m.Validate())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"a", "b", "c"}, m.Labels())
}

func TestSetRejects(t *testing.T) {
	m, err := New([]string{"a", "b"})
	require.NoError(t, err)
	assert.Error(t, m.Set(0, 0, 1))
	assert.Error(t, m.Set(0, 1, -1))
	assert.Error(t, m.Set(0, 2, 1))
	assert.NoError(t, m.Set(1, 1, 0))
}

func TestLabelsAreCopied(t *testing.T) {
	in := []string{"a", "b"}
	m, err := New(in)
	require.NoError(t, err)
	in[0] = "z"
	out := m.Labels()
	out[1] = "y"
	assert.Equal(t, []string{"a", "b"}, m.Labels())
}

func TestEqual(t *testing.T) {
	a, _ := New([]string{"x", "y"})
	b, _ := New([]string{"x", "y"})
	require.NoError(t, a.Set(0, 1, 3))
	assert.False(t, a.Equal(b))
	require.NoError(t, b.Set(1, 0, 3))
	assert.True(t, a.Equal(b))

	c, _ := New([]string{"x", "q"})
	require.NoError(t, c.Set(0, 1, 3))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestSelectReference(t *testing.T) {
	assert.Equal(t, -1, SelectReference(nil))
	assert.Equal(t, 0, SelectReference([]string{"A"}))
	assert.Equal(t, 1, SelectReference([]string{"AC", "ACGT", "ACGA", "A"}))
	assert.Equal(t, 0, SelectReference([]string{"AAA", "CCC"}))
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"all-pairs": AllPairs, "PAIRWISE": AllPairs, " reference ": Reference, "ref": Reference,
	} {
		got, err := ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStrategy("upgma")
	assert.Error(t, err)
}

func TestWritePHYLIP(t *testing.T) {
	m, err := New([]string{"human", "mouse"})
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 1, 3))

	var b strings.Builder
	require.NoError(t, WritePHYLIP(&b, m, nil))
	assert.Equal(t, "2\nhuman 0 3\nmouse 3 0\n", b.String())

	b.Reset()
	require.NoError(t, WritePHYLIP(&b, m, []string{"t0", "t1"}))
	assert.Equal(t, "2\nt0 0 3\nt1 3 0\n", b.String())

	assert.Error(t, WritePHYLIP(&b, m, []string{"t0"}))
}

func TestString(t *testing.T) {
	m, err := New([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, m.Set(2, 0, 4))
	assert.Equal(t, 4.0, m.At(0, 2))
	assert.Contains(t, m.String(), "[a b c]")
}

func TestValidate(t *testing.T) {
	m, err := New([]string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 1, 2))
	assert.NoError(t, m.Validate())

	m.d.SetSym(0, 0, 1)
	assert.Error(t, m.Validate())
	m.d.SetSym(0, 0, 0)
	m.d.SetSym(0, 1, -1)
	assert.Error(t, m.Validate())
}
