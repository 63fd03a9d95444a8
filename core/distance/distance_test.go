package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHamming(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"ACGT", "AGGT", 1},
		{"ACGT", "ACGT", 0},
		{"", "", 0},
		{"AC", "ACGT", 2},
		{"AC--", "ACGT", 2},
		{"", "AAA", 3},
		{"acgt", "ACGT", 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Hamming(c.a, c.b), "%q vs %q", c.a, c.b)
		assert.Equal(t, c.want, Hamming(c.b, c.a), "symmetry %q vs %q", c.b, c.a)
	}
}

func TestHamming_SelfIsZero(t *testing.T) {
	for _, s := range []string{"", "A", "ACGT-ACGT", "MKVLAAGG"} {
		assert.Zero(t, Hamming(s, s))
	}
}

func TestHammingFold(t *testing.T) {
	assert.Equal(t, 0, HammingFold("acgt", "ACGT"))
	assert.Equal(t, 1, HammingFold("acgt", "AGGT"))
	assert.Equal(t, 2, HammingFold("a-", "ACG"))
	assert.Equal(t, 4, For(true)("acgt", "ACGT"))
	assert.Equal(t, 0, For(false)("acgt", "ACGT"))
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, 1.0, Identity("", "", true))
	assert.Equal(t, 0.75, Identity("ACGT", "AGGT", true))
	assert.Equal(t, 0.5, Identity("AC", "ACGT", true))
	assert.Equal(t, 1.0, Identity("acgt", "ACGT", false))
	assert.Equal(t, 0.0, Identity("acgt", "ACGT", true))
}
