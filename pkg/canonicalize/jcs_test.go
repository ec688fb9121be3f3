package canonicalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmiller3/enact/pkg/canonicalize"
)

func TestJCS_SortsKeysAtEveryLevel(t *testing.T) {
	input := map[string]interface{}{
		"b": 2,
		"a": 1,
		"nested": map[string]interface{}{
			"z": 10,
			"y": 5,
		},
	}
	out, err := canonicalize.JCSString(input)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"nested":{"y":5,"z":10}}`, out)
}

func TestJCS_NoInsignificantWhitespace(t *testing.T) {
	out, err := canonicalize.JCSString(map[string]interface{}{"x": []int{1, 2, 3}})
	require.NoError(t, err)
	assert.NotContains(t, out, " ")
	assert.NotContains(t, out, "\n")
}

// TestJCS_DeterministicAcrossMapOrdering is property P10: two logically
// equal receipts (same content, different map insertion order) must
// canonicalize to byte-identical output and therefore sign identically.
func TestJCS_DeterministicAcrossMapOrdering(t *testing.T) {
	a := map[string]interface{}{"alpha": 1, "beta": 2, "gamma": 3}
	b := map[string]interface{}{"gamma": 3, "alpha": 1, "beta": 2}

	outA, err := canonicalize.JCS(a)
	require.NoError(t, err)
	outB, err := canonicalize.JCS(b)
	require.NoError(t, err)

	assert.Equal(t, outA, outB)
	assert.Equal(t, canonicalize.HashBytes(outA), canonicalize.HashBytes(outB))
}

func TestCanonicalHash_StableForEqualInput(t *testing.T) {
	h1, err := canonicalize.CanonicalHash(map[string]interface{}{"k": "v"})
	require.NoError(t, err)
	h2, err := canonicalize.CanonicalHash(map[string]interface{}{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}
