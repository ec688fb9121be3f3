//go:build property
// +build property

package canonicalize_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/russellmiller3/enact/pkg/canonicalize"
)

// TestJCS_OrderIndependenceProperty is the property-based counterpart to
// TestJCS_DeterministicAcrossMapOrdering: for any set of string keys and
// values, inserting them into a Go map in any order yields byte-identical
// canonical JSON, since Go map iteration order is randomized and JCS's
// whole point is to remove that randomness from the wire format (P10).
func TestJCS_OrderIndependenceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("JCS output does not depend on map build order", prop.ForAll(
		func(keys []string, values []string) bool {
			m := make(map[string]any)
			for i := 0; i < len(keys) && i < len(values); i++ {
				if keys[i] != "" {
					m[keys[i]] = values[i]
				}
			}
			if len(m) == 0 {
				return true
			}

			first, err := canonicalize.JCS(m)
			if err != nil {
				return true
			}
			for i := 0; i < 5; i++ {
				rebuilt := make(map[string]any, len(m))
				for k, v := range m {
					rebuilt[k] = v
				}
				again, err := canonicalize.JCS(rebuilt)
				if err != nil || string(again) != string(first) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestCanonicalHash_StableProperty checks that hashing the same value twice
// always yields the same digest, for any string/int pair.
func TestCanonicalHash_StableProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("equal values hash identically", prop.ForAll(
		func(s string, n int) bool {
			v := map[string]any{"s": s, "n": n}
			h1, err1 := canonicalize.CanonicalHash(v)
			h2, err2 := canonicalize.CanonicalHash(v)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return h1 == h2
		},
		gen.AlphaString(),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}
