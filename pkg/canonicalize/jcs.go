// Package canonicalize provides RFC 8785 (JSON Canonicalization Scheme)
// serialization used as the exclusive input to receipt signing. Enact signs
// a deterministic byte string, not a Go value, so any two logically equal
// receipts — regardless of map iteration order or struct field order —
// must canonicalize to byte-identical output.
package canonicalize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// JCS returns the RFC 8785 canonical JSON representation of v.
//
// v is first marshaled with the standard library (so struct json tags and
// field ordering hints are respected), then transformed by gowebpki/jcs,
// which sorts object keys lexicographically by UTF-16 code unit, drops
// insignificant whitespace, and normalizes number formatting per the RFC.
func JCS(v interface{}) ([]byte, error) {
	intermediate, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: pre-marshal failed: %w", err)
	}

	canonical, err := jcs.Transform(intermediate)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: jcs transform failed: %w", err)
	}
	return canonical, nil
}

// CanonicalHash returns the SHA-256 hex digest of the canonical JSON
// representation of v.
func CanonicalHash(v interface{}) (string, error) {
	b, err := JCS(v)
	if err != nil {
		return "", err
	}
	return HashBytes(b), nil
}

// HashBytes computes the SHA-256 hash of raw bytes and returns a hex string.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// JCSString returns the JCS canonical form as a string.
func JCSString(v interface{}) (string, error) {
	data, err := JCS(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
