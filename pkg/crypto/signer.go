// Package crypto signs and verifies receipts. The signable input is the
// canonical JSON (pkg/canonicalize) of every receipt field except the
// signature itself; HMAC-SHA256 is the sole signing algorithm per spec.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/russellmiller3/enact/pkg/canonicalize"
	"github.com/russellmiller3/enact/pkg/contracts"
)

// MinSecretLength is the enforced minimum length of a signing secret, per
// spec. AllowInsecureSecret waives this check for dev/test use only.
const MinSecretLength = 32

// Signer signs and verifies Receipts with a shared HMAC secret.
type Signer interface {
	Sign(r *contracts.Receipt) error
	Verify(r *contracts.Receipt) (bool, error)
}

// HMACSigner implements Signer using HMAC-SHA256 over the receipt's
// canonical JSON signable fields.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner validates the secret length (unless allowInsecure is set)
// and returns a Signer. A missing or too-short secret is a startup error —
// there is no default secret.
func NewHMACSigner(secret string, allowInsecure bool) (*HMACSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("crypto: signing secret is required")
	}
	if !allowInsecure && len(secret) < MinSecretLength {
		return nil, fmt.Errorf("crypto: signing secret must be at least %d characters (got %d); set allowInsecureSecret for dev/test", MinSecretLength, len(secret))
	}
	return &HMACSigner{secret: []byte(secret)}, nil
}

// Sign computes the HMAC-SHA256 hex digest of r's canonical signable fields
// and stores it in r.Signature. Any prior signature is overwritten.
func (s *HMACSigner) Sign(r *contracts.Receipt) error {
	digest, err := s.digest(r)
	if err != nil {
		return err
	}
	r.Signature = digest
	return nil
}

// Verify recomputes the digest over r's current fields and compares it,
// in constant time, against r.Signature. It does not leak timing
// information about where a mismatch occurs.
func (s *HMACSigner) Verify(r *contracts.Receipt) (bool, error) {
	if r.Signature == "" {
		return false, fmt.Errorf("crypto: receipt has no signature to verify")
	}
	digest, err := s.digest(r)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(r.Signature)) == 1, nil
}

// digest computes HMAC-SHA256(secret, canonicalJSON(signableFields)).
func (s *HMACSigner) digest(r *contracts.Receipt) (string, error) {
	canonical, err := SignableJSON(r)
	if err != nil {
		return "", fmt.Errorf("crypto: canonicalization failed: %w", err)
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// signable is the JSON projection of a Receipt used as HMAC input. It
// excludes Signature; originalRunID is omitted (not nulled) when absent, so
// the key sorts identically whether or not it was ever set — see
// spec §6.2's canonicalization rule.
type signable struct {
	RunID          string                    `json:"runID"`
	Workflow       string                    `json:"workflow"`
	UserEmail      string                    `json:"userEmail"`
	Payload        map[string]any            `json:"payload"`
	UserAttributes map[string]any            `json:"userAttributes,omitempty"`
	PolicyResults  []contracts.PolicyResult  `json:"policyResults"`
	Decision       contracts.Decision        `json:"decision"`
	ActionsTaken   []contracts.ActionResult  `json:"actionsTaken"`
	Timestamp      string                    `json:"timestamp"`
	OriginalRunID  string                    `json:"originalRunID,omitempty"`
}

// SignableJSON returns the canonical JSON bytes that are the exclusive
// input to signing and verification for r.
func SignableJSON(r *contracts.Receipt) ([]byte, error) {
	s := signable{
		RunID:          r.RunID,
		Workflow:       r.Workflow,
		UserEmail:      r.UserEmail,
		Payload:        r.Payload,
		UserAttributes: r.UserAttributes,
		PolicyResults:  r.PolicyResults,
		Decision:       r.Decision,
		ActionsTaken:   r.ActionsTaken,
		Timestamp:      r.Timestamp.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
		OriginalRunID:  r.OriginalRunID,
	}
	return canonicalize.JCS(s)
}
