package crypto

import (
	"github.com/russellmiller3/enact/pkg/contracts"
)

// Verifier is the read-only half of Signer — rollback only ever needs to
// check a receipt's signature, never mint a new one.
type Verifier interface {
	Verify(r *contracts.Receipt) (bool, error)
}

// Verify is a convenience wrapper for verifying a receipt under a secret
// without constructing a signer explicitly. Callers that sign many receipts
// should hold onto a Signer instead of paying the secret-validation cost
// repeatedly.
func Verify(secret string, allowInsecure bool, r *contracts.Receipt) (bool, error) {
	s, err := NewHMACSigner(secret, allowInsecure)
	if err != nil {
		return false, err
	}
	return s.Verify(r)
}
