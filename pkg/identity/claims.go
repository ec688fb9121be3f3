// Package identity reads caller-declared identity attributes out of a
// bearer token without trusting them. Enact's policy model treats
// userEmail and userAttributes as claims the caller makes about itself,
// not facts the firewall has authenticated — a policy that needs a
// verified identity consults its own IdP/PDP integration, the same way
// policy.NewExternalPDPPolicy does for authorization decisions. This package exists
// so a CLI or service caller has a convenient, explicit way to extract
// those claims from a JWT it already holds, without ever being tempted to
// treat a successful parse as proof of anything.
package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of a bearer token's payload Enact cares about:
// who the caller says they are, and what attributes they assert about
// themselves.
type Claims struct {
	Email      string
	Attributes map[string]any
}

// ParseUnverified extracts Claims from tokenString's payload without
// checking its signature or expiry. This is intentional, not a shortcut:
// Enact's policy engine and receipts record UserEmail/UserAttributes as
// caller-declared input regardless of how they were collected, so there
// is nothing for signature verification to add here. Callers that need
// an authenticated identity must verify the token themselves (or through
// a policy.NewExternalPDPPolicy policy) before trusting Claims.Email for anything beyond
// labeling a receipt.
func ParseUnverified(tokenString string) (Claims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("identity: parsing token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("identity: unexpected claims type %T", token.Claims)
	}

	claims := Claims{Attributes: make(map[string]any, len(mapClaims))}
	for k, v := range mapClaims {
		claims.Attributes[k] = v
	}

	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	} else if sub, ok := mapClaims["sub"].(string); ok {
		claims.Email = sub
	}

	return claims, nil
}
