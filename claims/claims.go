// Package claims validates role assertions at the two boundaries where they
// enter the session core: access tokens with embedded claims, and profile
// responses from the identity service. Everything past these functions works
// with the closed [session.Claims] record — malformed or partial shapes fail
// fast here instead of propagating into guard decisions.
package claims

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agrovia/agriAuth/session"
)

// ErrInvalid is returned when claim material is malformed or lacks a role.
var ErrInvalid = errors.New("invalid claims")

// FromToken extracts role claims embedded in an access token.
//
// The token is parsed without signature verification: the client never holds
// the signing key, and the server re-verifies every request. A token without
// a role claim yields ErrInvalid; callers fall back to the profile fetch.
func FromToken(token string) (*session.Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims shape", ErrInvalid)
	}

	role := stringClaim(mapClaims, "role")
	if role == "" {
		return nil, fmt.Errorf("%w: missing role claim", ErrInvalid)
	}

	subRole := stringClaim(mapClaims, "subRole")
	if subRole == "" {
		subRole = stringClaim(mapClaims, "sub_role")
	}

	return &session.Claims{Role: role, SubRole: subRole}, nil
}

// FromProfile validates an identity-service profile into claims.
func FromProfile(role, subRole string) (*session.Claims, error) {
	if role == "" {
		return nil, fmt.Errorf("%w: profile has no role", ErrInvalid)
	}
	return &session.Claims{Role: role, SubRole: subRole}, nil
}

func stringClaim(m jwt.MapClaims, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
