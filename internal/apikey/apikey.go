// Package apikey handles the Supabase-style project keys: HS256 JWTs whose
// role claim selects the database role a request runs as.
package apikey

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles accepted by the dev backend.
const (
	RoleAnon        = "anon"
	RoleServiceRole = "service_role"
)

const issuer = "promptdeck"

// Claims represents the claims carried by a project key.
type Claims struct {
	Role string `json:"role"`
	Ref  string `json:"ref,omitempty"`
	jwt.RegisteredClaims
}

// Expired reports whether the key carries an expiry in the past.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(c.ExpiresAt.Time)
}

// Generate signs a project key for role. A zero ttl produces a key without expiry.
func Generate(secret []byte, role, ref string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("signing secret is empty")
	}
	if !validRole(role) {
		return "", fmt.Errorf("unsupported role %q", role)
	}

	now := time.Now()
	claims := &Claims{
		Role: role,
		Ref:  ref,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   issuer,
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify parses and validates a project key signed with secret.
func Verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid project key")
	}
	if !validRole(claims.Role) {
		return nil, fmt.Errorf("project key role %q is not allowed", claims.Role)
	}
	return claims, nil
}

// Inspect decodes the claims of a key without checking its signature. The
// client only holds the public anon key, never the signing secret.
func Inspect(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("decoding project key: %w", err)
	}
	return claims, nil
}

func validRole(role string) bool {
	return role == RoleAnon || role == RoleServiceRole
}
