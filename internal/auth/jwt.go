package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates externally issued HS256 access tokens.
// Token issuance belongs to the identity service in front of this API;
// this side only checks signatures and claims.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a token verifier.
// secret must be at least 32 characters for HS256 security.
func NewVerifier(secret string, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// accessClaims extends standard JWT claims with the actor's role.
type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// ValidateAccessToken parses and validates a bearer token.
// Returns the Identity (subject as actor, role claim) if valid.
func (v *Verifier) ValidateAccessToken(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != v.issuer {
		return Identity{}, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("empty subject")
	}

	return Identity{Actor: claims.Subject, Role: claims.Role}, nil
}

// GenerateToken creates a cryptographically random opaque token.
// Returns both the raw token (handed out exactly once) and its SHA-256
// hash (the only form that is stored). Used for registration tokens.
func GenerateToken() (raw string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate random bytes: %w", err)
	}

	raw = base64.RawURLEncoding.EncodeToString(b)
	hash = HashToken(raw)

	return raw, hash, nil
}

// HashToken computes the SHA-256 hash of a token and returns it as a hex string.
func HashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
