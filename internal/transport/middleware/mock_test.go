package middleware

import (
	"github.com/heartmarshall/labwatch-backend/internal/auth"
)

// Hand-rolled mock for the tokenVerifier interface.

type tokenVerifierMock struct {
	ValidateAccessTokenFunc func(token string) (auth.Identity, error)

	ValidateCalls []string
}

func (m *tokenVerifierMock) ValidateAccessToken(token string) (auth.Identity, error) {
	m.ValidateCalls = append(m.ValidateCalls, token)
	return m.ValidateAccessTokenFunc(token)
}
