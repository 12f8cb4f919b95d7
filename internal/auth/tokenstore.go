package auth

import (
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is an access token together with its decoded identity claims.
// The claims are always the parsed JSON payload of Raw; a token whose
// payload cannot be parsed is never constructed. ExpiresAt is zero when
// the token carries no exp claim.
type Token struct {
	Raw       string
	Claims    jwt.MapClaims
	Username  string
	ExpiresAt time.Time
}

// TokenStore holds the current access token. It is the single source of
// truth for authorization headers: no other component caches a token.
// Tokens are replaced wholesale, never mutated in place, so concurrent
// readers always observe a consistent token.
type TokenStore struct {
	current atomic.Pointer[Token]
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Set replaces the current token.
func (s *TokenStore) Set(t *Token) {
	s.current.Store(t)
}

// Current returns the current token, or nil when no authentication has
// happened yet this session.
func (s *TokenStore) Current() *Token {
	return s.current.Load()
}

// Clear drops the current token.
func (s *TokenStore) Clear() {
	s.current.Store(nil)
}
