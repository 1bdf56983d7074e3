package authenticator

import (
	"context"
)

// Config holds OAuth provider configuration
type Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Scopes       []string
}

// Token carries the ID token returned by the code exchange. Only the
// identity is needed; no API is called on the user's behalf.
type Token struct {
	IDToken string
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
}
