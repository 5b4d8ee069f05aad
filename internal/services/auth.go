package services

import (
	"net/http"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"golang.org/x/oauth2"
)

// sessionTokenSource hands the stored session token to [oauth2.Transport].
//
// The store is read on every request; an empty token fails the request before it is sent.
type sessionTokenSource struct {
	store models.SessionStore
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	token := s.store.Token()
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// bearerClient wraps base so every request carries the session token.
func bearerClient(base *http.Client, store models.SessionStore) *http.Client {
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Transport:     &oauth2.Transport{Source: sessionTokenSource{store: store}, Base: transport},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
}
