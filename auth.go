package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
)

// TokenStore is an interface for saving and loading OAuth tokens. The file
// implementation lives in store.go; tests substitute an in-memory one.
type TokenStore interface {
	SaveToken(token *oauth2.Token) error
	LoadToken() (*oauth2.Token, error)
}

// autoSaveTokenSource wraps an oauth2.TokenSource and persists the token
// whenever a silent refresh produces a new one, so the interactive consent
// flow is only ever needed when no usable credential exists at all.
type autoSaveTokenSource struct {
	source     oauth2.TokenSource
	tokenStore TokenStore
	lastToken  *oauth2.Token
}

// Token implements oauth2.TokenSource and saves the token if it was refreshed.
func (a *autoSaveTokenSource) Token() (*oauth2.Token, error) {
	token, err := a.source.Token()
	if err != nil {
		return nil, err
	}

	if a.lastToken == nil || a.lastToken.AccessToken != token.AccessToken {
		if err := a.tokenStore.SaveToken(token); err != nil {
			return nil, fmt.Errorf("failed to save refreshed token: %w", err)
		}
		a.lastToken = token
	}

	return token, nil
}

// GetAuthenticatedClient returns an authenticated HTTP client using OAuth 2.0.
// If no usable token is stored, it guides the user through the interactive
// consent flow once, reading the authorization code from stdin.
func GetAuthenticatedClient(ctx context.Context, oauthConfig *oauth2.Config, tokenStore TokenStore) (*http.Client, error) {
	return GetAuthenticatedClientWithReader(ctx, oauthConfig, tokenStore, os.Stdin)
}

// GetAuthenticatedClientWithReader is GetAuthenticatedClient with the
// authorization-code input injectable, so tests can drive the consent flow.
func GetAuthenticatedClientWithReader(ctx context.Context, oauthConfig *oauth2.Config, tokenStore TokenStore, reader io.Reader) (*http.Client, error) {
	token, err := tokenStore.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	// An expired token with no refresh token cannot be renewed silently;
	// treat it like a missing one so consent is asked for again.
	if token != nil && !token.Valid() && token.RefreshToken == "" {
		token = nil
	}

	// No stored token (first run, or the stored one was unreadable):
	// run the interactive flow exactly once.
	if token == nil {
		authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

		fmt.Println("Please visit the following URL to authorize the application:")
		fmt.Println(authURL)
		fmt.Print("Enter the authorization code: ")

		var code string
		if _, err := fmt.Fscanln(reader, &code); err != nil {
			return nil, fmt.Errorf("failed to read authorization code: %w", err)
		}

		token, err = oauthConfig.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}

		if err := tokenStore.SaveToken(token); err != nil {
			return nil, fmt.Errorf("failed to save token: %w", err)
		}
	}

	// ReuseTokenSource refreshes expired tokens silently; the wrapper
	// persists whatever it produces.
	autoSaveSource := &autoSaveTokenSource{
		source:     oauth2.ReuseTokenSource(token, oauthConfig.TokenSource(ctx, token)),
		tokenStore: tokenStore,
		lastToken:  token,
	}

	return oauth2.NewClient(ctx, autoSaveSource), nil
}
