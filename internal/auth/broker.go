// Package auth builds Google authorization URLs and exchanges authorization
// codes for token bundles.
package auth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/podgenius/podgenius-server/internal/config"
	"github.com/podgenius/podgenius-server/internal/model"
)

// Scopes requested for every connect flow: read-only mail and calendar.
var Scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar.readonly",
}

// State prefixes the callback handler uses to decide which connection flag to
// set. The broker embeds whatever state the caller supplies; the prefix
// convention is not enforced here.
const (
	StatePrefixGmail    = "gmail-"
	StatePrefixCalendar = "calendar-"
)

// Broker wraps an oauth2.Config for the Google endpoint.
type Broker struct {
	cfg *oauth2.Config
}

func NewBroker(cfg *config.Config) *Broker {
	return &Broker{
		cfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the provider authorization URL with the caller's opaque
// state embedded. No network call, no state validation.
func (b *Broker) AuthURL(state string) string {
	return b.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token bundle, propagating the
// provider error unchanged. No retry.
func (b *Broker) Exchange(ctx context.Context, code string) (*model.TokenBundle, error) {
	tok, err := b.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	bundle := &model.TokenBundle{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		bundle.Scope = scope
	}
	if !tok.Expiry.IsZero() {
		bundle.ExpiryDate = tok.Expiry.UnixMilli()
	}
	return bundle, nil
}
