package auth

import (
	"net/url"
	"strings"
	"testing"

	"github.com/podgenius/podgenius-server/internal/config"
)

func testBroker() *Broker {
	return NewBroker(&config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURI:  "http://localhost:8080/api/auth/callback",
	})
}

func TestAuthURL_EmbedsState(t *testing.T) {
	b := testBroker()

	raw := b.AuthURL("gmail-abc123")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("auth url did not parse: %v", err)
	}
	q := u.Query()
	if got := q.Get("state"); got != "gmail-abc123" {
		t.Fatalf("expected state gmail-abc123, got %q", got)
	}
	if got := q.Get("access_type"); got != "offline" {
		t.Fatalf("expected offline access, got %q", got)
	}
	if got := q.Get("client_id"); got != "client-id" {
		t.Fatalf("client id missing, got %q", got)
	}
}

func TestAuthURL_RequestsReadonlyScopes(t *testing.T) {
	b := testBroker()

	u, err := url.Parse(b.AuthURL("calendar-x"))
	if err != nil {
		t.Fatalf("auth url did not parse: %v", err)
	}
	scope := u.Query().Get("scope")
	if !strings.Contains(scope, "gmail.readonly") || !strings.Contains(scope, "calendar.readonly") {
		t.Fatalf("expected mail+calendar readonly scopes, got %q", scope)
	}
}

func TestAuthURL_StateOpaque(t *testing.T) {
	b := testBroker()

	// Any state round-trips untouched; the broker does not validate format.
	u, _ := url.Parse(b.AuthURL("not-a-known-prefix"))
	if got := u.Query().Get("state"); got != "not-a-known-prefix" {
		t.Fatalf("state mangled: %q", got)
	}
}
