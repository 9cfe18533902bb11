// Package gate intercepts navigation to the protected pages and redirects
// between the onboarding wizard and the dashboard based on the user's
// completion flag.
package gate

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/store"
)

// identityCookie carries the signed-in user id for page navigation, set by
// the session provider in front of this service.
const identityCookie = "podgenius_uid"

// Middleware checks onboarding completion with a direct in-process store
// lookup. API routes are exempt so the gate can never recurse into its own
// backend.
type Middleware struct {
	store store.Store
	log   zerolog.Logger
}

func New(st store.Store, log zerolog.Logger) *Middleware {
	return &Middleware{store: st, log: log}
}

func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}
		onDashboard := strings.HasPrefix(path, "/dashboard")
		onOnboarding := strings.HasPrefix(path, "/onboarding")
		if !onDashboard && !onOnboarding {
			next.ServeHTTP(w, r)
			return
		}

		userID := m.identity(r)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		completed := m.completed(r, userID)
		if !completed && onDashboard {
			http.Redirect(w, r, "/onboarding", http.StatusTemporaryRedirect)
			return
		}
		if completed && onOnboarding {
			http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) identity(r *http.Request) string {
	if c, err := r.Cookie(identityCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	return strings.TrimPrefix(h, "Bearer ")
}

// completed treats both an absent record and a lookup failure as onboarding
// incomplete.
func (m *Middleware) completed(r *http.Request, userID string) bool {
	rec, err := m.store.Get(r.Context(), userID)
	if err != nil {
		m.log.Error().Stack().Err(err).Str("user_id", userID).Msg("gate lookup failed; treating as incomplete")
		return false
	}
	return rec != nil && rec.OnboardingComplete
}
