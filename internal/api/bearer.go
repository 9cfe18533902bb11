package api

import (
	"net/http"
	"strings"
)

// bearerUserID extracts the opaque user id carried as a bearer token. There
// is no signature or verification; a hardened deployment fronts this service
// with a real authentication layer.
func bearerUserID(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
