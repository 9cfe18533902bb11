package api

import (
	"net/http"
	"time"

	"github.com/podgenius/podgenius-server/internal/api/respond"
)

// HealthHandler serves GET /api/health over an injected per-component view,
// normally health.ServiceHealthChecker.Components.
type HealthHandler struct {
	components func() map[string]bool
}

func NewHealthHandler(components func() map[string]bool) *HealthHandler {
	if components == nil {
		components = func() map[string]bool { return nil }
	}
	return &HealthHandler{components: components}
}

// CheckHealth always returns 200; the body distinguishes healthy from
// degraded so the UI can warn about missing provider keys.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	comps := h.components()

	services := map[string]string{}
	status := "healthy"
	for name, ok := range comps {
		switch {
		case ok:
			services[name] = "ready"
		case name == "store":
			services[name] = "unavailable"
			status = "degraded"
		default:
			// Provider probes fail exactly when the API key is absent.
			services[name] = "missing_api_key"
			status = "degraded"
		}
	}
	if len(comps) == 0 {
		status = "degraded"
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"services":  services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
