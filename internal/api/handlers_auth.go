package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/api/respond"
	"github.com/podgenius/podgenius-server/internal/auth"
	"github.com/podgenius/podgenius-server/internal/model"
	"github.com/podgenius/podgenius-server/internal/store"
)

// AuthHandler serves the Gmail/Calendar connect, disconnect, status, and
// OAuth callback routes.
type AuthHandler struct {
	broker *auth.Broker
	store  store.Store
	log    zerolog.Logger
}

func NewAuthHandler(broker *auth.Broker, st store.Store, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{broker: broker, store: st, log: log}
}

type connectResponse struct {
	Success   bool   `json:"success"`
	AuthURL   string `json:"auth_url"`
	SessionID string `json:"session_id"`
}

// ConnectGmail handles POST /api/auth/gmail-connect.
func (h *AuthHandler) ConnectGmail(w http.ResponseWriter, r *http.Request) {
	h.connect(w, auth.StatePrefixGmail)
}

// ConnectCalendar handles POST /api/auth/calendar-connect.
func (h *AuthHandler) ConnectCalendar(w http.ResponseWriter, r *http.Request) {
	h.connect(w, auth.StatePrefixCalendar)
}

func (h *AuthHandler) connect(w http.ResponseWriter, statePrefix string) {
	sessionID := uuid.New().String()[:8]
	respond.WriteJSON(w, http.StatusOK, connectResponse{
		Success:   true,
		AuthURL:   h.broker.AuthURL(statePrefix + sessionID),
		SessionID: sessionID,
	})
}

type disconnectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DisconnectGmail handles POST /api/auth/gmail-disconnect.
func (h *AuthHandler) DisconnectGmail(w http.ResponseWriter, r *http.Request) {
	h.disconnect(w, r, "Gmail")
}

// DisconnectCalendar handles POST /api/auth/calendar-disconnect.
func (h *AuthHandler) DisconnectCalendar(w http.ResponseWriter, r *http.Request) {
	h.disconnect(w, r, "Calendar")
}

// disconnect clears the connection flag and removes the token bundle
// wholesale. A racing status read may still observe the stale flag; the store
// write itself is atomic.
func (h *AuthHandler) disconnect(w http.ResponseWriter, r *http.Request, label string) {
	userID := bearerUserID(r)
	if userID == "" {
		respond.WriteUnauthorized(w, "User ID required")
		return
	}

	patch := model.UserPatch{ClearGoogleTokens: true}
	if label == "Gmail" {
		patch.GmailConnected = model.BoolPtr(false)
	} else {
		patch.CalendarConnected = model.BoolPtr(false)
	}
	if _, err := h.store.Update(r.Context(), userID, patch); err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", userID).Str("service", label).Msg("disconnect failed")
		respond.WriteInternalError(w, "Failed to disconnect "+label)
		return
	}
	respond.WriteJSON(w, http.StatusOK, disconnectResponse{
		Success: true,
		Message: label + " disconnected successfully",
	})
}

// StatusGmail handles GET /api/auth/gmail-status.
func (h *AuthHandler) StatusGmail(w http.ResponseWriter, r *http.Request) {
	userID := bearerUserID(r)
	if userID == "" {
		respond.WriteUnauthorized(w, "User ID required")
		return
	}
	rec, err := h.store.Get(r.Context(), userID)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", userID).Msg("failed to read gmail status")
		respond.WriteInternalError(w, "Failed to get Gmail status")
		return
	}
	connected := rec != nil && rec.GmailConnected
	var email *string
	if connected {
		addr := "user@gmail.com"
		email = &addr
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"connected": connected,
		"email":     email,
	})
}

// StatusCalendar handles GET /api/auth/calendar-status.
func (h *AuthHandler) StatusCalendar(w http.ResponseWriter, r *http.Request) {
	userID := bearerUserID(r)
	if userID == "" {
		respond.WriteUnauthorized(w, "User ID required")
		return
	}
	rec, err := h.store.Get(r.Context(), userID)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", userID).Msg("failed to read calendar status")
		respond.WriteInternalError(w, "Failed to get Calendar status")
		return
	}
	connected := rec != nil && rec.CalendarConnected
	var calendar *string
	if connected {
		primary := "primary"
		calendar = &primary
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"connected": connected,
		"calendar":  calendar,
	})
}

const callbackPage = `<html>
  <body>
    <script>window.close();</script>
    <p>Authorization successful! You can close this window.</p>
  </body>
</html>`

// Callback handles GET /api/auth/callback?code&state&userId. The connection
// flag is inferred from the state prefix; the token bundle replaces any
// stored one wholesale.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	state := q.Get("state")
	userID := q.Get("userId")

	if code == "" || state == "" {
		respond.WriteBadRequest(w, "Missing authorization code or state")
		return
	}

	tokens, err := h.broker.Exchange(r.Context(), code)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("OAuth code exchange failed")
		respond.WriteInternalError(w, "OAuth callback failed")
		return
	}

	if userID != "" {
		patch := model.UserPatch{GoogleTokens: tokens}
		switch {
		case strings.HasPrefix(state, auth.StatePrefixGmail):
			patch.GmailConnected = model.BoolPtr(true)
		case strings.HasPrefix(state, auth.StatePrefixCalendar):
			patch.CalendarConnected = model.BoolPtr(true)
		}
		if _, err := h.store.Update(r.Context(), userID, patch); err != nil {
			h.log.Error().Stack().Err(err).Str("user_id", userID).Msg("failed to persist tokens")
			respond.WriteInternalError(w, "OAuth callback failed")
			return
		}
	}

	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(callbackPage))
}
