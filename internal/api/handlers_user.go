package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/api/respond"
	"github.com/podgenius/podgenius-server/internal/model"
	"github.com/podgenius/podgenius-server/internal/onboarding"
	"github.com/podgenius/podgenius-server/internal/store"
)

// UserHandler serves the onboarding progress/completion/status routes and the
// raw diagnostic dump.
type UserHandler struct {
	store store.Store
	log   zerolog.Logger
}

func NewUserHandler(st store.Store, log zerolog.Logger) *UserHandler {
	return &UserHandler{store: st, log: log}
}

type onboardingAnswers struct {
	Interests         []string `json:"interests"`
	GmailConnected    bool     `json:"gmailConnected"`
	CalendarConnected bool     `json:"calendarConnected"`
}

type progressRequest struct {
	Step int               `json:"step"`
	Data onboardingAnswers `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SaveProgress handles POST /api/user/onboarding-progress. The persisted step
// is clamped to the wizard's valid range; answers are saved as submitted.
func (h *UserHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	userID := bearerUserID(r)
	if userID == "" {
		respond.WriteUnauthorized(w, "User ID required")
		return
	}

	var in progressRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid request body")
		return
	}

	step := int(onboarding.Clamp(in.Step))
	interests := in.Data.Interests
	if interests == nil {
		interests = []string{}
	}
	_, err := h.store.Update(r.Context(), userID, model.UserPatch{
		OnboardingStep:    model.IntPtr(step),
		Interests:         model.StringsPtr(interests),
		GmailConnected:    model.BoolPtr(in.Data.GmailConnected),
		CalendarConnected: model.BoolPtr(in.Data.CalendarConnected),
	})
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", userID).Msg("failed to save onboarding progress")
		respond.WriteInternalError(w, "Failed to save progress")
		return
	}
	respond.WriteJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Progress saved successfully"})
}

// CompleteOnboarding handles POST /api/user/complete-onboarding. Repeating
// the call with the same payload is idempotent.
func (h *UserHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := bearerUserID(r)
	if userID == "" {
		respond.WriteUnauthorized(w, "User ID required")
		return
	}

	var in onboardingAnswers
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid request body")
		return
	}
	interests := in.Interests
	if interests == nil {
		interests = []string{}
	}

	_, err := h.store.Update(r.Context(), userID, model.UserPatch{
		OnboardingComplete: model.BoolPtr(true),
		Interests:          model.StringsPtr(interests),
		GmailConnected:     model.BoolPtr(in.GmailConnected),
		CalendarConnected:  model.BoolPtr(in.CalendarConnected),
	})
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", userID).Msg("failed to complete onboarding")
		respond.WriteInternalError(w, "Failed to complete onboarding")
		return
	}
	h.log.Info().Str("user_id", userID).Msg("onboarding completed")
	respond.WriteJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Onboarding completed successfully"})
}

type statusResponse struct {
	Completed bool               `json:"completed"`
	Step      int                `json:"step"`
	Data      *onboardingAnswers `json:"data"`
}

// OnboardingStatus handles GET /api/user/onboarding-status. An absent record
// reads as incomplete at step zero.
func (h *UserHandler) OnboardingStatus(w http.ResponseWriter, r *http.Request) {
	userID := bearerUserID(r)
	if userID == "" {
		respond.WriteUnauthorized(w, "User ID required")
		return
	}

	rec, err := h.store.Get(r.Context(), userID)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", userID).Msg("failed to read onboarding status")
		respond.WriteInternalError(w, "Failed to get onboarding status")
		return
	}
	if rec == nil {
		respond.WriteJSON(w, http.StatusOK, statusResponse{Completed: false, Step: 0, Data: nil})
		return
	}
	respond.WriteJSON(w, http.StatusOK, statusResponse{
		Completed: rec.OnboardingComplete,
		Step:      rec.OnboardingStep,
		Data: &onboardingAnswers{
			Interests:         rec.Interests,
			GmailConnected:    rec.GmailConnected,
			CalendarConnected: rec.CalendarConnected,
		},
	})
}

// DebugAuthStatus handles GET /api/debug/auth-status: the raw stored record,
// unredacted, for local troubleshooting.
func (h *UserHandler) DebugAuthStatus(w http.ResponseWriter, r *http.Request) {
	userID := bearerUserID(r)
	if userID == "" {
		respond.WriteUnauthorized(w, "User ID required")
		return
	}
	rec, err := h.store.Get(r.Context(), userID)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", userID).Msg("debug dump failed")
		respond.WriteInternalError(w, "Failed to get user data")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"userId":   userID,
		"userData": rec,
	})
}
