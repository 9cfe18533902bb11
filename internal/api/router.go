package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/podgenius/podgenius-server/internal/api/gate"
	"github.com/podgenius/podgenius-server/internal/api/recovery"
)

const dashboardPage = `<html><body><h1>Podgenius</h1><p>Your episodes live here.</p></body></html>`

const onboardingPage = `<html><body><h1>Welcome to Podgenius</h1><p>Let's get you set up.</p></body></html>`

// NewRouter wires all HTTP routes. The access gate wraps only page
// navigation; API routes bypass it by design.
func NewRouter(authH *AuthHandler, userH *UserHandler, researchH *ResearchHandler, podcastH *PodcastHandler, healthH *HealthHandler, gateMw *gate.Middleware) http.Handler {
	root := mux.NewRouter()

	// Auth
	root.HandleFunc("/api/auth/gmail-connect", authH.ConnectGmail).Methods("POST")
	root.HandleFunc("/api/auth/calendar-connect", authH.ConnectCalendar).Methods("POST")
	root.HandleFunc("/api/auth/gmail-disconnect", authH.DisconnectGmail).Methods("POST")
	root.HandleFunc("/api/auth/calendar-disconnect", authH.DisconnectCalendar).Methods("POST")
	root.HandleFunc("/api/auth/gmail-status", authH.StatusGmail).Methods("GET")
	root.HandleFunc("/api/auth/calendar-status", authH.StatusCalendar).Methods("GET")
	root.HandleFunc("/api/auth/callback", authH.Callback).Methods("GET")

	// User / onboarding
	root.HandleFunc("/api/user/onboarding-progress", userH.SaveProgress).Methods("POST")
	root.HandleFunc("/api/user/complete-onboarding", userH.CompleteOnboarding).Methods("POST")
	root.HandleFunc("/api/user/onboarding-status", userH.OnboardingStatus).Methods("GET")
	root.HandleFunc("/api/debug/auth-status", userH.DebugAuthStatus).Methods("GET")

	// Generation
	root.HandleFunc("/api/research", researchH.HandleResearch).Methods("POST")
	root.HandleFunc("/api/generate-podcast", podcastH.HandleGenerate).Methods("POST")

	// Health
	root.HandleFunc("/api/health", healthH.CheckHealth).Methods("GET")

	// Pages guarded by the access gate
	root.HandleFunc("/dashboard", servePage(dashboardPage)).Methods("GET")
	root.HandleFunc("/onboarding", servePage(onboardingPage)).Methods("GET")

	var handler http.Handler = root
	if gateMw != nil {
		handler = gateMw.Wrap(handler)
	}
	return recovery.Middleware(handler)
}

func servePage(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}
}
