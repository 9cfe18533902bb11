package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podgenius/podgenius-server/internal/auth"
	"github.com/podgenius/podgenius-server/internal/config"
	"github.com/podgenius/podgenius-server/internal/model"
	"github.com/podgenius/podgenius-server/internal/pipeline"
	"github.com/podgenius/podgenius-server/internal/research"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]*model.UserRecord
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*model.UserRecord{}}
}

func (f *fakeStore) Get(ctx context.Context, userID string) (*model.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("store down")
	}
	rec, ok := f.records[userID]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (f *fakeStore) Update(ctx context.Context, userID string, patch model.UserPatch) (*model.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("store down")
	}
	merged := model.Merge(userID, f.records[userID], patch)
	f.records[userID] = merged
	return merged.Clone(), nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) Close() error { return nil }

type stubResearcher struct {
	results []research.Result
	err     error
}

func (s *stubResearcher) Search(ctx context.Context, query string, numResults int) ([]research.Result, error) {
	return s.results, s.err
}

type stubComposer struct{ script string }

func (s *stubComposer) Compose(ctx context.Context, keywords, summary string) (string, error) {
	return s.script, nil
}

type stubNarrator struct{ err error }

func (s *stubNarrator) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("mp3"), nil
}

type stubCompositor struct{}

func (s *stubCompositor) Compose(ctx context.Context, audio []byte) ([]byte, error) {
	return []byte("mp4"), nil
}

type stubPublisher struct{}

func (s *stubPublisher) Configured() bool { return false }

func (s *stubPublisher) Upload(ctx context.Context, video []byte, title, description string, tags []string, playlistName string) (*pipeline.PublishResult, error) {
	return nil, errors.New("not configured")
}

type serverDeps struct {
	store      *fakeStore
	narrator   *stubNarrator
	components func() map[string]bool
}

func newTestServer(t *testing.T, deps serverDeps) http.Handler {
	t.Helper()
	log := zerolog.Nop()

	if deps.store == nil {
		deps.store = newFakeStore()
	}
	if deps.narrator == nil {
		deps.narrator = &stubNarrator{}
	}

	cfg := config.NewForTesting(t.TempDir())
	cfg.GoogleClientID = "client-id"
	cfg.GoogleClientSecret = "client-secret"
	cfg.GoogleRedirectURI = "http://localhost:8080/api/auth/callback"

	researcher := &stubResearcher{results: []research.Result{
		{Title: "Quantum leaps", URL: "https://example.com/q", Text: strings.Repeat("x", 600), Highlights: []string{"a highlight"}},
	}}
	pipe := pipeline.New(researcher, &stubComposer{script: "Alex: hi\nSam: hello"}, deps.narrator, &stubCompositor{}, &stubPublisher{}, log)

	return NewRouter(
		NewAuthHandler(auth.NewBroker(cfg), deps.store, log),
		NewUserHandler(deps.store, log),
		NewResearchHandler(researcher, log),
		NewPodcastHandler(pipe, log),
		NewHealthHandler(deps.components),
		nil,
	)
}

func doJSON(t *testing.T, h http.Handler, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]interface{}
	if strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	}
	return rr, out
}

func TestGeneratePodcast_MissingKeywords(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "POST", "/api/generate-podcast", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Keywords are required", out["error"])

	// Malformed body produces the same canonical error.
	req := httptest.NewRequest("POST", "/api/generate-podcast", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeneratePodcast_HappyPath(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "POST", "/api/generate-podcast", "", map[string]string{"keywords": "quantum computing"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, out["success"])

	data := out["data"].(map[string]interface{})
	assert.Equal(t, "quantum computing", data["keywords"])
	assert.Equal(t, "default_user", data["userId"])
	assert.True(t, strings.HasPrefix(data["audioUrl"].(string), "data:audio/mp3;base64,"))
	assert.True(t, strings.HasPrefix(data["videoUrl"].(string), "data:video/mp4;base64,"))
	assert.Nil(t, data["youtubeUrl"])
}

func TestGeneratePodcast_NarrationFailureDowngrades(t *testing.T) {
	h := newTestServer(t, serverDeps{narrator: &stubNarrator{err: errors.New("tts down")}})

	rr, out := doJSON(t, h, "POST", "/api/generate-podcast", "", map[string]string{"keywords": "ai"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, out["success"])

	data := out["data"].(map[string]interface{})
	assert.NotEmpty(t, data["script"])
	assert.Nil(t, data["audioUrl"])
	assert.Nil(t, data["videoUrl"])
}

func TestResearch_Validation(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "POST", "/api/research", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Query is required", out["error"])
}

func TestResearch_ResultShape(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "POST", "/api/research", "", map[string]string{"query": "quantum"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, out["success"])

	data := out["data"].(map[string]interface{})
	assert.Equal(t, "quantum", data["query"])
	assert.Equal(t, float64(1), data["totalResults"])

	// Result ids are zero-based slice indices, not ranks.
	first := data["results"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(0), first["id"])
	assert.Equal(t, "Quantum leaps", first["title"])
	assert.Len(t, first["content"], 500)
}

func TestOnboardingStatus_AbsentUser(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "GET", "/api/user/onboarding-status", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, out["completed"])
	assert.Equal(t, float64(0), out["step"])
	assert.Nil(t, out["data"])
}

func TestOnboardingProgress_RoundTrip(t *testing.T) {
	st := newFakeStore()
	h := newTestServer(t, serverDeps{store: st})

	rr, out := doJSON(t, h, "POST", "/api/user/onboarding-progress", "u1", map[string]interface{}{
		"step": 2,
		"data": map[string]interface{}{"interests": []string{"ai", "go"}, "gmailConnected": true},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Progress saved successfully", out["message"])

	_, status := doJSON(t, h, "GET", "/api/user/onboarding-status", "u1", nil)
	assert.Equal(t, false, status["completed"])
	assert.Equal(t, float64(2), status["step"])
	data := status["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"ai", "go"}, data["interests"])
	assert.Equal(t, true, data["gmailConnected"])
}

func TestOnboardingProgress_ClampsStep(t *testing.T) {
	st := newFakeStore()
	h := newTestServer(t, serverDeps{store: st})

	rr, _ := doJSON(t, h, "POST", "/api/user/onboarding-progress", "u1", map[string]interface{}{"step": 99})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 4, st.records["u1"].OnboardingStep)

	rr, _ = doJSON(t, h, "POST", "/api/user/onboarding-progress", "u1", map[string]interface{}{"step": -3})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, st.records["u1"].OnboardingStep)
}

func TestCompleteOnboarding_Idempotent(t *testing.T) {
	st := newFakeStore()
	h := newTestServer(t, serverDeps{store: st})

	body := map[string]interface{}{"interests": []string{"ai"}, "gmailConnected": true}
	for i := 0; i < 2; i++ {
		rr, out := doJSON(t, h, "POST", "/api/user/complete-onboarding", "u1", body)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Onboarding completed successfully", out["message"])
	}
	assert.True(t, st.records["u1"].OnboardingComplete)
}

func TestUserRoutes_RequireBearer(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	for _, route := range []struct{ method, path string }{
		{"POST", "/api/user/onboarding-progress"},
		{"POST", "/api/user/complete-onboarding"},
		{"GET", "/api/user/onboarding-status"},
		{"GET", "/api/debug/auth-status"},
		{"POST", "/api/auth/gmail-disconnect"},
		{"GET", "/api/auth/gmail-status"},
	} {
		rr, out := doJSON(t, h, route.method, route.path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, rr.Code, route.path)
		assert.Equal(t, "User ID required", out["error"], route.path)
	}
}

func TestConnectGmail_ReturnsAuthURL(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "POST", "/api/auth/gmail-connect", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, out["success"])

	sessionID := out["session_id"].(string)
	assert.Len(t, sessionID, 8)
	authURL := out["auth_url"].(string)
	assert.Contains(t, authURL, "accounts.google.com")
	assert.Contains(t, authURL, "state=gmail-"+sessionID)
	assert.Contains(t, authURL, "access_type=offline")
}

func TestConnectCalendar_StatePrefix(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "POST", "/api/auth/calendar-connect", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, out["auth_url"].(string), "state=calendar-")
}

func TestDisconnectGmail_ClearsFlagAndTokens(t *testing.T) {
	st := newFakeStore()
	st.records["u1"] = &model.UserRecord{
		UserID:            "u1",
		GmailConnected:    true,
		CalendarConnected: true,
		GoogleTokens:      &model.TokenBundle{AccessToken: "tok"},
	}
	h := newTestServer(t, serverDeps{store: st})

	rr, out := doJSON(t, h, "POST", "/api/auth/gmail-disconnect", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Gmail disconnected successfully", out["message"])

	rec := st.records["u1"]
	assert.False(t, rec.GmailConnected)
	assert.True(t, rec.CalendarConnected, "other service untouched")
	assert.Nil(t, rec.GoogleTokens)
}

func TestStatusRoutes(t *testing.T) {
	st := newFakeStore()
	st.records["u1"] = &model.UserRecord{UserID: "u1", GmailConnected: true}
	h := newTestServer(t, serverDeps{store: st})

	_, gmail := doJSON(t, h, "GET", "/api/auth/gmail-status", "u1", nil)
	assert.Equal(t, true, gmail["connected"])
	assert.Equal(t, "user@gmail.com", gmail["email"])

	_, cal := doJSON(t, h, "GET", "/api/auth/calendar-status", "u1", nil)
	assert.Equal(t, false, cal["connected"])
	assert.Nil(t, cal["calendar"])
}

func TestCallback_MissingCodeOrState(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "GET", "/api/auth/callback?state=gmail-abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing authorization code or state", out["error"])

	rr, _ = doJSON(t, h, "GET", "/api/auth/callback?code=xyz", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDebugAuthStatus_DumpsRecord(t *testing.T) {
	st := newFakeStore()
	st.records["u1"] = &model.UserRecord{UserID: "u1", Interests: []string{"ai"}}
	h := newTestServer(t, serverDeps{store: st})

	rr, out := doJSON(t, h, "GET", "/api/debug/auth-status", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", out["userId"])
	assert.Equal(t, "u1", out["userData"].(map[string]interface{})["userId"])
}

func TestHealth_NoComponentsReadsDegraded(t *testing.T) {
	h := newTestServer(t, serverDeps{})

	rr, out := doJSON(t, h, "GET", "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "degraded", out["status"])
}

func TestHealth_ComponentBreakdown(t *testing.T) {
	h := newTestServer(t, serverDeps{components: func() map[string]bool {
		return map[string]bool{"store": true, "exa": false, "openai": true}
	}})

	rr, out := doJSON(t, h, "GET", "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "degraded", out["status"])

	services := out["services"].(map[string]interface{})
	assert.Equal(t, "ready", services["store"])
	assert.Equal(t, "missing_api_key", services["exa"])
	assert.Equal(t, "ready", services["openai"])
}

func TestStoreFailure_Surfaces500(t *testing.T) {
	st := newFakeStore()
	st.failAll = true
	h := newTestServer(t, serverDeps{store: st})

	rr, out := doJSON(t, h, "GET", "/api/user/onboarding-status", "u1", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to get onboarding status", out["error"])
}
