// Package model defines the shared types for user records, OAuth token
// bundles, and generation results.
package model

// TokenBundle is the OAuth access/refresh/scope/expiry tuple returned by a
// code exchange. ExpiryDate is Unix milliseconds, matching the Google client
// wire shape.
type TokenBundle struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiryDate   int64  `json:"expiry_date,omitempty"`
}

// UserRecord is the stored profile document keyed by user id. One record per
// opaque user id; created on first write, never explicitly deleted.
type UserRecord struct {
	UserID             string       `json:"userId"`
	Interests          []string     `json:"interests"`
	GmailConnected     bool         `json:"gmailConnected"`
	CalendarConnected  bool         `json:"calendarConnected"`
	OnboardingComplete bool         `json:"onboardingCompleted"`
	OnboardingStep     int          `json:"onboardingStep"`
	GoogleTokens       *TokenBundle `json:"googleTokens,omitempty"`
}

// NewUserRecord returns a record with stored defaults for the given id.
func NewUserRecord(userID string) *UserRecord {
	return &UserRecord{
		UserID:    userID,
		Interests: []string{},
	}
}

// Clone returns a deep copy. The token bundle is copied so callers can mutate
// the result without aliasing store-internal state.
func (u *UserRecord) Clone() *UserRecord {
	if u == nil {
		return nil
	}
	out := *u
	out.Interests = append([]string(nil), u.Interests...)
	if u.GoogleTokens != nil {
		tok := *u.GoogleTokens
		out.GoogleTokens = &tok
	}
	return &out
}

// GenerationResult is the ephemeral payload of one episode-generation request.
// It exists only in the HTTP response; nothing is persisted.
type GenerationResult struct {
	Keywords        string  `json:"keywords"`
	UserID          string  `json:"userId"`
	Script          string  `json:"script"`
	AudioURL        *string `json:"audioUrl"`
	VideoURL        *string `json:"videoUrl,omitempty"`
	YouTubeURL      *string `json:"youtubeUrl,omitempty"`
	VideoID         *string `json:"videoId,omitempty"`
	ResearchSummary string  `json:"researchSummary"`
	Timestamp       string  `json:"timestamp"`
}
