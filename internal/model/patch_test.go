package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_NilBaseUsesDefaults(t *testing.T) {
	out := Merge("u1", nil, UserPatch{})

	require.NotNil(t, out)
	assert.Equal(t, "u1", out.UserID)
	assert.Empty(t, out.Interests)
	assert.False(t, out.GmailConnected)
	assert.False(t, out.OnboardingComplete)
	assert.Equal(t, 0, out.OnboardingStep)
	assert.Nil(t, out.GoogleTokens)
}

func TestMerge_UntouchedFieldsSurvive(t *testing.T) {
	base := &UserRecord{
		UserID:         "u1",
		Interests:      []string{"ai", "science"},
		GmailConnected: true,
		OnboardingStep: 3,
		GoogleTokens:   &TokenBundle{AccessToken: "at", RefreshToken: "rt"},
	}

	out := Merge("u1", base, UserPatch{OnboardingStep: IntPtr(4)})

	assert.Equal(t, 4, out.OnboardingStep)
	assert.Equal(t, []string{"ai", "science"}, out.Interests)
	assert.True(t, out.GmailConnected)
	require.NotNil(t, out.GoogleTokens)
	assert.Equal(t, "at", out.GoogleTokens.AccessToken)
}

func TestMerge_TokenBundleReplacedWholesale(t *testing.T) {
	base := &UserRecord{
		UserID:       "u1",
		GoogleTokens: &TokenBundle{AccessToken: "old-at", RefreshToken: "old-rt", Scope: "mail"},
	}

	out := Merge("u1", base, UserPatch{GoogleTokens: &TokenBundle{AccessToken: "new-at"}})

	require.NotNil(t, out.GoogleTokens)
	assert.Equal(t, "new-at", out.GoogleTokens.AccessToken)
	// Wholesale replacement: the old refresh token and scope are gone.
	assert.Empty(t, out.GoogleTokens.RefreshToken)
	assert.Empty(t, out.GoogleTokens.Scope)
}

func TestMerge_ClearGoogleTokens(t *testing.T) {
	base := &UserRecord{
		UserID:       "u1",
		GoogleTokens: &TokenBundle{AccessToken: "at"},
	}

	out := Merge("u1", base, UserPatch{
		GmailConnected:    BoolPtr(false),
		ClearGoogleTokens: true,
	})

	assert.Nil(t, out.GoogleTokens)
	assert.False(t, out.GmailConnected)
}

func TestMerge_DoesNotMutateBase(t *testing.T) {
	base := &UserRecord{
		UserID:    "u1",
		Interests: []string{"ai"},
	}

	out := Merge("u1", base, UserPatch{Interests: StringsPtr([]string{"finance"})})

	assert.Equal(t, []string{"ai"}, base.Interests)
	assert.Equal(t, []string{"finance"}, out.Interests)
}
