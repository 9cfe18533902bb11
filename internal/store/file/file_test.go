package file

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podgenius/podgenius-server/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s.(*FileStore)
}

func TestGet_AbsentUserReturnsNil(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestUpdate_CreatesOnFirstWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	out, err := s.Update(ctx, "u1", model.UserPatch{OnboardingStep: model.IntPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, out.OnboardingStep)
	assert.Equal(t, "u1", out.UserID)

	rec, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.OnboardingStep)
}

func TestUpdate_ShallowMergePreservesOtherFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "u1", model.UserPatch{
		Interests:    model.StringsPtr([]string{"ai"}),
		GoogleTokens: &model.TokenBundle{AccessToken: "at", RefreshToken: "rt"},
	})
	require.NoError(t, err)

	out, err := s.Update(ctx, "u1", model.UserPatch{GmailConnected: model.BoolPtr(true)})
	require.NoError(t, err)

	assert.Equal(t, []string{"ai"}, out.Interests)
	require.NotNil(t, out.GoogleTokens)
	assert.Equal(t, "rt", out.GoogleTokens.RefreshToken)
	assert.True(t, out.GmailConnected)
}

func TestUpdate_DisconnectClearsTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "u1", model.UserPatch{
		GmailConnected: model.BoolPtr(true),
		GoogleTokens:   &model.TokenBundle{AccessToken: "at"},
	})
	require.NoError(t, err)

	out, err := s.Update(ctx, "u1", model.UserPatch{
		GmailConnected:    model.BoolPtr(false),
		ClearGoogleTokens: true,
	})
	require.NoError(t, err)
	assert.Nil(t, out.GoogleTokens)
	assert.False(t, out.GmailConnected)
}

func TestCompleteOnboarding_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	patch := model.UserPatch{
		OnboardingComplete: model.BoolPtr(true),
		Interests:          model.StringsPtr([]string{"science"}),
	}
	first, err := s.Update(ctx, "u1", patch)
	require.NoError(t, err)
	second, err := s.Update(ctx, "u1", patch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, second.OnboardingComplete)
}

// Concurrent updates for the same id serialize on the document mutex; the
// final state is one of the two writes, never a torn record.
func TestUpdate_ConcurrentLastWriterWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = s.Update(ctx, "u1", model.UserPatch{
			GmailConnected: model.BoolPtr(true),
			GoogleTokens:   &model.TokenBundle{AccessToken: "at"},
		})
	}()
	go func() {
		defer wg.Done()
		_, _ = s.Update(ctx, "u1", model.UserPatch{
			GmailConnected:    model.BoolPtr(false),
			ClearGoogleTokens: true,
		})
	}()
	wg.Wait()

	rec, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	if rec.GmailConnected {
		assert.NotNil(t, rec.GoogleTokens)
	} else {
		assert.Nil(t, rec.GoogleTokens)
	}
}
