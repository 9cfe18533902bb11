package model

// UserPatch is a partial update over a UserRecord. Nil pointer fields leave
// the stored value unchanged. The merge is shallow: Interests and GoogleTokens
// are replaced wholesale, never element- or field-merged.
type UserPatch struct {
	Interests          *[]string
	GmailConnected     *bool
	CalendarConnected  *bool
	OnboardingComplete *bool
	OnboardingStep     *int

	// GoogleTokens replaces the stored bundle when set. ClearGoogleTokens
	// removes it entirely (disconnect). Setting both is a caller bug;
	// ClearGoogleTokens wins.
	GoogleTokens      *TokenBundle
	ClearGoogleTokens bool
}

// Merge applies patch over base and returns the resulting record. base may be
// nil, in which case stored defaults for userID are used. The input record is
// not mutated.
func Merge(userID string, base *UserRecord, patch UserPatch) *UserRecord {
	var out *UserRecord
	if base == nil {
		out = NewUserRecord(userID)
	} else {
		out = base.Clone()
	}
	out.UserID = userID

	if patch.Interests != nil {
		out.Interests = append([]string(nil), (*patch.Interests)...)
	}
	if patch.GmailConnected != nil {
		out.GmailConnected = *patch.GmailConnected
	}
	if patch.CalendarConnected != nil {
		out.CalendarConnected = *patch.CalendarConnected
	}
	if patch.OnboardingComplete != nil {
		out.OnboardingComplete = *patch.OnboardingComplete
	}
	if patch.OnboardingStep != nil {
		out.OnboardingStep = *patch.OnboardingStep
	}
	if patch.ClearGoogleTokens {
		out.GoogleTokens = nil
	} else if patch.GoogleTokens != nil {
		tok := *patch.GoogleTokens
		out.GoogleTokens = &tok
	}
	return out
}

// Helpers for building patches inline.

func BoolPtr(v bool) *bool            { return &v }
func IntPtr(v int) *int               { return &v }
func StringsPtr(v []string) *[]string { return &v }
