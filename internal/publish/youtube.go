// Package publish uploads finished episodes to YouTube and files them into a
// per-user playlist.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/podgenius/podgenius-server/internal/config"
)

// errStopPaging short-circuits Pages once the target playlist is found.
var errStopPaging = errors.New("stop paging")

// UploadResult identifies the hosted video.
type UploadResult struct {
	VideoID string
	URL     string
}

// Publisher drives the YouTube Data API with pre-provisioned credentials.
type Publisher struct {
	clientID     string
	clientSecret string
	accessToken  string
	refreshToken string
	tokenExpiry  time.Time
	log          zerolog.Logger
}

func NewPublisher(cfg *config.Config, log zerolog.Logger) *Publisher {
	p := &Publisher{
		clientID:     cfg.GoogleClientID,
		clientSecret: cfg.GoogleClientSecret,
		accessToken:  cfg.YouTubeAccessToken,
		refreshToken: cfg.YouTubeRefreshToken,
		log:          log,
	}
	if cfg.YouTubeTokenExpiry != "" {
		if ts, err := time.Parse(time.RFC3339, cfg.YouTubeTokenExpiry); err == nil {
			p.tokenExpiry = ts
		}
	}
	return p
}

// Configured reports whether upload credentials are present. The publish
// stage is skipped entirely when this is false.
func (p *Publisher) Configured() bool {
	return p.refreshToken != "" || p.accessToken != ""
}

func (p *Publisher) service(ctx context.Context) (*youtube.Service, error) {
	oc := &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     google.Endpoint,
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{
		AccessToken:  p.accessToken,
		RefreshToken: p.refreshToken,
		Expiry:       p.tokenExpiry,
	})
	return youtube.NewService(ctx, option.WithTokenSource(ts))
}

// Upload writes the video to a temp file, performs a resumable insert, then
// finds or creates the named playlist and attaches the upload. Playlist
// failures downgrade to a logged warning; the upload still counts.
func (p *Publisher) Upload(ctx context.Context, video []byte, title, description string, tags []string, playlistName string) (*UploadResult, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("youtube upload not configured")
	}
	svc, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("podgenius-upload-%s.mp4", uuid.New().String()))
	if err := os.WriteFile(path, video, 0o600); err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(path) }()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: enrichDescription(description, tags),
			Tags:        tags,
			CategoryId:  "28", // Science & Technology
		},
		Status: &youtube.VideoStatus{PrivacyStatus: "unlisted"},
	}
	inserted, err := svc.Videos.Insert([]string{"snippet", "status"}, upload).Media(f).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		VideoID: inserted.Id,
		URL:     "https://www.youtube.com/watch?v=" + inserted.Id,
	}

	if playlistName != "" {
		if err := p.attachToPlaylist(ctx, svc, inserted.Id, playlistName); err != nil {
			p.log.Warn().Err(err).Str("playlist", playlistName).Msg("playlist attach failed; upload kept")
		}
	}
	return result, nil
}

// attachToPlaylist walks the paginated playlist list for an existing playlist
// with the given title, creating one when none matches.
func (p *Publisher) attachToPlaylist(ctx context.Context, svc *youtube.Service, videoID, name string) error {
	var playlistID string
	err := svc.Playlists.List([]string{"snippet"}).Mine(true).MaxResults(50).Pages(ctx, func(page *youtube.PlaylistListResponse) error {
		for _, pl := range page.Items {
			if pl.Snippet != nil && pl.Snippet.Title == name {
				playlistID = pl.Id
				return errStopPaging
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopPaging) {
		return err
	}

	if playlistID == "" {
		created, err := svc.Playlists.Insert([]string{"snippet", "status"}, &youtube.Playlist{
			Snippet: &youtube.PlaylistSnippet{Title: name, Description: "Episodes generated by Podgenius"},
			Status:  &youtube.PlaylistStatus{PrivacyStatus: "unlisted"},
		}).Context(ctx).Do()
		if err != nil {
			return err
		}
		playlistID = created.Id
	}

	_, err = svc.PlaylistItems.Insert([]string{"snippet"}, &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
	}).Context(ctx).Do()
	return err
}

func enrichDescription(description string, tags []string) string {
	if len(tags) == 0 {
		return description
	}
	hashed := make([]string, 0, len(tags))
	for _, tag := range tags {
		hashed = append(hashed, "#"+strings.ReplaceAll(strings.TrimSpace(tag), " ", ""))
	}
	return description + "\n\n" + strings.Join(hashed, " ")
}
