// Package pipeline runs one episode-generation request through its stages:
// research, script composition, narration, video compositing, and publishing.
// The first two stages are fatal on failure; the rest are best-effort and
// only ever downgrade the result.
package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/model"
	"github.com/podgenius/podgenius-server/internal/research"
)

// ErrKeywordsRequired rejects requests without keywords before any provider
// call is made.
var ErrKeywordsRequired = errors.New("keywords are required")

// Researcher returns ranked results for a keyword query.
type Researcher interface {
	Search(ctx context.Context, query string, numResults int) ([]research.Result, error)
}

// Composer writes the two-host dialogue script.
type Composer interface {
	Compose(ctx context.Context, keywords, researchSummary string) (string, error)
}

// Narrator converts script text to audio bytes.
type Narrator interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Compositor muxes audio with the cover still into an MP4.
type Compositor interface {
	Compose(ctx context.Context, audio []byte) ([]byte, error)
}

// Publisher uploads the video to the hosting platform.
type Publisher interface {
	Configured() bool
	Upload(ctx context.Context, video []byte, title, description string, tags []string, playlistName string) (*PublishResult, error)
}

// PublishResult identifies a hosted upload.
type PublishResult struct {
	VideoID string
	URL     string
}

// Request is one generation request.
type Request struct {
	Keywords string
	UserID   string
}

// stageResult carries a best-effort stage's outcome across the stage
// boundary. Failures are logged where they happen and arrive here as ok=false;
// errors never cross between stages.
type stageResult[T any] struct {
	value T
	ok    bool
}

func succeeded[T any](v T) stageResult[T] { return stageResult[T]{value: v, ok: true} }

func failed[T any]() stageResult[T] { return stageResult[T]{} }

// Pipeline chains the generation stages. Construct once and share across
// requests; all fields are read-only after New.
type Pipeline struct {
	researcher Researcher
	composer   Composer
	narrator   Narrator
	compositor Compositor
	publisher  Publisher
	log        zerolog.Logger
}

func New(r Researcher, c Composer, n Narrator, v Compositor, p Publisher, log zerolog.Logger) *Pipeline {
	return &Pipeline{researcher: r, composer: c, narrator: n, compositor: v, publisher: p, log: log}
}

// Generate runs the full pipeline. Research and composition failures abort the
// request; narration, compositing, and publishing failures surface only as
// null fields in the result. There is no cancellation beyond ctx propagation
// and no persistence of intermediate state.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*model.GenerationResult, error) {
	if req.Keywords == "" {
		return nil, ErrKeywordsRequired
	}
	userID := req.UserID
	if userID == "" {
		userID = "default_user"
	}

	// Research: fatal, no fallback content.
	results, err := p.researcher.Search(ctx, req.Keywords, research.DefaultNumResults)
	if err != nil {
		return nil, fmt.Errorf("research failed: %w", err)
	}
	summary := research.Summary(results)

	// Compose: fatal on transport error; an empty completion is tolerated.
	script, err := p.composer.Compose(ctx, req.Keywords, summary)
	if err != nil {
		return nil, fmt.Errorf("script composition failed: %w", err)
	}

	audio := p.narrate(ctx, script)
	video := p.composite(ctx, audio)
	hosted := p.publish(ctx, video, req.Keywords, userID)

	out := &model.GenerationResult{
		Keywords:        req.Keywords,
		UserID:          userID,
		Script:          script,
		ResearchSummary: summary,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	if audio.ok {
		out.AudioURL = dataURI("audio/mp3", audio.value)
	}
	if video.ok {
		out.VideoURL = dataURI("video/mp4", video.value)
	}
	if hosted.ok {
		out.YouTubeURL = &hosted.value.URL
		out.VideoID = &hosted.value.VideoID
	}
	return out, nil
}

func (p *Pipeline) narrate(ctx context.Context, script string) stageResult[[]byte] {
	audio, err := p.narrator.Synthesize(ctx, script)
	if err != nil {
		p.log.Error().Stack().Err(err).Msg("narration failed; episode continues without audio")
		return failed[[]byte]()
	}
	return succeeded(audio)
}

func (p *Pipeline) composite(ctx context.Context, audio stageResult[[]byte]) stageResult[[]byte] {
	if !audio.ok {
		return failed[[]byte]()
	}
	video, err := p.compositor.Compose(ctx, audio.value)
	if err != nil {
		p.log.Error().Stack().Err(err).Msg("video compositing failed; episode continues without video")
		return failed[[]byte]()
	}
	return succeeded(video)
}

func (p *Pipeline) publish(ctx context.Context, video stageResult[[]byte], keywords, userID string) stageResult[*PublishResult] {
	if !video.ok || p.publisher == nil || !p.publisher.Configured() {
		return failed[*PublishResult]()
	}
	title := "Podgenius: " + keywords
	description := fmt.Sprintf("An AI-generated podcast episode about %s.", keywords)
	hosted, err := p.publisher.Upload(ctx, video.value, title, description, []string{keywords}, "Podgenius - "+userID)
	if err != nil {
		p.log.Error().Stack().Err(err).Msg("upload failed; episode continues without hosted video")
		return failed[*PublishResult]()
	}
	return succeeded(hosted)
}

func dataURI(mime string, data []byte) *string {
	uri := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
	return &uri
}
