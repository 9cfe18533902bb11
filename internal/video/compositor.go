// Package video muxes narration audio with a static cover image into an MP4
// using an ffmpeg pipeline.
package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Compositor fetches the placeholder cover and drives the mux pipeline
// through temporary files on local disk.
type Compositor struct {
	http     *resty.Client
	coverURL string
}

// NewCompositor resolves the fixed placeholder image against the public base
// URL. The cover is not user-suppliable.
func NewCompositor(publicBaseURL string) *Compositor {
	return &Compositor{
		http:     resty.New().SetTimeout(30 * time.Second),
		coverURL: publicBaseURL + "/podcast-cover.png",
	}
}

// Compose muxes audio with the cover still into a fast-start MP4 and returns
// the container bytes. All temp files are removed on every exit path.
func (c *Compositor) Compose(ctx context.Context, audio []byte) ([]byte, error) {
	cover, err := c.fetchCover(ctx)
	if err != nil {
		return nil, err
	}

	dir := os.TempDir()
	id := uuid.New().String()
	audioPath := filepath.Join(dir, fmt.Sprintf("podgenius-%s.mp3", id))
	coverPath := filepath.Join(dir, fmt.Sprintf("podgenius-%s.png", id))
	outPath := filepath.Join(dir, fmt.Sprintf("podgenius-%s.mp4", id))
	defer func() {
		_ = os.Remove(audioPath)
		_ = os.Remove(coverPath)
		_ = os.Remove(outPath)
	}()

	if err := os.WriteFile(audioPath, audio, 0o600); err != nil {
		return nil, err
	}
	if err := os.WriteFile(coverPath, cover, 0o600); err != nil {
		return nil, err
	}

	image := ffmpeg.Input(coverPath, ffmpeg.KwArgs{"loop": 1, "framerate": 2})
	narration := ffmpeg.Input(audioPath)
	err = ffmpeg.Output([]*ffmpeg.Stream{image, narration}, outPath, ffmpeg.KwArgs{
		"c:v":      "libx264",
		"tune":     "stillimage",
		"c:a":      "aac",
		"b:a":      "192k",
		"pix_fmt":  "yuv420p",
		"shortest": "",
		"movflags": "+faststart",
	}).OverWriteOutput().Silent(true).Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg mux failed: %w", err)
	}

	return os.ReadFile(outPath)
}

func (c *Compositor) fetchCover(ctx context.Context) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.coverURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cover fetch status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
