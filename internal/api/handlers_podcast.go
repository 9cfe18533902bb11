package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/api/respond"
	"github.com/podgenius/podgenius-server/internal/pipeline"
)

// PodcastHandler serves POST /api/generate-podcast.
type PodcastHandler struct {
	pipeline *pipeline.Pipeline
	log      zerolog.Logger
}

func NewPodcastHandler(p *pipeline.Pipeline, log zerolog.Logger) *PodcastHandler {
	return &PodcastHandler{pipeline: p, log: log}
}

type generateRequest struct {
	Keywords string `json:"keywords"`
	UserID   string `json:"userId"`
}

// HandleGenerate runs the generation pipeline. Partial failures of the
// best-effort stages are visible only as null fields; the envelope always
// reports success once the fatal stages pass.
func (h *PodcastHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var in generateRequest
	// A malformed or empty body leaves the zero request; keyword validation
	// below produces the canonical error either way.
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Keywords == "" {
		respond.WriteBadRequest(w, "Keywords are required")
		return
	}

	result, err := h.pipeline.Generate(r.Context(), pipeline.Request{Keywords: in.Keywords, UserID: in.UserID})
	if err != nil {
		h.log.Error().Stack().Err(err).Str("keywords", in.Keywords).Msg("podcast generation failed")
		respond.WriteInternalError(w, "Failed to generate podcast")
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}
