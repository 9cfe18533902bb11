package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/api/respond"
	"github.com/podgenius/podgenius-server/internal/pipeline"
	"github.com/podgenius/podgenius-server/internal/research"
)

// ResearchHandler serves POST /api/research.
type ResearchHandler struct {
	researcher pipeline.Researcher
	log        zerolog.Logger
}

func NewResearchHandler(r pipeline.Researcher, log zerolog.Logger) *ResearchHandler {
	return &ResearchHandler{researcher: r, log: log}
}

type researchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
}

type researchResult struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Highlights []string `json:"highlights"`
	Content    string   `json:"content"`
}

// HandleResearch runs a standalone search and reshapes the ranked results.
func (h *ResearchHandler) HandleResearch(w http.ResponseWriter, r *http.Request) {
	var in researchRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid request body")
		return
	}
	if in.Query == "" {
		respond.WriteBadRequest(w, "Query is required")
		return
	}
	if in.NumResults <= 0 {
		in.NumResults = research.DefaultNumResults
	}

	results, err := h.researcher.Search(r.Context(), in.Query, in.NumResults)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("query", in.Query).Msg("research failed")
		respond.WriteInternalError(w, "Failed to perform research")
		return
	}

	parsed := make([]researchResult, 0, len(results))
	for i, res := range results {
		highlights := res.Highlights
		if highlights == nil {
			highlights = []string{}
		}
		parsed = append(parsed, researchResult{
			ID:         i,
			Title:      res.Title,
			URL:        res.URL,
			Highlights: highlights,
			Content:    res.ContentPreview(),
		})
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"query":        in.Query,
			"results":      parsed,
			"totalResults": len(results),
		},
	})
}
