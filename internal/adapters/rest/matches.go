package rest

import (
	"net/http"

	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/worker"
)

type matchRequest struct {
	Title  string `json:"title" validate:"required"`
	Artist string `json:"artist" validate:"required"`
	K      int    `json:"k" validate:"min=0,max=100"`
}

type matchResponse struct {
	Title   string               `json:"title"`
	Artist  string               `json:"artist"`
	Matches []domain.MatchResult `json:"matches"`
}

// FindMatches handles POST /matches
func (h *Handler) FindMatches(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	results, err := h.svc.Match(r.Context(), req.Title, req.Artist, req.K)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Title: req.Title, Artist: req.Artist, Matches: results})
}

type batchRequest struct {
	Jobs []matchRequest `json:"jobs" validate:"required,min=1,max=500,dive"`
}

type batchResult struct {
	Title   string               `json:"title"`
	Artist  string               `json:"artist"`
	Matches []domain.MatchResult `json:"matches,omitempty"`
	Error   *errorResponse       `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

// BatchMatches handles POST /matches/batch. Results keep request order;
// a failed job reports its error in place.
func (h *Handler) BatchMatches(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		writeErrorWithCode(w, http.StatusServiceUnavailable, "batch matching is not enabled", errCodeUnavailable)
		return
	}

	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// A fatal catalog error fails the whole batch rather than every job.
	if _, err := h.svc.Load(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}

	jobs := make([]worker.Job, len(req.Jobs))
	for i, j := range req.Jobs {
		jobs[i] = worker.Job{Title: j.Title, Artist: j.Artist, K: j.K}
	}

	outcomes, err := h.pool.Batch(r.Context(), jobs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := batchResponse{Results: make([]batchResult, len(outcomes))}
	for i, o := range outcomes {
		res := batchResult{Title: o.Job.Title, Artist: o.Job.Artist, Matches: o.Results}
		if o.Err != nil {
			_, code := errorStatus(o.Err)
			res.Error = &errorResponse{Error: o.Err.Error(), Code: code}
		}
		resp.Results[i] = res
	}
	writeJSON(w, http.StatusOK, resp)
}
