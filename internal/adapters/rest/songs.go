package rest

import (
	"net/http"
	"strconv"

	"github.com/coooow/VibeMatcher/internal/core/domain"
)

type searchRequest struct {
	Query string `json:"q" validate:"required,max=200"`
	Limit int    `json:"limit" validate:"min=0,max=1000"`
}

// songResponse carries the raw artist so clients can send it back to
// /matches unchanged.
type songResponse struct {
	Index      int     `json:"index"`
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Display    string  `json:"display_artist"`
	Genre      string  `json:"genre"`
	Popularity float64 `json:"popularity"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []songResponse `json:"results"`
}

// SearchSongs handles GET /songs?q=&limit=
func (h *Handler) SearchSongs(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorWithCode(w, http.StatusBadRequest, "limit must be an integer", errCodeInvalidRequest)
			return
		}
		req.Limit = limit
	}
	if err := validate.Struct(req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, validationMessage(err), errCodeInvalidRequest)
		return
	}

	candidates, err := h.svc.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := searchResponse{Query: req.Query, Results: make([]songResponse, len(candidates))}
	for i, c := range candidates {
		resp.Results[i] = songResponse{
			Index:      c.Index,
			ID:         c.Track.ID,
			Title:      c.Track.Title,
			Artist:     c.Track.Artist,
			Display:    domain.DisplayArtist(c.Track.Artist),
			Genre:      c.Track.Genre,
			Popularity: c.Track.Popularity,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
