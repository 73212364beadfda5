package rest

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/logging"
	"github.com/coooow/VibeMatcher/internal/worker"
)

// Error codes returned in the "code" field of error responses.
const (
	errCodeSourceNotFound = "SOURCE_NOT_FOUND"
	errCodeSchema         = "SCHEMA_ERROR"
	errCodeNoMatch        = "NO_MATCH"
	errCodeNotFound       = "NOT_FOUND"
	errCodeInvalidRequest = "INVALID_REQUEST"
	errCodeUnavailable    = "UNAVAILABLE"
	errCodeInternal       = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error       string   `json:"error"`
	Code        string   `json:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// errorStatus maps an error kind to its HTTP status and code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSourceNotFound):
		return http.StatusServiceUnavailable, errCodeSourceNotFound
	case errors.Is(err, domain.ErrSchema):
		return http.StatusServiceUnavailable, errCodeSchema
	case errors.Is(err, domain.ErrNoMatch):
		return http.StatusNotFound, errCodeNoMatch
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errCodeNotFound
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrInvalidK):
		return http.StatusBadRequest, errCodeInvalidRequest
	case errors.Is(err, worker.ErrPoolStopped):
		return http.StatusServiceUnavailable, errCodeUnavailable
	default:
		return http.StatusInternalServerError, errCodeInternal
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError && code == errCodeInternal {
		logging.Error().Err(err).Msg("request failed")
	}
	resp := errorResponse{Error: err.Error(), Code: code}
	var noMatch *domain.NoMatchError
	if errors.As(err, &noMatch) {
		resp.Suggestions = noMatch.Suggestions
	}
	writeJSON(w, status, resp)
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON reads a JSON body into v and validates it. It writes the
// error response itself and reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if !isJSONContentType(r) {
		writeErrorWithCode(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", errCodeInvalidRequest)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "Invalid request body", errCodeInvalidRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, validationMessage(err), errCodeInvalidRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "max", "lte":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
