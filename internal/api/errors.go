package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/gray-logic-motion/internal/animation"
	"github.com/nerrad567/gray-logic-motion/internal/flicker"
	"github.com/nerrad567/gray-logic-motion/internal/history"
	"github.com/nerrad567/gray-logic-motion/internal/preset"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/studio"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
	"github.com/nerrad567/gray-logic-motion/internal/transition"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeForbidden   = "forbidden"
	ErrCodeConflict    = "conflict"
	ErrCodeInternal    = "internal_error"
	ErrCodeValidation  = "validation_error"
	ErrCodeUnavailable = "unavailable"
)

// domainErrors maps sentinel errors to responses, first match wins.
var domainErrors = []struct {
	err    error
	status int
	code   string
}{
	{preset.ErrPresetNotFound, http.StatusNotFound, ErrCodeNotFound},
	{animation.ErrPresetNotFound, http.StatusNotFound, ErrCodeNotFound},
	{timeline.ErrTemplateNotFound, http.StatusNotFound, ErrCodeNotFound},
	{studio.ErrTimelineNotFound, http.StatusNotFound, ErrCodeNotFound},

	{preset.ErrReadOnly, http.StatusForbidden, ErrCodeForbidden},
	{preset.ErrPresetExists, http.StatusConflict, ErrCodeConflict},
	{history.ErrEmptyHistory, http.StatusConflict, ErrCodeConflict},
	{studio.ErrNoTimelineStore, http.StatusServiceUnavailable, ErrCodeUnavailable},

	{preset.ErrInvalidPreset, http.StatusBadRequest, ErrCodeValidation},
	{timeline.ErrInvalidTimeline, http.StatusBadRequest, ErrCodeValidation},
	{timeline.ErrInvalidValue, http.StatusBadRequest, ErrCodeValidation},
	{timeline.ErrIndexOutOfRange, http.StatusBadRequest, ErrCodeValidation},
	{timeline.ErrSelectionTooSmall, http.StatusBadRequest, ErrCodeValidation},
	{animation.ErrInvalidMode, http.StatusBadRequest, ErrCodeValidation},
	{flicker.ErrUnknownPreset, http.StatusBadRequest, ErrCodeValidation},
	{transition.ErrEmptyTarget, http.StatusBadRequest, ErrCodeValidation},
	{sequence.ErrInvalidScript, http.StatusBadRequest, ErrCodeValidation},
	{studio.ErrEmptyTimeline, http.StatusBadRequest, ErrCodeValidation},
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps err onto a response. Errors that are not domain
// errors are logged and answered with a generic 500 carrying fallback.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, fallback string) {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			writeError(w, d.status, d.code, err.Error())
			return
		}
	}
	s.logger.Error(fallback, "error", err)
	writeInternalError(w, fallback)
}

// decodeJSON decodes the request body into v. An empty body leaves v as
// it is when optional is true.
func decodeJSON(r *http.Request, v any, optional bool) error {
	if optional && (r.Body == nil || r.ContentLength == 0) {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
