package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// TimelineResponse is the body returned by every timeline edit.
type TimelineResponse struct {
	Keyframes timeline.Timeline `json:"keyframes"`
	Duration  float64           `json:"duration"`
}

// selectionRequest names the keyframes an edit applies to. Distribute and
// reverse select every keyframe when Indices is empty.
type selectionRequest struct {
	Indices []int `json:"indices"`
}

func (r selectionRequest) orAll(tl timeline.Timeline) []int {
	if len(r.Indices) > 0 {
		return r.Indices
	}
	all := make([]int, tl.Len())
	for i := range all {
		all[i] = i
	}
	return all
}

type updateKeyframeRequest struct {
	Time   *float64          `json:"time"`
	Values timeline.Snapshot `json:"values"`
}

type easingRequest struct {
	Easing  string `json:"easing"`
	Indices []int  `json:"indices"`
}

type pasteRequest struct {
	At      float64 `json:"at"`
	Indices []int   `json:"indices"`
}

type saveTimelineRequest struct {
	Name string `json:"name"`
}

type historyEntryResponse struct {
	Label string `json:"label"`
	TimelineResponse
}

func writeTimeline(w http.ResponseWriter, status int, tl timeline.Timeline) {
	writeJSON(w, status, TimelineResponse{Keyframes: tl, Duration: tl.Duration()})
}

func (s *Server) handleGetTimeline(w http.ResponseWriter, _ *http.Request) {
	writeTimeline(w, http.StatusOK, s.studio.Timeline())
}

// handlePutTimeline replaces the whole timeline as one undoable edit.
func (s *Server) handlePutTimeline(w http.ResponseWriter, r *http.Request) {
	var tl timeline.Timeline
	if err := decodeJSON(r, &tl, false); err != nil {
		writeBadRequest(w, "invalid timeline: "+err.Error())
		return
	}
	tl, err := s.studio.SetTimeline("Replace timeline", tl)
	if err != nil {
		s.writeDomainError(w, err, "failed to replace timeline")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleAddKeyframe(w http.ResponseWriter, r *http.Request) {
	var kf timeline.Keyframe
	if err := decodeJSON(r, &kf, false); err != nil {
		writeBadRequest(w, "invalid keyframe: "+err.Error())
		return
	}
	tl, err := s.studio.AddKeyframe(kf)
	if err != nil {
		s.writeDomainError(w, err, "failed to add keyframe")
		return
	}
	writeTimeline(w, http.StatusCreated, tl)
}

func (s *Server) handleDeleteKeyframes(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid selection: "+err.Error())
		return
	}
	tl, err := s.studio.DeleteKeyframes(req.Indices...)
	if err != nil {
		s.writeDomainError(w, err, "failed to delete keyframes")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleUpdateKeyframe(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "keyframe index must be an integer")
		return
	}
	var req updateKeyframeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid keyframe update: "+err.Error())
		return
	}
	tl, err := s.studio.UpdateKeyframe(index, req.Time, req.Values)
	if err != nil {
		s.writeDomainError(w, err, "failed to update keyframe")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleSetEasing(w http.ResponseWriter, r *http.Request) {
	var req easingRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid easing request: "+err.Error())
		return
	}
	kind, ok := timeline.ParseEasing(req.Easing)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "unknown easing: "+req.Easing)
		return
	}
	tl, err := s.studio.SetEasing(kind, req.Indices...)
	if err != nil {
		s.writeDomainError(w, err, "failed to set easing")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeBadRequest(w, "invalid selection: "+err.Error())
		return
	}
	tl, err := s.studio.Distribute(req.orAll(s.studio.Timeline())...)
	if err != nil {
		s.writeDomainError(w, err, "failed to distribute keyframes")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeBadRequest(w, "invalid selection: "+err.Error())
		return
	}
	tl, err := s.studio.Reverse(req.orAll(s.studio.Timeline())...)
	if err != nil {
		s.writeDomainError(w, err, "failed to reverse keyframes")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid paste request: "+err.Error())
		return
	}
	tl, err := s.studio.Paste(req.At, req.Indices...)
	if err != nil {
		s.writeDomainError(w, err, "failed to paste keyframes")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": timeline.TemplateNames()})
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	tl, err := s.studio.ApplyTemplate(chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err, "failed to apply template")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleListSavedTimelines(w http.ResponseWriter, r *http.Request) {
	saved, err := s.studio.SavedTimelines(r.Context())
	if err != nil {
		s.writeDomainError(w, err, "failed to list timelines")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"timelines": saved, "count": len(saved)})
}

func (s *Server) handleSaveTimeline(w http.ResponseWriter, r *http.Request) {
	var req saveTimelineRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid save request: "+err.Error())
		return
	}
	saved, err := s.studio.SaveTimeline(r.Context(), req.Name)
	if err != nil {
		s.writeDomainError(w, err, "failed to save timeline")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleLoadTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := s.studio.LoadTimeline(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err, "failed to load timeline")
		return
	}
	writeTimeline(w, http.StatusOK, tl)
}

func (s *Server) handleDeleteSavedTimeline(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.DeleteTimeline(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeDomainError(w, err, "failed to delete timeline")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, _ *http.Request) {
	undo, redo := s.studio.History()
	writeJSON(w, http.StatusOK, map[string]any{"undo": undo, "redo": redo})
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	label, err := s.studio.Undo()
	if err != nil {
		s.writeDomainError(w, err, "failed to undo")
		return
	}
	tl := s.studio.Timeline()
	writeJSON(w, http.StatusOK, historyEntryResponse{
		Label:            label,
		TimelineResponse: TimelineResponse{Keyframes: tl, Duration: tl.Duration()},
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, _ *http.Request) {
	label, err := s.studio.Redo()
	if err != nil {
		s.writeDomainError(w, err, "failed to redo")
		return
	}
	tl := s.studio.Timeline()
	writeJSON(w, http.StatusOK, historyEntryResponse{
		Label:            label,
		TimelineResponse: TimelineResponse{Keyframes: tl, Duration: tl.Duration()},
	})
}
