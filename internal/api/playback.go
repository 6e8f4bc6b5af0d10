package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/runner"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// inlineScriptName labels sequences posted as raw steps.
const inlineScriptName = "inline"

// TaskResponse acknowledges a started task. Its end is announced on the
// task.finished channel.
type TaskResponse struct {
	ID    uint64       `json:"id"`
	Name  string       `json:"name"`
	State runner.State `json:"state"`
}

type playRequest struct {
	// DurationMS plays the current timeline over this many milliseconds;
	// zero plays it at its own length.
	DurationMS float64 `json:"duration_ms"`

	// Preset plays an animation preset instead of the timeline.
	Preset string  `json:"preset"`
	Speed  float64 `json:"speed"`
}

type scrubRequest struct {
	Time float64 `json:"time"`
}

type flickerRequest struct {
	Preset  string  `json:"preset"`
	SpeedMS float64 `json:"speed_ms"`
	Smooth  bool    `json:"smooth"`
}

type transitionRequest struct {
	To         string  `json:"to"`
	DurationMS float64 `json:"duration_ms"`
}

type environmentRequest struct {
	Name string `json:"name"`
}

type sequenceRequest struct {
	Name  string          `json:"name"`
	Steps sequence.Script `json:"steps"`
	Speed float64         `json:"speed"`
}

type stateRequest struct {
	Values timeline.Snapshot `json:"values"`
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func writeTask(w http.ResponseWriter, t *runner.Task) {
	writeJSON(w, http.StatusAccepted, TaskResponse{ID: t.ID(), Name: t.Name(), State: t.State()})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Status())
}

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"values": s.studio.State()})
}

// handleSetState emits values as a manual edit.
func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid state: "+err.Error())
		return
	}
	if err := s.studio.SetValues(r.Context(), req.Values); err != nil {
		s.writeDomainError(w, err, "failed to set state")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"values": s.studio.State()})
}

// handlePlay plays the timeline, or the named animation preset.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeBadRequest(w, "invalid play request: "+err.Error())
		return
	}
	if req.DurationMS < 0 {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "duration_ms cannot be negative")
		return
	}

	var (
		task *runner.Task
		err  error
	)
	if name := strings.TrimSpace(req.Preset); name != "" {
		task, err = s.studio.PlayPreset(r.Context(), name, req.Speed, s.hub.finished("animation", name))
	} else {
		task, err = s.studio.Play(r.Context(), millis(req.DurationMS), s.hub.finished("animation", "timeline"))
	}
	if err != nil {
		s.writeDomainError(w, err, "failed to start playback")
		return
	}
	writeTask(w, task)
}

func (s *Server) handleStopPlay(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"stopped": s.studio.StopAnimation()})
}

func (s *Server) handleScrub(w http.ResponseWriter, r *http.Request) {
	var req scrubRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid scrub request: "+err.Error())
		return
	}
	snap, err := s.studio.Scrub(r.Context(), req.Time)
	if err != nil {
		s.writeDomainError(w, err, "failed to scrub timeline")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"time": req.Time, "values": snap})
}

func (s *Server) handleFlicker(w http.ResponseWriter, r *http.Request) {
	var req flickerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid flicker request: "+err.Error())
		return
	}
	if req.SpeedMS < 0 {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "speed_ms cannot be negative")
		return
	}
	task, err := s.studio.Flicker(r.Context(), req.Preset, millis(req.SpeedMS), req.Smooth, s.hub.finished("flicker", req.Preset))
	if err != nil {
		s.writeDomainError(w, err, "failed to start flicker")
		return
	}
	writeTask(w, task)
}

func (s *Server) handleStopFlicker(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"stopped": s.studio.StopFlicker()})
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid transition request: "+err.Error())
		return
	}
	if req.DurationMS < 0 {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "duration_ms cannot be negative")
		return
	}
	task, err := s.studio.TransitionTo(r.Context(), req.To, millis(req.DurationMS), s.hub.finished("transition", req.To))
	if err != nil {
		s.writeDomainError(w, err, "failed to start transition")
		return
	}
	writeTask(w, task)
}

func (s *Server) handleApplyEnvironment(w http.ResponseWriter, r *http.Request) {
	var req environmentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid environment request: "+err.Error())
		return
	}
	if err := s.studio.ApplyEnvironment(r.Context(), req.Name); err != nil {
		s.writeDomainError(w, err, "failed to apply environment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"values": s.studio.State()})
}

// handleRunSequence runs a stored sequence by name, or the posted steps.
func (s *Server) handleRunSequence(w http.ResponseWriter, r *http.Request) {
	var req sequenceRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeBadRequest(w, "invalid sequence request: "+err.Error())
		return
	}

	if len(req.Steps) > 0 {
		name := req.Name
		if name == "" {
			name = inlineScriptName
		}
		writeTask(w, s.studio.RunScript(r.Context(), name, req.Steps, req.Speed, s.hub.finished("sequence", name)))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "name or steps is required")
		return
	}

	task, err := s.studio.RunSequence(r.Context(), req.Name, req.Speed, s.hub.finished("sequence", req.Name))
	if err != nil {
		s.writeDomainError(w, err, "failed to start sequence")
		return
	}
	writeTask(w, task)
}

func (s *Server) handleStopSequence(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"stopped": s.studio.StopSequence()})
}

func (s *Server) handleStopAll(w http.ResponseWriter, _ *http.Request) {
	s.studio.StopAll()
	writeJSON(w, http.StatusOK, s.studio.Status())
}
