package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-motion/internal/flicker"
	"github.com/nerrad567/gray-logic-motion/internal/preset"
)

func (s *Server) handleListFlickerPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": flicker.Presets()})
}

// --- Environments ---

func (s *Server) handleListEnvironments(w http.ResponseWriter, r *http.Request) {
	envs := s.studio.Presets().Environments(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"environments": envs, "count": len(envs)})
}

func (s *Server) handleGetEnvironment(w http.ResponseWriter, r *http.Request) {
	env, err := s.studio.Presets().Environment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "failed to get environment")
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleCreateEnvironment(w http.ResponseWriter, r *http.Request) {
	var env preset.Environment
	if err := decodeJSON(r, &env, false); err != nil {
		writeBadRequest(w, "invalid environment: "+err.Error())
		return
	}
	if err := s.studio.Presets().CreateEnvironment(r.Context(), &env); err != nil {
		s.writeDomainError(w, err, "failed to create environment")
		return
	}
	writeJSON(w, http.StatusCreated, env)
}

func (s *Server) handleUpdateEnvironment(w http.ResponseWriter, r *http.Request) {
	presets := s.studio.Presets()
	existing, err := presets.Environment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "failed to get environment")
		return
	}
	var env preset.Environment
	if err := decodeJSON(r, &env, false); err != nil {
		writeBadRequest(w, "invalid environment: "+err.Error())
		return
	}
	env.ID = existing.ID
	if err := presets.UpdateEnvironment(r.Context(), &env); err != nil {
		s.writeDomainError(w, err, "failed to update environment")
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleDeleteEnvironment(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.Presets().DeleteEnvironment(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err, "failed to delete environment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Animations ---

func (s *Server) handleListAnimations(w http.ResponseWriter, r *http.Request) {
	anims := s.studio.Presets().Animations(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"animations": anims, "count": len(anims)})
}

func (s *Server) handleGetAnimation(w http.ResponseWriter, r *http.Request) {
	anim, err := s.studio.Presets().Animation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "failed to get animation")
		return
	}
	writeJSON(w, http.StatusOK, anim)
}

func (s *Server) handleCreateAnimation(w http.ResponseWriter, r *http.Request) {
	var anim preset.Animation
	if err := decodeJSON(r, &anim, false); err != nil {
		writeBadRequest(w, "invalid animation: "+err.Error())
		return
	}
	if err := s.studio.Presets().CreateAnimation(r.Context(), &anim); err != nil {
		s.writeDomainError(w, err, "failed to create animation")
		return
	}
	writeJSON(w, http.StatusCreated, anim)
}

func (s *Server) handleDeleteAnimation(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.Presets().DeleteAnimation(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err, "failed to delete animation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Sequences ---

func (s *Server) handleListSequences(w http.ResponseWriter, r *http.Request) {
	seqs := s.studio.Presets().Sequences(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"sequences": seqs, "count": len(seqs)})
}

func (s *Server) handleGetSequence(w http.ResponseWriter, r *http.Request) {
	seq, err := s.studio.Presets().Sequence(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "failed to get sequence")
		return
	}
	writeJSON(w, http.StatusOK, seq)
}

func (s *Server) handleCreateSequence(w http.ResponseWriter, r *http.Request) {
	var seq preset.Sequence
	if err := decodeJSON(r, &seq, false); err != nil {
		writeBadRequest(w, "invalid sequence: "+err.Error())
		return
	}
	if err := s.studio.Presets().CreateSequence(r.Context(), &seq); err != nil {
		s.writeDomainError(w, err, "failed to create sequence")
		return
	}
	writeJSON(w, http.StatusCreated, seq)
}

func (s *Server) handleUpdateSequence(w http.ResponseWriter, r *http.Request) {
	presets := s.studio.Presets()
	existing, err := presets.Sequence(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "failed to get sequence")
		return
	}
	var seq preset.Sequence
	if err := decodeJSON(r, &seq, false); err != nil {
		writeBadRequest(w, "invalid sequence: "+err.Error())
		return
	}
	seq.ID = existing.ID
	if err := presets.UpdateSequence(r.Context(), &seq); err != nil {
		s.writeDomainError(w, err, "failed to update sequence")
		return
	}
	writeJSON(w, http.StatusOK, seq)
}

func (s *Server) handleDeleteSequence(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.Presets().DeleteSequence(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err, "failed to delete sequence")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
