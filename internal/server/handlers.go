package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Perentie01/fitflow/internal/exporter"
	"github.com/Perentie01/fitflow/internal/importer"
	"github.com/Perentie01/fitflow/internal/ingest/plan"
	"github.com/Perentie01/fitflow/internal/models"
	"github.com/Perentie01/fitflow/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxPlanBytes caps uploaded plan text. Plans are hand-authored
// spreadsheets; anything near this size is not one.
const maxPlanBytes = 10 << 20

func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	p, err := s.imp.Preview(string(body))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":       p.Token,
		"rows":        p.Rows,
		"block_ids":   p.BlockIDs,
		"errors":      p.Errors,
		"preview":     p.Preview,
		"can_confirm": p.CanConfirm(),
	})
}

func (s *Server) handleImportConfirm(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid token"})
		return
	}

	stats, err := s.imp.Confirm(r.Context(), token)
	switch {
	case errors.Is(err, importer.ErrUnknownPlan):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, importer.ErrValidationFailed), errors.Is(err, importer.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		s.log.Error("import confirm failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) handleImportExample(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	_, _ = w.Write([]byte(plan.ExampleTSV))
}

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.db.ListBlocks(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) handleActiveBlock(w http.ResponseWriter, r *http.Request) {
	block, err := s.db.ActiveBlock(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if block == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active block"})
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (s *Server) handleSetActiveBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockID string `json:"block_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BlockID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "block_id is required"})
		return
	}

	if err := s.db.SetActiveBlock(r.Context(), req.BlockID); err != nil {
		if errors.Is(err, storage.ErrBlockNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active_block": req.BlockID})
}

func (s *Server) handleBlockDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.db.DaysForBlock(r.Context(), chi.URLParam(r, "blockID"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleWorkouts(w http.ResponseWriter, r *http.Request) {
	blockID := r.URL.Query().Get("block")
	if blockID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "block parameter required"})
		return
	}

	var (
		workouts []models.Workout
		err      error
	)
	if day := r.URL.Query().Get("day"); day != "" {
		workouts, err = s.db.WorkoutsByBlockAndDay(r.Context(), blockID, day)
	} else {
		workouts, err = s.db.WorkoutsByBlock(r.Context(), blockID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var p models.Progress
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if p.WorkoutID <= 0 || p.SetNumber < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workout_id and set_number (>= 1) are required"})
		return
	}

	saved, err := s.db.SaveProgress(r.Context(), p)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if idStr := r.URL.Query().Get("workout_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout_id"})
			return
		}
		entries, err := s.db.ProgressByWorkout(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	blockID := r.URL.Query().Get("block")
	if blockID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workout_id or block parameter required"})
		return
	}
	entries, err := s.db.ProgressByBlock(r.Context(), blockID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleProgressHistory(w http.ResponseWriter, r *http.Request) {
	blockID := r.URL.Query().Get("block")
	if blockID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "block parameter required"})
		return
	}
	history, err := s.db.ProgressHistory(r.Context(), blockID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")

	file, err := exporter.Export(r.Context(), s.db, blockID)
	if err != nil {
		if errors.Is(err, storage.ErrBlockNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("export failed", "block", blockID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	_, _ = w.Write(file.Data)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"consistent": s.imp.Consistent()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
