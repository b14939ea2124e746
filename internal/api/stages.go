package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/services/stages"
)

// StageHandler serves the stage definition and template endpoints.
type StageHandler struct {
	stages *stages.Service
}

func NewStageHandler(service *stages.Service) *StageHandler {
	return &StageHandler{stages: service}
}

func (h *StageHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	list, err := h.stages.ListStages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *StageHandler) GetStage(w http.ResponseWriter, r *http.Request) {
	stage, err := h.stages.GetStage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if stage == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Stage not found"})
		return
	}
	writeJSON(w, http.StatusOK, stage)
}

func (h *StageHandler) SaveStage(w http.ResponseWriter, r *http.Request) {
	var stage models.Stage
	if !decodeBody(w, r, &stage) {
		return
	}

	if stage.ID == "" {
		if err := h.stages.CreateStage(r.Context(), &stage); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, stage)
		return
	}
	if err := h.stages.UpdateStage(r.Context(), &stage); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stage)
}

func (h *StageHandler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	if err := h.stages.DeleteStage(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StageHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.stages.ListTemplates(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *StageHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.stages.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if template == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Template not found"})
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (h *StageHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var template models.StageTemplate
	if !decodeBody(w, r, &template) {
		return
	}
	if err := h.stages.CreateTemplate(r.Context(), &template); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

func (h *StageHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.stages.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
