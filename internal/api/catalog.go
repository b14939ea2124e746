package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/services/catalog"
)

// CatalogHandler serves the fixture type and category endpoints. Reads are
// open to any authenticated user; mutations require the admin role.
type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: service}
}

func (h *CatalogHandler) ListFixtureTypes(w http.ResponseWriter, r *http.Request) {
	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		list, err := h.catalog.ListFixtureTypesByCategory(r.Context(), categoryID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	list, err := h.catalog.ListFixtureTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) GetFixtureType(w http.ResponseWriter, r *http.Request) {
	fixture, err := h.catalog.GetFixtureType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if fixture == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Fixture type not found"})
		return
	}
	writeJSON(w, http.StatusOK, fixture)
}

func (h *CatalogHandler) SaveFixtureType(w http.ResponseWriter, r *http.Request) {
	var fixture models.FixtureType
	if !decodeBody(w, r, &fixture) {
		return
	}

	if fixture.ID == "" {
		if err := h.catalog.CreateFixtureType(r.Context(), &fixture); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, fixture)
		return
	}
	if err := h.catalog.UpdateFixtureType(r.Context(), &fixture); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fixture)
}

func (h *CatalogHandler) DeleteFixtureType(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteFixtureType(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if category == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Category not found"})
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if !decodeBody(w, r, &category) {
		return
	}

	created := category.ID == ""
	if err := h.catalog.CreateOrUpdateCategory(r.Context(), &category); err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) Root(w http.ResponseWriter, r *http.Request) {
	root, err := h.catalog.Root(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

func (h *CatalogHandler) Ancestors(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Ancestors(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Descendants(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) Siblings(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Siblings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
