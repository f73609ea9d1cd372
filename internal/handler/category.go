package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/service"
	"github.com/BuzzLyutic/taskhub-api/pkg/respond"
)

// CategoryHandler is readable by anyone; writes need an authenticated caller.
type CategoryHandler struct {
	base
	service *service.CategoryService
}

func NewCategoryHandler(srv *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		base:    base{logger: logger},
		service: srv,
	}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if !h.decode(w, r, &in) {
		return
	}

	c, err := h.service.Create(r.Context(), auth.CallerFrom(r.Context()), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/categories/%d/", c.ID))
	respond.JSON(w, r, http.StatusCreated, c)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, c)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context(), r.URL.Query().Get(service.ParamOrdering))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, categories)
}

func (h *CategoryHandler) Deleted(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListDeleted(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, categories)
}

func (h *CategoryHandler) CountTasks(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountTasks(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, counts)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.CategoryInput
	if !h.decode(w, r, &in) {
		return
	}

	c, err := h.service.Rename(r.Context(), auth.CallerFrom(r.Context()), id, in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
