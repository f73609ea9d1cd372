package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/service"
	"github.com/BuzzLyutic/taskhub-api/pkg/respond"
)

type SubTaskHandler struct {
	base
	service *service.SubTaskService
}

func NewSubTaskHandler(srv *service.SubTaskService, logger *zap.Logger) *SubTaskHandler {
	return &SubTaskHandler{
		base:    base{logger: logger},
		service: srv,
	}
}

func (h *SubTaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.SubTaskInput
	if !h.decode(w, r, &in) {
		return
	}

	st, err := h.service.Create(r.Context(), auth.CallerFrom(r.Context()), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/subtasks/%d/", st.ID))
	respond.JSON(w, r, http.StatusCreated, st)
}

func (h *SubTaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	st, err := h.service.Get(r.Context(), auth.CallerFrom(r.Context()), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, st)
}

func (h *SubTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), auth.CallerFrom(r.Context()), r.URL.Query())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, withLinks(r, page))
}

func (h *SubTaskHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *SubTaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *SubTaskHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.SubTaskInput
	if !h.decode(w, r, &in) {
		return
	}

	st, err := h.service.Update(r.Context(), auth.CallerFrom(r.Context()), id, in, partial)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, st)
}

func (h *SubTaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
