package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/service"
	"github.com/BuzzLyutic/taskhub-api/pkg/respond"
)

type TaskHandler struct {
	base
	service *service.TaskService
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		base:    base{logger: logger},
		service: srv,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if !h.decode(w, r, &in) {
		return
	}

	task, err := h.service.Create(r.Context(), auth.CallerFrom(r.Context()), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/tasks/%d/", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), auth.CallerFrom(r.Context()), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), auth.CallerFrom(r.Context()), r.URL.Query())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, withLinks(r, page))
}

func (h *TaskHandler) My(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.My(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

func (h *TaskHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *TaskHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.TaskInput
	if !h.decode(w, r, &in) {
		return
	}

	task, err := h.service.Update(r.Context(), auth.CallerFrom(r.Context()), id, in, partial)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
