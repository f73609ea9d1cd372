package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/service"
	"github.com/BuzzLyutic/taskhub-api/pkg/respond"
)

type AuthHandler struct {
	base
	service *service.AuthService
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		base:    base{logger: logger},
		service: srv,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !h.decode(w, r, &in) {
		return
	}

	u, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.logger.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	respond.JSON(w, r, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !h.decode(w, r, &in) {
		return
	}

	pair, err := h.service.Login(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in service.RefreshInput
	if !h.decode(w, r, &in) {
		return
	}

	pair, err := h.service.Refresh(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var in service.RefreshInput
	if !h.decode(w, r, &in) {
		return
	}

	if err := h.service.Logout(r.Context(), auth.CallerFrom(r.Context()), in); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusResetContent, map[string]string{"detail": "Successfully logged out."})
}
