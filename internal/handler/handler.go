package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
	"github.com/BuzzLyutic/taskhub-api/internal/service"
	"github.com/BuzzLyutic/taskhub-api/pkg/respond"
)

const (
	msgNotFound       = "Not found."
	msgForbidden      = "You do not have permission to perform this action."
	msgUnauthorized   = "Authentication credentials were not provided."
	msgBadCredentials = "No active account found with the given credentials"
	msgBadToken       = "Token is invalid or expired"
)

// base carries what every handler shares: the logger and error translation.
type base struct {
	logger *zap.Logger
}

func (h base) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respond.Fields(w, r, ve.Error(), ve.Fields)
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	case errors.Is(err, service.ErrToken):
		respond.Error(w, r, http.StatusBadRequest, msgBadToken)
	case errors.Is(err, service.ErrUnauthorized):
		respond.Error(w, r, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, r, http.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, service.ErrForbidden):
		respond.Error(w, r, http.StatusForbidden, msgForbidden)
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "conflict")
	default:
		h.logger.Error("internal error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into dst, answering 400 itself on failure.
func (h base) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return false
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return false
	}
	// тело должно быть ровно одним JSON-значением
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		respond.Error(w, r, http.StatusBadRequest, "invalid json: unexpected data after the JSON value")
		return false
	}
	return true
}

// idParam parses {id}; a malformed id cannot name any row, so it is 404.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

// withLinks turns the page's cursor tokens into absolute URLs of the current
// request with only the cursor parameter replaced.
func withLinks[T any](r *http.Request, p pagination.Page[T]) pagination.Page[T] {
	p.Next = cursorURL(r, p.Next)
	p.Previous = cursorURL(r, p.Previous)
	return p
}

func cursorURL(r *http.Request, cursor *string) *string {
	if cursor == nil {
		return nil
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch fwd := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); fwd {
	case "http", "https":
		scheme = fwd
	}
	q := r.URL.Query()
	q.Set(service.ParamCursor, *cursor)
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}
