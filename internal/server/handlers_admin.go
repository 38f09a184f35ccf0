package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/types"
)

// invalidateResponse lists the resources whose cache entries were dropped.
type invalidateResponse struct {
	Invalidated []string `json:"invalidated"`
}

// handleInvalidateCache drops one cached resource, or all of them when the body
// names none. It sits behind the bearer-token middleware.
func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req types.InvalidateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}
	if err := s.validator.Struct(req); err != nil {
		writeError(w, s.logger, validationError(err))
		return
	}

	subject, _ := middleware.Subject(r)
	logger := s.logger.With(zap.String("subject", subject))

	if s.cache == nil {
		logger.Info("cache invalidation requested but no cache is configured")
		writeJSON(w, logger, http.StatusOK, types.OK(invalidateResponse{Invalidated: []string{}}))
		return
	}

	var (
		dropped []string
		err     error
	)
	if req.Resource == "" {
		err = s.cache.InvalidateAll(r.Context())
		dropped = append(dropped, types.Resources...)
	} else {
		err = s.cache.Invalidate(r.Context(), req.Resource)
		dropped = []string{req.Resource}
	}
	if err != nil {
		writeError(w, logger, err)
		return
	}

	logger.Info("cache invalidated", zap.Strings("resources", dropped))
	writeJSON(w, logger, http.StatusOK, types.OK(invalidateResponse{Invalidated: dropped}))
}

const (
	defaultMessageLimit = 20
	maxMessageLimit     = 100
)

// handleListMessages returns the newest contact submissions. ?limit caps the count.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.messages.(MessageLister)
	if !ok {
		writeError(w, s.logger, &ErrNotFound{Resource: "contact message store"})
		return
	}

	limit := defaultMessageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, s.logger, &ErrValidation{Field: "limit", Message: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxMessageLimit)
	}

	messages, err := lister.ListContactMessages(r.Context(), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(nonNilSlice(messages)))
}
