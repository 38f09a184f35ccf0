package server

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/notify"
	"github.com/jonathan/portfolio/internal/types"
)

// handleContact accepts a contact-form submission. The message is stored when a
// message store is configured and then handed to the notifier once. A delivery
// failure is only fatal when the message was not stored.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req types.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		writeError(w, s.logger, err)
		return
	}
	if err := s.validator.Struct(req); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		writeError(w, s.logger, validationError(err))
		return
	}

	msg := notify.Message{ID: uuid.New(), ReceivedAt: s.now().UTC(), Request: req}
	logger := s.logger.With(zap.String("message_id", msg.ID.String()))

	stored := false
	if s.messages != nil {
		if err := s.messages.SaveContactMessage(r.Context(), msg.ID, msg.ReceivedAt, req); err != nil {
			metrics.ContactSubmissions.WithLabelValues("store_failed").Inc()
			writeError(w, logger, err)
			return
		}
		stored = true
	}

	if err := s.notifier.Send(r.Context(), msg); err != nil {
		logger.Warn("contact delivery failed", zap.Bool("stored", stored), zap.Error(err))
		if !stored {
			metrics.ContactSubmissions.WithLabelValues("delivery_failed").Inc()
			writeJSON(w, logger, http.StatusBadGateway, types.Fail("Failed to send message. Please try again later."))
			return
		}
	}

	metrics.ContactSubmissions.WithLabelValues("accepted").Inc()
	logger.Info("contact message accepted")
	writeJSON(w, logger, http.StatusCreated, types.OK(types.ContactReceipt{ID: msg.ID, ReceivedAt: msg.ReceivedAt}))
}
