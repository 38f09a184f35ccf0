package page

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/logging"
)

// skipIntro completes every intro step at once. The browser plays the animation
// from the timeline embedded in the document.
func skipIntro(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Handler serves the rendered page. Each request is a fresh session whose sections
// are loaded from src before the document is written.
func Handler(src Sources, opts Options) http.Handler {
	logger := logging.OrNop(opts.Logger)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionOpts := opts
		sessionOpts.Sleep = skipIntro
		if r.URL.Query().Get("reducedMotion") == "true" {
			sessionOpts.ReducedMotion = true
		}

		session := NewSession(src, sessionOpts)
		defer session.Close()

		if err := session.Start(r.Context()); err != nil {
			logger.Warn("page sections did not settle", zap.Error(err))
		}

		var buf bytes.Buffer
		if err := Render(&buf, session.Sections(), session.Intro().Timeline()); err != nil {
			logger.Error("failed to render page", zap.Error(err))
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logger.Debug("failed to write page", zap.Error(err))
		}
	})
}
