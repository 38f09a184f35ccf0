package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/skills"
	"github.com/jonathan/portfolio/internal/types"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Debug("error encoding JSON response", zap.Error(err))
	}
}

// writeError writes an unsuccessful envelope. Internal errors are logged and their
// details withheld from the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		message = "Internal server error"
	}
	writeJSON(w, logger, status, types.Fail(message))
}

// decodeJSON decodes a bounded request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &ErrValidation{Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return &ErrValidation{Message: "request body is empty"}
		default:
			return &ErrValidation{Message: "invalid request body"}
		}
	}
	return nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &ErrValidation{Field: "id", Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return id, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, s.logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePersonalInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.content.GetPersonalInfo(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if info == nil {
		// A profile that has not been stored yet is empty content, not a 404.
		writeJSON(w, s.logger, http.StatusOK, types.Envelope{Success: true})
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(info))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.content.ListProjects(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(nonNilSlice(projects)))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	project, err := s.content.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if project == nil {
		writeError(w, s.logger, &ErrNotFound{Resource: "project", ID: strconv.Itoa(id)})
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(project))
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	list, err := s.content.ListSkills(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(nonNilSlice(list)))
}

func (s *Server) handleSkillCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.content.ListSkills(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(skills.GroupByCategory(list)))
}

func (s *Server) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := s.content.ListCertificates(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(nonNilSlice(certs)))
}

func (s *Server) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	cert, err := s.content.GetCertificate(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if cert == nil {
		writeError(w, s.logger, &ErrNotFound{Resource: "certificate", ID: strconv.Itoa(id)})
		return
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(cert))
}

// handleIntroTimeline serves the declarative intro steps. ?reducedMotion=true returns
// the shortened variant.
func (s *Server) handleIntroTimeline(w http.ResponseWriter, r *http.Request) {
	timeline := s.timeline
	reduced, _ := strconv.ParseBool(r.URL.Query().Get("reducedMotion"))
	if reduced {
		timeline = timeline.ReducedMotion()
	}
	writeJSON(w, s.logger, http.StatusOK, types.OK(timeline))
}

// nonNilSlice keeps empty lists encoding as [] rather than null.
func nonNilSlice[E any](v []E) []E {
	if v == nil {
		return []E{}
	}
	return v
}
