package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/penerbit-id/naskah/internal/manuscripts"
	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/logging"
)

const maxAdminBody = 64 << 10

// requireAdmin guards the admin API with the static bearer token. Without a
// configured token the admin API is switched off.
func (s *server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			respondMessage(w, http.StatusNotFound, "admin API is disabled")
			return
		}
		token := bearerToken(r)
		if token == "" || !constantTimeEquals(token, s.adminToken) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="naskah"`)
			respondMessage(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next(w, r)
	})
}

func (s *server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := storage.Filter{
		Status: storage.Status(strings.TrimSpace(query.Get("status"))),
		Stage:  storage.Stage(strings.TrimSpace(query.Get("stage"))),
	}
	subs, err := s.service.List(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

func (s *server) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	sub, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func (s *server) handleAdminFile(w http.ResponseWriter, r *http.Request) {
	sub, rc, err := s.service.OpenManuscript(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer rc.Close()
	contentType := sub.Manuscript.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(sub.Manuscript.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sub.Manuscript.Name))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("http", "manuscript download interrupted", map[string]any{
			"id":    sub.ID,
			"error": err.Error(),
		})
	}
}

func (s *server) handleAdminReview(w http.ResponseWriter, r *http.Request) {
	var req manuscripts.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.ID = r.PathValue("id")
	result, err := s.service.Review(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *server) handleAdminAdvance(w http.ResponseWriter, r *http.Request) {
	sub, err := s.service.Advance(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func (s *server) handleAdminPublishers(w http.ResponseWriter, r *http.Request) {
	publishers, err := s.service.Publishers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"publishers": publishers})
}

func (s *server) handleAdminCreatePublisher(w http.ResponseWriter, r *http.Request) {
	var req manuscripts.PublisherRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	publisher, err := s.service.AddPublisher(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, publisher)
}

func (s *server) handleAdminCheckPublishers(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.CheckPublishers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

const (
	defaultLogLines = 100
	maxLogLines     = 1000
)

// handleAdminLog returns the tail of the log file. Query parameters: n (entry
// count), level (minimum level), logger, category and request_id.
func (s *server) handleAdminLog(w http.ResponseWriter, r *http.Request) {
	if s.logFile == "" {
		respondMessage(w, http.StatusNotFound, "file logging is disabled")
		return
	}
	query := r.URL.Query()
	filter := logging.TailFilter{
		Limit:     defaultLogLines,
		MinLevel:  logging.DEBUG,
		Logger:    strings.TrimSpace(query.Get("logger")),
		Category:  strings.TrimSpace(query.Get("category")),
		RequestID: strings.TrimSpace(query.Get("request_id")),
	}
	if n, err := strconv.Atoi(query.Get("n")); err == nil && n > 0 {
		filter.Limit = min(n, maxLogLines)
	}
	if raw := query.Get("level"); raw != "" {
		level, err := logging.ParseLevel(raw)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.MinLevel = level
	}
	entries, err := logging.Tail(s.logFile, filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxAdminBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
