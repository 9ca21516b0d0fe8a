package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/penerbit-id/naskah/internal/manuscripts"
	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
	"github.com/penerbit-id/naskah/logging"
)

// Defaults used when Options leave a field empty.
const (
	DefaultListen     = "127.0.0.1:8080"
	DefaultDataDir    = "data"
	DefaultSiteName   = "Penerbit Naskah"
	DefaultSessionTTL = 2 * time.Hour
	// DefaultMaxUploadBytes leaves room for the text fields and multipart framing
	// around a manuscript of the largest accepted size.
	DefaultMaxUploadBytes = forms.MaxManuscriptBytes + 1<<20
)

func applyDefaults(opts Options) Options {
	if strings.TrimSpace(opts.Listen) == "" {
		opts.Listen = DefaultListen
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = DefaultDataDir
	}
	if strings.TrimSpace(opts.SiteName) == "" {
		opts.SiteName = DefaultSiteName
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return opts
}

type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Message: msg})
}

// respondError maps service errors onto HTTP status codes.
func (s *server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var rejected *wizard.RejectedError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &rejected):
		respondRejected(w, rejected)
	case errors.As(err, &tooLarge):
		respondMessage(w, http.StatusRequestEntityTooLarge, forms.MsgFileTooLarge)
	case errors.Is(err, storage.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "naskah tidak ditemukan")
	case errors.Is(err, manuscripts.ErrMissingIdentifier),
		errors.Is(err, manuscripts.ErrInvalidAction),
		errors.Is(err, manuscripts.ErrPublisherName):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, manuscripts.ErrAlreadyReviewed),
		errors.Is(err, manuscripts.ErrNotApproved),
		errors.Is(err, manuscripts.ErrFinalStage):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, manuscripts.ErrNoMetadata):
		respondMessage(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.WithRequestID(logging.RequestIDFromContext(r.Context())).
			WithCategory("http").
			WithFields(map[string]any{"method": r.Method, "path": r.URL.Path}).
			Error("request failed", err)
		respondMessage(w, http.StatusInternalServerError, "terjadi kesalahan pada server")
	}
}

type rejectionResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Step    int               `json:"step,omitempty"`
}

func respondRejected(w http.ResponseWriter, rejected *wizard.RejectedError) {
	resp := rejectionResponse{Message: rejected.Message, Errors: rejected.Fields}
	if step, ok := rejected.Errors().FirstInvalid(); ok {
		resp.Step = int(step)
	}
	respondJSON(w, http.StatusUnprocessableEntity, resp)
}

func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
