package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/penerbit-id/naskah/internal/ui/model"
)

func (s *server) handlePublishers(w http.ResponseWriter, r *http.Request) {
	publishers, err := s.service.WizardPublishers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"publishers": publishers})
}

// handleSubmitManuscript is the multipart submission endpoint used by the
// terminal wizard and any other client.
func (s *server) handleSubmitManuscript(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, err)
			return
		}
		respondMessage(w, http.StatusBadRequest, "permintaan harus berupa multipart/form-data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	upload, err := s.stageUpload(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if upload != nil {
		defer s.sessions.discard(upload.Path)
	}

	form := model.Apply(model.FormState{},
		selectPublishers(r.FormValue(string(model.FieldPublisher1)), r.FormValue(string(model.FieldPublisher2))),
		textUpdates(r),
		model.Attach(upload),
	)

	ctx, cancel := context.WithTimeout(r.Context(), submitTimeout)
	defer cancel()
	receipt, err := s.service.Submit(ctx, form)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

// selectPublishers keeps the two posted slots as sent so the validator can
// report empty or duplicate priorities.
func selectPublishers(first, second string) model.Update {
	return func(f model.FormState) model.FormState {
		f.Publishers = model.Selection{strings.TrimSpace(first), strings.TrimSpace(second)}
		return f
	}
}
