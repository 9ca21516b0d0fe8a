package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

const (
	wizardPath      = "/naskah/kirim"
	multipartMemory = 1 << 20
	submitTimeout   = 30 * time.Second

	msgSubmissionInFlight = "Naskah sedang dikirim. Mohon tunggu."
	msgPublishersDown     = "Daftar penerbit tidak dapat dimuat. Muat ulang halaman."
)

// Wizard form actions.
const (
	actionNext            = "next"
	actionBack            = "back"
	actionGoTo            = "goto"
	actionTogglePublisher = "toggle_publisher"
	actionSubmit          = "submit"
	actionConfirm         = "confirm"
	actionCancel          = "cancel"
	actionRestart         = "restart"
	actionDismiss         = "dismiss"
	actionSave            = "save"
)

func (s *server) handleWizard(w http.ResponseWriter, r *http.Request) {
	publishers, pubErr := s.loadPublishers(r.Context())
	query := r.URL.Query()
	if query.Get("terkirim") == "1" {
		s.renderWizard(w, wizard.New(publishers, query.Get("pesan")), pubErr, http.StatusOK)
		return
	}
	_, wiz := s.session(w, r, publishers, pubErr)
	s.renderWizard(w, wiz, pubErr, http.StatusOK)
}

func (s *server) handleWizardAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	publishers, pubErr := s.loadPublishers(r.Context())
	id, wiz := s.session(w, r, publishers, pubErr)

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			wiz.Errors = wiz.Errors.WithMessage(model.FieldManuscript, forms.MsgFileTooLarge)
			s.renderWizard(w, wiz, pubErr, http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if wiz.Phase == wizard.PhaseEditing {
		upload, err := s.stageUpload(r)
		if err != nil {
			s.logger.Error("wizard", "stage upload", err, nil)
			http.Error(w, "could not store upload", http.StatusInternalServerError)
			return
		}
		wiz = wiz.Update(textUpdates(r), model.Attach(upload))
	}

	action, arg := parseAction(r.FormValue("action"))
	status := http.StatusOK
	switch action {
	case actionNext:
		from := wiz.Step
		wiz = wiz.Next()
		if wiz.Step == from && wiz.Errors.HasStep(from) {
			status = http.StatusUnprocessableEntity
		}
	case actionBack:
		wiz = wiz.Back()
	case actionGoTo:
		step, _ := strconv.Atoi(arg)
		if next, err := wiz.GoTo(model.Step(step)); err == nil {
			wiz = next
		} else if errors.Is(err, wizard.ErrStepGated) {
			status = http.StatusConflict
		}
	case actionTogglePublisher:
		wiz = wiz.Update(model.TogglePublisher(arg))
	case actionSubmit:
		wiz = wiz.RequestSubmit()
		if wiz.Phase == wizard.PhaseEditing {
			status = http.StatusUnprocessableEntity
		}
	case actionConfirm:
		s.confirmSubmission(w, r, id, pubErr)
		return
	case actionCancel:
		wiz = wiz.Cancel()
	case actionRestart:
		wiz = wiz.Restart()
	case actionDismiss:
		wiz = wiz.Dismiss()
	case actionSave, "":
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if err := s.sessions.save(id, wiz); err != nil {
		current, _ := s.sessions.load(id)
		current.Alert = msgSubmissionInFlight
		s.renderWizard(w, current, pubErr, http.StatusConflict)
		return
	}
	s.renderWizard(w, wiz, pubErr, status)
}

// confirmSubmission sends the session's form to the manuscripts service. A
// successful submission redirects so a reload cannot post it twice.
func (s *server) confirmSubmission(w http.ResponseWriter, r *http.Request, id string, pubErr error) {
	prev, err := s.sessions.claim(id)
	if err != nil {
		if errors.Is(err, wizard.ErrSubmissionInFlight) {
			prev.Alert = msgSubmissionInFlight
		}
		s.renderWizard(w, prev, pubErr, http.StatusConflict)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), submitTimeout)
	defer cancel()
	next, err := s.orch.Submit(ctx, prev)
	if err == nil && next.Receipt != nil {
		message := next.Receipt.Message
		s.sessions.release(id, next.Restart())
		http.Redirect(w, r, wizardPath+"?terkirim=1&pesan="+url.QueryEscape(message), http.StatusSeeOther)
		return
	}

	s.sessions.release(id, next)
	status := http.StatusBadGateway
	var rejected *wizard.RejectedError
	if errors.As(err, &rejected) {
		status = http.StatusUnprocessableEntity
	}
	s.renderWizard(w, next, pubErr, status)
}

// session returns the wizard bound to the request's cookie, opening a new one
// when the cookie is missing or stale. The publisher list is refreshed on
// every request.
func (s *server) session(w http.ResponseWriter, r *http.Request, publishers []wizard.Publisher, pubErr error) (string, wizard.Wizard) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if wiz, ok := s.sessions.load(cookie.Value); ok {
			if pubErr == nil {
				wiz.Publishers = publishers
			}
			return cookie.Value, wiz
		}
	}
	wiz := wizard.New(publishers, "")
	id := s.sessions.create(wiz)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     wizardPath,
		MaxAge:   int(s.sessions.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, wiz
}

func (s *server) loadPublishers(ctx context.Context) ([]wizard.Publisher, error) {
	publishers, err := s.service.WizardPublishers(ctx)
	if err != nil {
		s.logger.Error("wizard", "load publishers", err, nil)
		return nil, err
	}
	return publishers, nil
}

func (s *server) renderWizard(w http.ResponseWriter, wiz wizard.Wizard, pubErr error, status int) {
	data := buildWizardPage(s.siteName, wiz)
	if pubErr != nil {
		data.PublishersError = msgPublishersDown
	}
	var buf bytes.Buffer
	if err := s.templates["wizard"].ExecuteTemplate(&buf, "page", data); err != nil {
		s.logger.Error("wizard", "render wizard", err, nil)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// stageUpload saves the manuscript part of r into the staging directory. It
// returns nil when the request carries no file.
func (s *server) stageUpload(r *http.Request) (*model.Upload, error) {
	file, header, err := r.FormFile(string(model.FieldManuscript))
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if strings.TrimSpace(header.Filename) == "" {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	ref, err := s.staging.Save(file, header.Filename, contentType)
	if err != nil {
		return nil, err
	}
	path, err := s.staging.Path(ref)
	if err != nil {
		return nil, err
	}
	return &model.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        ref.Size,
		Path:        path,
	}, nil
}

// textUpdates stores the text fields present in the request. Fields the
// current step does not post keep their session values.
func textUpdates(r *http.Request) model.Update {
	values := make(map[model.Field]string)
	for _, field := range model.TextFields {
		if _, ok := r.Form[string(field)]; ok {
			values[field] = r.Form.Get(string(field))
		}
	}
	return model.SetAll(values)
}

// parseAction splits "goto:3" style button values.
func parseAction(raw string) (string, string) {
	action, arg, _ := strings.Cut(strings.TrimSpace(raw), ":")
	return strings.ToLower(action), strings.TrimSpace(arg)
}
