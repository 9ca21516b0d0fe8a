package forms

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/penerbit-id/naskah/internal/ui/model"
)

const (
	// MaxManuscriptBytes caps the manuscript upload at 50 MiB.
	MaxManuscriptBytes int64 = 50 << 20
	// NationalIDDigits is the length of an Indonesian NIK.
	NationalIDDigits = 16
	// MinPhoneDigits is the shortest accepted phone number.
	MinPhoneDigits = 9
)

// Messages shown next to invalid fields.
const (
	MsgPublisherRequired = "Pilih minimal satu penerbit."
	MsgPublisherTooMany  = "Maksimal dua penerbit."
	MsgPublisherInvalid  = "Pilihan penerbit tidak valid."
	MsgTitleRequired     = "Judul naskah wajib diisi."
	MsgSynopsisRequired  = "Sinopsis wajib diisi."
	MsgCategoryRequired  = "Kategori wajib dipilih."
	MsgSegmentRequired   = "Segmen pembaca wajib dipilih."
	MsgFileRequired      = "File naskah (PDF) wajib diunggah."
	MsgFileNotPDF        = "File naskah harus berformat PDF."
	MsgFileTooLarge      = "Ukuran file maksimal 50 MB."
	MsgFileEmpty         = "File naskah kosong."
	MsgAuthorRequired    = "Nama penulis wajib diisi."
	MsgNationalIDInvalid = "NIK harus terdiri dari 16 digit."
	MsgPhoneInvalid      = "Nomor HP minimal 9 digit."
	MsgEmailInvalid      = "Format email tidak valid."
	MsgPromotionRequired = "Rencana promosi wajib diisi."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateStep checks the fields owned by step and returns an Errors value that
// only carries that step's record. It never mutates form and always validates
// from scratch.
func ValidateStep(form model.FormState, step model.Step) model.Errors {
	var errs model.Errors
	switch step {
	case model.StepPublishers:
		errs.Step1 = validatePublishers(form.Publishers)
	case model.StepManuscript:
		errs.Step2 = validateManuscript(form)
	case model.StepAuthor:
		errs.Step3 = validateAuthor(form)
	case model.StepPromotion:
		if blank(form.PromotionPlan) {
			errs.Step4.PromotionPlan = MsgPromotionRequired
		}
	}
	return errs
}

// ValidateAll rebuilds the full error record for every step.
func ValidateAll(form model.FormState) model.Errors {
	var errs model.Errors
	for _, step := range model.Steps {
		errs = errs.WithStep(step, ValidateStep(form, step))
	}
	return errs
}

// StepValid reports whether step validates cleanly against form.
func StepValid(form model.FormState, step model.Step) bool {
	return !ValidateStep(form, step).HasStep(step)
}

func validatePublishers(sel model.Selection) model.Step1Errors {
	var errs model.Step1Errors
	ids := sel.IDs()
	switch {
	case len(ids) == 0:
		errs.Publishers = MsgPublisherRequired
		return errs
	case len(ids) > model.MaxPublishers:
		errs.Publishers = MsgPublisherTooMany
		return errs
	}
	if sel.First() == "" || sel.First() == sel.Second() {
		errs.Publishers = MsgPublisherInvalid
		return errs
	}
	for _, id := range ids {
		if _, ok := ParsePublisherID(id); !ok {
			errs.Publishers = MsgPublisherInvalid
			return errs
		}
	}
	return errs
}

func validateManuscript(form model.FormState) model.Step2Errors {
	var errs model.Step2Errors
	if blank(form.Title) {
		errs.Title = MsgTitleRequired
	}
	if blank(form.Synopsis) {
		errs.Synopsis = MsgSynopsisRequired
	}
	if blank(form.Category) {
		errs.Category = MsgCategoryRequired
	}
	if blank(form.ReaderSegment) {
		errs.ReaderSegment = MsgSegmentRequired
	}
	errs.Manuscript = validateUpload(form.Manuscript)
	return errs
}

func validateUpload(u *model.Upload) string {
	switch {
	case u == nil || blank(u.Filename):
		return MsgFileRequired
	case !IsPDF(u.Filename, u.ContentType):
		return MsgFileNotPDF
	case u.Size > MaxManuscriptBytes:
		return MsgFileTooLarge
	case u.Size <= 0:
		return MsgFileEmpty
	default:
		return ""
	}
}

func validateAuthor(form model.FormState) model.Step3Errors {
	var errs model.Step3Errors
	if blank(form.AuthorName) {
		errs.AuthorName = MsgAuthorRequired
	}
	if len(Digits(form.NationalID)) != NationalIDDigits {
		errs.NationalID = MsgNationalIDInvalid
	}
	if len(Digits(form.Phone)) < MinPhoneDigits {
		errs.Phone = MsgPhoneInvalid
	}
	if !ValidEmail(form.Email) {
		errs.Email = MsgEmailInvalid
	}
	return errs
}

// IsPDF accepts a PDF content type or a .pdf extension.
func IsPDF(filename, contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), ".pdf")
}

// ValidEmail applies the simple local@domain.tld check.
func ValidEmail(raw string) bool {
	return emailPattern.MatchString(strings.TrimSpace(raw))
}

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePublisherID converts a form value into a positive publisher id.
// Non-numeric input reports false instead of failing.
func ParsePublisherID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
