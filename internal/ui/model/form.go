package model

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
)

// Step identifies one page of the manuscript submission wizard.
type Step int

const (
	StepPublishers Step = iota + 1
	StepManuscript
	StepAuthor
	StepPromotion
)

// Steps lists every wizard step in navigation order.
var Steps = []Step{StepPublishers, StepManuscript, StepAuthor, StepPromotion}

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepPublishers
	LastStep  = StepPromotion
)

// Valid reports whether s is one of the four wizard steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Title returns the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case StepPublishers:
		return "Pilih Penerbit"
	case StepManuscript:
		return "Detail Naskah"
	case StepAuthor:
		return "Data Penulis"
	case StepPromotion:
		return "Rencana Promosi"
	default:
		return ""
	}
}

// Field is the wire name of a form field, shared by the HTML form, the multipart
// submission endpoint and the JSON error payloads.
type Field string

const (
	FieldPublisher1    Field = "penerbit_1"
	FieldPublisher2    Field = "penerbit_2"
	FieldTitle         Field = "judul"
	FieldSynopsis      Field = "sinopsis"
	FieldCategory      Field = "kategori"
	FieldReaderSegment Field = "segmen_pembaca"
	FieldManuscript    Field = "file_naskah"
	FieldAuthorName    Field = "nama_penulis"
	FieldNationalID    Field = "nik"
	FieldPhone         Field = "no_hp"
	FieldEmail         Field = "email"
	FieldPromotionPlan Field = "rencana_promosi"
)

// TextFields lists the plain text fields in step order.
var TextFields = []Field{
	FieldTitle, FieldSynopsis, FieldCategory, FieldReaderSegment,
	FieldAuthorName, FieldNationalID, FieldPhone, FieldEmail,
	FieldPromotionPlan,
}

// Upload describes the manuscript file attached in step 2. Content holds small
// in-memory uploads; Path points at a staged file on disk.
type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Path        string `json:"-"`
	Content     []byte `json:"-"`
}

// ErrNoContent is returned by Open when the upload has neither bytes nor a path.
var ErrNoContent = errors.New("model: upload has no content")

// Open returns a reader over the upload bytes.
func (u *Upload) Open() (io.ReadCloser, error) {
	if u == nil {
		return nil, ErrNoContent
	}
	if u.Content != nil {
		return io.NopCloser(bytes.NewReader(u.Content)), nil
	}
	if strings.TrimSpace(u.Path) == "" {
		return nil, ErrNoContent
	}
	return os.Open(u.Path)
}

// FormState holds every field of the four wizard steps as one flat value.
// It is replaced, never mutated in place, on every user update.
type FormState struct {
	Publishers    Selection `json:"publishers"`
	Title         string    `json:"title"`
	Synopsis      string    `json:"synopsis"`
	Category      string    `json:"category"`
	ReaderSegment string    `json:"readerSegment"`
	Manuscript    *Upload   `json:"manuscript,omitempty"`
	AuthorName    string    `json:"authorName"`
	NationalID    string    `json:"nationalId"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	PromotionPlan string    `json:"promotionPlan"`
}

// Value returns the text value stored for field.
func (f FormState) Value(field Field) string {
	switch field {
	case FieldPublisher1:
		return f.Publishers.First()
	case FieldPublisher2:
		return f.Publishers.Second()
	case FieldTitle:
		return f.Title
	case FieldSynopsis:
		return f.Synopsis
	case FieldCategory:
		return f.Category
	case FieldReaderSegment:
		return f.ReaderSegment
	case FieldManuscript:
		if f.Manuscript != nil {
			return f.Manuscript.Filename
		}
		return ""
	case FieldAuthorName:
		return f.AuthorName
	case FieldNationalID:
		return f.NationalID
	case FieldPhone:
		return f.Phone
	case FieldEmail:
		return f.Email
	case FieldPromotionPlan:
		return f.PromotionPlan
	default:
		return ""
	}
}

// StepOf returns the wizard step that owns field.
func StepOf(field Field) (Step, bool) {
	switch field {
	case FieldPublisher1, FieldPublisher2:
		return StepPublishers, true
	case FieldTitle, FieldSynopsis, FieldCategory, FieldReaderSegment, FieldManuscript:
		return StepManuscript, true
	case FieldAuthorName, FieldNationalID, FieldPhone, FieldEmail:
		return StepAuthor, true
	case FieldPromotionPlan:
		return StepPromotion, true
	default:
		return 0, false
	}
}
