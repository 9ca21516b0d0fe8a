package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindArea
	kindChoice
	kindFile
)

type fieldSpec struct {
	field       model.Field
	label       string
	kind        fieldKind
	options     []forms.Option
	placeholder string
}

// stepFields lists the focusable inputs of each step in tab order. Step 1 is
// the publisher list and has none.
var stepFields = map[model.Step][]fieldSpec{
	model.StepManuscript: {
		{field: model.FieldTitle, label: "Judul", kind: kindText, placeholder: "Judul naskah"},
		{field: model.FieldSynopsis, label: "Sinopsis", kind: kindArea, placeholder: "Ringkasan isi naskah"},
		{field: model.FieldCategory, label: "Kategori", kind: kindChoice, options: forms.CategoryOptions},
		{field: model.FieldReaderSegment, label: "Segmen pembaca", kind: kindChoice, options: forms.SegmentOptions},
		{field: model.FieldManuscript, label: "File naskah (PDF)", kind: kindFile, placeholder: "/path/ke/naskah.pdf"},
	},
	model.StepAuthor: {
		{field: model.FieldAuthorName, label: "Nama penulis", kind: kindText},
		{field: model.FieldNationalID, label: "NIK", kind: kindText, placeholder: "16 digit"},
		{field: model.FieldPhone, label: "No. HP", kind: kindText, placeholder: "08xxxxxxxxxx"},
		{field: model.FieldEmail, label: "Email", kind: kindText, placeholder: "nama@contoh.com"},
	},
	model.StepPromotion: {
		{field: model.FieldPromotionPlan, label: "Rencana promosi", kind: kindArea, placeholder: "Bagaimana Anda akan mempromosikan buku ini?"},
	},
}

// inspectFile describes the manuscript at path, expanding a leading ~.
func inspectFile(path string) (*model.Upload, error) {
	return model.UploadFromPath(expandHome(strings.TrimSpace(path)))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// cycleOption returns the option value delta positions away from current.
func cycleOption(options []forms.Option, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, option := range options {
		if option.Value == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			return options[len(options)-1].Value
		}
		return options[0].Value
	}
	idx = (idx + delta + len(options)) % len(options)
	return options[idx].Value
}
