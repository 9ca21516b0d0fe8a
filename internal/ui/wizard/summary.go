package wizard

import "github.com/penerbit-id/naskah/internal/ui/forms"

// Summary is the content of the confirmation dialog.
type Summary struct {
	Title          string
	PublisherCount int
	PublisherNames []string
	Category       string
	ReaderSegment  string
	FileName       string
	FileSize       string
	AuthorName     string
	Email          string
}

// Summary describes the form as it will be submitted.
func (w Wizard) Summary() Summary {
	ids := w.Form.Publishers.IDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := w.PublisherName(id)
		if name == "" {
			name = id
		}
		names = append(names, name)
	}
	s := Summary{
		Title:          w.Form.Title,
		PublisherCount: len(ids),
		PublisherNames: names,
		Category:       w.Form.Category,
		ReaderSegment:  w.Form.ReaderSegment,
		AuthorName:     w.Form.AuthorName,
		Email:          w.Form.Email,
	}
	if up := w.Form.Manuscript; up != nil {
		s.FileName = up.Filename
		s.FileSize = forms.FormatBytes(up.Size)
	}
	return s
}
