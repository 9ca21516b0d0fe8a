package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"

	"github.com/penerbit-id/naskah/internal/ui/forms"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// loadTemplates parses the page templates. An empty dir uses the copies
// compiled into the binary.
func loadTemplates(dir string) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"join":          strings.Join,
		"categoryLabel": func(v string) string { return forms.DisplayOption(forms.CategoryOptions, v) },
		"segmentLabel":  func(v string) string { return forms.DisplayOption(forms.SegmentOptions, v) },
		"formatBytes":   forms.FormatBytes,
	}

	var files fs.FS = embeddedTemplates
	base, wizardPage := "templates/base.tmpl", "templates/wizard.tmpl"
	if strings.TrimSpace(dir) != "" {
		files = os.DirFS(dir)
		base, wizardPage = "base.tmpl", "wizard.tmpl"
	}

	wizardTmpl, err := template.New("wizard").Funcs(funcs).ParseFS(files, base, wizardPage)
	if err != nil {
		return nil, fmt.Errorf("parse wizard templates: %w", err)
	}
	return map[string]*template.Template{
		"wizard": wizardTmpl,
	}, nil
}
