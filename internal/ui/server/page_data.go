package server

import (
	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

type stepLink struct {
	Number     int
	Title      string
	Current    bool
	Accessible bool
	Invalid    bool
}

type publisherOption struct {
	ID       string
	Name     string
	Priority int
	Disabled bool
}

type wizardPageData struct {
	SiteName        string
	Title           string
	Form            model.FormState
	Errors          model.Errors
	Alert           string
	Step            int
	StepTitle       string
	Steps           []stepLink
	Publishers      []publisherOption
	PublishersError string
	Categories      []forms.Option
	Segments        []forms.Option
	MaxFileSize     string
	IsFirst         bool
	IsLast          bool
	Editing         bool
	Confirming      bool
	Submitting      bool
	Succeeded       bool
	Summary         wizard.Summary
	Receipt         *wizard.Receipt
}

func buildWizardPage(siteName string, w wizard.Wizard) wizardPageData {
	data := wizardPageData{
		SiteName:    siteName,
		Title:       "Kirim Naskah · " + siteName,
		Form:        w.Form,
		Errors:      w.Errors,
		Alert:       w.Alert,
		Step:        int(w.Step),
		StepTitle:   w.Step.Title(),
		Categories:  forms.CategoryOptions,
		Segments:    forms.SegmentOptions,
		MaxFileSize: forms.FormatBytes(forms.MaxManuscriptBytes),
		IsFirst:     w.Step == model.FirstStep,
		IsLast:      w.Step == model.LastStep,
		Editing:     w.Phase == wizard.PhaseEditing,
		Confirming:  w.Phase == wizard.PhaseConfirming,
		Submitting:  w.Phase == wizard.PhaseSubmitting,
		Succeeded:   w.Phase == wizard.PhaseSucceeded,
		Receipt:     w.Receipt,
	}

	accessible := w.Accessible()
	for _, step := range model.Steps {
		data.Steps = append(data.Steps, stepLink{
			Number:     int(step),
			Title:      step.Title(),
			Current:    step == w.Step,
			Accessible: accessible[step],
			Invalid:    w.Errors.HasStep(step),
		})
	}

	selection := w.Form.Publishers
	for _, p := range w.Publishers {
		priority := selection.Priority(p.ID)
		data.Publishers = append(data.Publishers, publisherOption{
			ID:       p.ID,
			Name:     p.Name,
			Priority: priority,
			Disabled: priority == 0 && selection.Full(),
		})
	}

	if data.Confirming || data.Submitting {
		data.Summary = w.Summary()
	}
	return data
}
