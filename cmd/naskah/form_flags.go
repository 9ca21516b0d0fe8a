package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

// errInvalidForm makes check and submit exit non-zero after printing field errors.
var errInvalidForm = errors.New("naskah belum valid")

// formFlags holds the manuscript described on the command line.
type formFlags struct {
	publishers []string
	values     map[model.Field]*string
	file       string
}

func bindFormFlags(cmd *cobra.Command) *formFlags {
	f := &formFlags{values: make(map[model.Field]*string)}
	flags := cmd.Flags()
	flags.StringSliceVar(&f.publishers, "penerbit", nil, "publisher id, in priority order (repeat up to twice)")
	f.values[model.FieldTitle] = flags.String("judul", "", "manuscript title")
	f.values[model.FieldSynopsis] = flags.String("sinopsis", "", "synopsis")
	f.values[model.FieldCategory] = flags.String("kategori", "", "category")
	f.values[model.FieldReaderSegment] = flags.String("segmen", "", "reader segment")
	f.values[model.FieldAuthorName] = flags.String("nama", "", "author name")
	f.values[model.FieldNationalID] = flags.String("nik", "", "16-digit national id")
	f.values[model.FieldPhone] = flags.String("hp", "", "phone number")
	f.values[model.FieldEmail] = flags.String("email", "", "email address")
	f.values[model.FieldPromotionPlan] = flags.String("promosi", "", "promotion plan")
	flags.StringVar(&f.file, "file", "", "path to the manuscript PDF")
	return f
}

// wizard fills a wizard with the flag values and asks it to submit. The
// returned wizard is confirming when every step validates.
func (f *formFlags) wizard(publishers []wizard.Publisher) (wizard.Wizard, error) {
	values := make(map[model.Field]string, len(f.values))
	for field, v := range f.values {
		values[field] = *v
	}
	updates := []model.Update{
		model.SelectPublishers(f.publishers...),
		model.SetAll(values),
	}
	if strings.TrimSpace(f.file) != "" {
		upload, err := model.UploadFromPath(f.file)
		if err != nil {
			return wizard.Wizard{}, fmt.Errorf("manuscript file: %w", err)
		}
		updates = append(updates, model.Attach(upload))
	}
	w := wizard.New(publishers, "").Update(updates...)
	return w.RequestSubmit(), nil
}

// printErrors lists field errors grouped by step.
func printErrors(out io.Writer, errs model.Errors) {
	for _, step := range model.Steps {
		if !errs.HasStep(step) {
			continue
		}
		fmt.Fprintf(out, "Langkah %d - %s\n", step, step.Title())
		for _, field := range model.ErrorFields {
			owner, _ := model.StepOf(field)
			if owner != step {
				continue
			}
			if msg := errs.Message(field); msg != "" {
				fmt.Fprintf(out, "  %s: %s\n", field, msg)
			}
		}
	}
}
