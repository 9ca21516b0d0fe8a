package forms

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/penerbit-id/naskah/internal/ui/model"
)

func validForm() model.FormState {
	return model.FormState{
		Publishers:    model.NewSelection("1"),
		Title:         "Judul X",
		Synopsis:      "S",
		Category:      "Fiksi",
		ReaderSegment: "dewasa",
		Manuscript: &model.Upload{
			Filename:    "naskah.pdf",
			ContentType: "application/pdf",
			Size:        2048,
		},
		AuthorName:    "Budi",
		NationalID:    "1111111111111111",
		Phone:         "081234567890",
		Email:         "budi@mail.com",
		PromotionPlan: "Promo plan",
	}
}

func TestValidateAllAcceptsCompleteForm(t *testing.T) {
	if errs := ValidateAll(validForm()); !errs.Empty() {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestValidateAllFlagsEmptyForm(t *testing.T) {
	got := ValidateAll(model.FormState{})
	want := model.Errors{
		Step1: model.Step1Errors{Publishers: MsgPublisherRequired},
		Step2: model.Step2Errors{
			Title:         MsgTitleRequired,
			Synopsis:      MsgSynopsisRequired,
			Category:      MsgCategoryRequired,
			ReaderSegment: MsgSegmentRequired,
			Manuscript:    MsgFileRequired,
		},
		Step3: model.Step3Errors{
			AuthorName: MsgAuthorRequired,
			NationalID: MsgNationalIDInvalid,
			Phone:      MsgPhoneInvalid,
			Email:      MsgEmailInvalid,
		},
		Step4: model.Step4Errors{PromotionPlan: MsgPromotionRequired},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateStepOnlyReportsItsOwnStep(t *testing.T) {
	errs := ValidateStep(model.FormState{}, model.StepAuthor)
	if errs.HasStep(model.StepPublishers) || errs.HasStep(model.StepManuscript) || errs.HasStep(model.StepPromotion) {
		t.Fatalf("expected only step 3 keys, got %+v", errs)
	}
	if !errs.HasStep(model.StepAuthor) {
		t.Fatalf("expected step 3 errors")
	}
}

func TestValidateStepIsDeterministic(t *testing.T) {
	form := validForm()
	form.Email = "broken"
	form.Title = "  "
	for _, step := range model.Steps {
		first := ValidateStep(form, step)
		second := ValidateStep(form, step)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("step %d not deterministic:\n%s", step, diff)
		}
	}
}

func TestNationalIDValidation(t *testing.T) {
	cases := map[string]bool{
		"1234567890123456":    true,
		"123":                 false,
		"1234-5678-9012-3456": true,
		"12345678901234567":   false,
		"abcd":                false,
	}
	for input, ok := range cases {
		form := validForm()
		form.NationalID = input
		errs := ValidateStep(form, model.StepAuthor)
		if (errs.Step3.NationalID == "") != ok {
			t.Fatalf("nik %q: expected valid=%v, got %+v", input, ok, errs.Step3)
		}
	}
}

func TestEmailValidation(t *testing.T) {
	cases := map[string]bool{
		"a@b.co":        true,
		"a@b":           false,
		"not-an-email":  false,
		"budi@mail.com": true,
		"a b@c.d":       false,
	}
	for input, ok := range cases {
		if got := ValidEmail(input); got != ok {
			t.Fatalf("email %q: expected %v, got %v", input, ok, got)
		}
	}
}

func TestPhoneValidationStripsSeparators(t *testing.T) {
	form := validForm()
	form.Phone = "+62 812-3456"
	if errs := ValidateStep(form, model.StepAuthor); errs.Step3.Phone != "" {
		t.Fatalf("expected 9 digits to pass, got %q", errs.Step3.Phone)
	}
	form.Phone = "0812-345"
	if errs := ValidateStep(form, model.StepAuthor); errs.Step3.Phone == "" {
		t.Fatalf("expected short phone to fail")
	}
}

func TestManuscriptUploadRules(t *testing.T) {
	cases := []struct {
		name   string
		upload *model.Upload
		want   string
	}{
		{"missing", nil, MsgFileRequired},
		{"pdf content type", &model.Upload{Filename: "draft", ContentType: "application/pdf", Size: 10}, ""},
		{"pdf extension", &model.Upload{Filename: "DRAFT.PDF", ContentType: "application/octet-stream", Size: 10}, ""},
		{"docx", &model.Upload{Filename: "draft.docx", ContentType: "application/msword", Size: 10}, MsgFileNotPDF},
		{"exactly 50 MiB", &model.Upload{Filename: "a.pdf", Size: MaxManuscriptBytes}, ""},
		{"over 50 MiB", &model.Upload{Filename: "a.pdf", Size: MaxManuscriptBytes + 1}, MsgFileTooLarge},
		{"empty", &model.Upload{Filename: "a.pdf", Size: 0}, MsgFileEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Manuscript = tc.upload
			got := ValidateStep(form, model.StepManuscript).Step2.Manuscript
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPublisherValidationNeverPanicsOnNonNumericIDs(t *testing.T) {
	form := validForm()
	form.Publishers = model.Selection{"abc", ""}
	errs := ValidateStep(form, model.StepPublishers)
	if errs.Step1.Publishers != MsgPublisherInvalid {
		t.Fatalf("expected invalid publisher message, got %q", errs.Step1.Publishers)
	}

	form.Publishers = model.Selection{"", "2"}
	if errs := ValidateStep(form, model.StepPublishers); errs.Step1.Publishers != MsgPublisherInvalid {
		t.Fatalf("expected empty priority 1 slot to be rejected, got %q", errs.Step1.Publishers)
	}

	form.Publishers = model.Selection{"2", "2"}
	if errs := ValidateStep(form, model.StepPublishers); errs.Step1.Publishers != MsgPublisherInvalid {
		t.Fatalf("expected duplicate slot to be rejected, got %q", errs.Step1.Publishers)
	}

	form.Publishers = model.NewSelection("3", "7")
	if errs := ValidateStep(form, model.StepPublishers); errs.HasStep(model.StepPublishers) {
		t.Fatalf("expected two publishers to pass, got %+v", errs.Step1)
	}
}

func TestWhitespaceOnlyTextIsBlank(t *testing.T) {
	form := validForm()
	form.PromotionPlan = strings.Repeat(" ", 4)
	if StepValid(form, model.StepPromotion) {
		t.Fatalf("expected whitespace promotion plan to fail")
	}
}
