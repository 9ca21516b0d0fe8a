package model

// Step1Errors holds validation messages for the publisher step.
type Step1Errors struct {
	Publishers string
}

// Step2Errors holds validation messages for the manuscript details step.
type Step2Errors struct {
	Title         string
	Synopsis      string
	Category      string
	ReaderSegment string
	Manuscript    string
}

// Step3Errors holds validation messages for the author step.
type Step3Errors struct {
	AuthorName string
	NationalID string
	Phone      string
	Email      string
}

// Step4Errors holds validation messages for the promotion step.
type Step4Errors struct {
	PromotionPlan string
}

// Errors groups the per-step validation records of the wizard. An empty
// message means the field is valid.
type Errors struct {
	Step1 Step1Errors
	Step2 Step2Errors
	Step3 Step3Errors
	Step4 Step4Errors
}

// Empty reports whether no step carries a message.
func (e Errors) Empty() bool {
	return e == Errors{}
}

// HasStep reports whether step carries at least one message.
func (e Errors) HasStep(step Step) bool {
	switch step {
	case StepPublishers:
		return e.Step1 != Step1Errors{}
	case StepManuscript:
		return e.Step2 != Step2Errors{}
	case StepAuthor:
		return e.Step3 != Step3Errors{}
	case StepPromotion:
		return e.Step4 != Step4Errors{}
	default:
		return false
	}
}

// FirstInvalid returns the earliest step, in step order, that has an error.
func (e Errors) FirstInvalid() (Step, bool) {
	for _, step := range Steps {
		if e.HasStep(step) {
			return step, true
		}
	}
	return 0, false
}

// WithStep returns a copy of e whose record for step is replaced by the one in from.
// Other steps are left untouched.
func (e Errors) WithStep(step Step, from Errors) Errors {
	switch step {
	case StepPublishers:
		e.Step1 = from.Step1
	case StepManuscript:
		e.Step2 = from.Step2
	case StepAuthor:
		e.Step3 = from.Step3
	case StepPromotion:
		e.Step4 = from.Step4
	}
	return e
}

// Message returns the message stored for field.
func (e Errors) Message(field Field) string {
	switch field {
	case FieldPublisher1, FieldPublisher2:
		return e.Step1.Publishers
	case FieldTitle:
		return e.Step2.Title
	case FieldSynopsis:
		return e.Step2.Synopsis
	case FieldCategory:
		return e.Step2.Category
	case FieldReaderSegment:
		return e.Step2.ReaderSegment
	case FieldManuscript:
		return e.Step2.Manuscript
	case FieldAuthorName:
		return e.Step3.AuthorName
	case FieldNationalID:
		return e.Step3.NationalID
	case FieldPhone:
		return e.Step3.Phone
	case FieldEmail:
		return e.Step3.Email
	case FieldPromotionPlan:
		return e.Step4.PromotionPlan
	default:
		return ""
	}
}

// WithMessage returns a copy of e with msg stored for field. Unknown fields are ignored.
func (e Errors) WithMessage(field Field, msg string) Errors {
	switch field {
	case FieldPublisher1, FieldPublisher2:
		e.Step1.Publishers = msg
	case FieldTitle:
		e.Step2.Title = msg
	case FieldSynopsis:
		e.Step2.Synopsis = msg
	case FieldCategory:
		e.Step2.Category = msg
	case FieldReaderSegment:
		e.Step2.ReaderSegment = msg
	case FieldManuscript:
		e.Step2.Manuscript = msg
	case FieldAuthorName:
		e.Step3.AuthorName = msg
	case FieldNationalID:
		e.Step3.NationalID = msg
	case FieldPhone:
		e.Step3.Phone = msg
	case FieldEmail:
		e.Step3.Email = msg
	case FieldPromotionPlan:
		e.Step4.PromotionPlan = msg
	}
	return e
}

// ErrorFields lists the fields that carry error messages, in step order.
var ErrorFields = []Field{
	FieldPublisher1,
	FieldTitle, FieldSynopsis, FieldCategory, FieldReaderSegment, FieldManuscript,
	FieldAuthorName, FieldNationalID, FieldPhone, FieldEmail,
	FieldPromotionPlan,
}

// Fields flattens e into a wire-name keyed map. Publisher errors are reported
// under penerbit_1.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string)
	for _, field := range ErrorFields {
		if msg := e.Message(field); msg != "" {
			out[string(field)] = msg
		}
	}
	return out
}

// FieldErrors rebuilds an Errors value from a wire-name keyed map. Keys that
// do not name a wizard field are returned separately.
func FieldErrors(fields map[string]string) (Errors, map[string]string) {
	var errs Errors
	var unknown map[string]string
	for key, msg := range fields {
		field := Field(key)
		if _, ok := StepOf(field); !ok {
			if unknown == nil {
				unknown = make(map[string]string)
			}
			unknown[key] = msg
			continue
		}
		errs = errs.WithMessage(field, msg)
	}
	return errs, unknown
}
