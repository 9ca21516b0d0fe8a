package model

import "strings"

// Update transforms one FormState snapshot into the next.
type Update func(FormState) FormState

// Apply runs updates in order and returns the resulting snapshot.
func Apply(state FormState, updates ...Update) FormState {
	for _, update := range updates {
		if update != nil {
			state = update(state)
		}
	}
	return state
}

// Set stores value for a text field. Publisher slots and the upload are not
// text fields; use TogglePublisher and Attach for those.
func Set(field Field, value string) Update {
	return func(s FormState) FormState {
		switch field {
		case FieldTitle:
			s.Title = value
		case FieldSynopsis:
			s.Synopsis = value
		case FieldCategory:
			s.Category = value
		case FieldReaderSegment:
			s.ReaderSegment = value
		case FieldAuthorName:
			s.AuthorName = value
		case FieldNationalID:
			s.NationalID = value
		case FieldPhone:
			s.Phone = value
		case FieldEmail:
			s.Email = value
		case FieldPromotionPlan:
			s.PromotionPlan = value
		}
		return s
	}
}

// SetAll stores every known text field present in values.
func SetAll(values map[Field]string) Update {
	return func(s FormState) FormState {
		for _, field := range TextFields {
			if v, ok := values[field]; ok {
				s = Set(field, v)(s)
			}
		}
		return s
	}
}

// TogglePublisher flips the selection state of a publisher id.
func TogglePublisher(id string) Update {
	return func(s FormState) FormState {
		s.Publishers = s.Publishers.Toggle(id)
		return s
	}
}

// SelectPublishers replaces the selection with ids in priority order.
func SelectPublishers(ids ...string) Update {
	return func(s FormState) FormState {
		s.Publishers = NewSelection(ids...)
		return s
	}
}

// Attach sets the manuscript upload. A nil upload leaves the state unchanged.
func Attach(upload *Upload) Update {
	return func(s FormState) FormState {
		if upload == nil {
			return s
		}
		u := *upload
		u.Filename = strings.TrimSpace(u.Filename)
		s.Manuscript = &u
		return s
	}
}

// Detach removes the manuscript upload.
func Detach() Update {
	return func(s FormState) FormState {
		s.Manuscript = nil
		return s
	}
}

// Reset returns the empty form.
func Reset() FormState {
	return FormState{}
}
