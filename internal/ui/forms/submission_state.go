package forms

import "github.com/penerbit-id/naskah/internal/ui/model"

// CanNavigate reports whether the wizard may move from current to target.
// Going back or staying put is always allowed. Going forward requires every
// step before target to validate against the form as it is now, so a step
// edited into an invalid state gates everything after it again.
func CanNavigate(form model.FormState, current, target model.Step) bool {
	if !target.Valid() {
		return false
	}
	if target <= current {
		return true
	}
	for step := model.FirstStep; step < target; step++ {
		// each probe validates into its own record; nothing reaches the
		// errors the wizard displays
		if !StepValid(form, step) {
			return false
		}
	}
	return true
}

// Accessible returns the navigability of every step, keyed by step.
func Accessible(form model.FormState, current model.Step) map[model.Step]bool {
	out := make(map[model.Step]bool, len(model.Steps))
	for _, step := range model.Steps {
		out[step] = CanNavigate(form, current, step)
	}
	return out
}
