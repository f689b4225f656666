package signup

import (
	"fmt"

	"goldengeneration/models"
	"goldengeneration/services/i18n"
)

// PersonalDetailsStep edits the personal details part of a session while that
// step is active.
type PersonalDetailsStep struct {
	state  *models.PersonalStepState
	t      i18n.Translator
	onDone func()
}

// NewPersonalDetailsStep seeds the form from the draft kept in state, else
// from the last submitted value, else blank.
func NewPersonalDetailsStep(state *models.PersonalStepState, t i18n.Translator, onDone func()) *PersonalDetailsStep {
	if state.Form == nil {
		form := models.PersonalDetails{}
		if state.Saved != nil {
			form = *state.Saved
		}
		state.Form = &form
	}
	if state.Errors == nil {
		state.Errors = models.FieldErrors{}
	}
	if t == nil {
		t = i18n.Identity
	}
	return &PersonalDetailsStep{state: state, t: t, onDone: onDone}
}

// ChangeField writes value into the field and clears that field's error.
// Other errors are left alone until the next submit.
func (s *PersonalDetailsStep) ChangeField(f models.PersonalField, value string) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if !f.Accepts(value) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownOption, value, f)
	}
	s.state.Form.Set(f, value)
	delete(s.state.Errors, f)
	return nil
}

// Submit validates the form. On failure the errors replace the current error
// state and false is returned. On success the form is saved and the
// completion callback runs.
func (s *PersonalDetailsStep) Submit() bool {
	errs := ValidatePersonal(*s.state.Form, s.t)
	if len(errs) > 0 {
		s.state.Errors = errs
		return false
	}
	s.state.Errors = models.FieldErrors{}
	saved := *s.state.Form
	s.state.Saved = &saved
	if s.onDone != nil {
		s.onDone()
	}
	return true
}

func (s *PersonalDetailsStep) Form() models.PersonalDetails {
	return *s.state.Form
}

func (s *PersonalDetailsStep) Errors() models.FieldErrors {
	return s.state.Errors.Clone()
}
