package signup

import (
	"fmt"
	"strconv"

	"goldengeneration/models"
)

// CommunityStep edits the veterans community part of a session. Nothing on
// this step is required, and hiding a section never clears what was chosen
// inside it.
type CommunityStep struct {
	state  *models.CommunityStepState
	onDone func()
}

func NewCommunityStep(state *models.CommunityStepState, onDone func()) *CommunityStep {
	if state.Form == nil {
		form := models.NewCommunityForm()
		state.Form = &form
	}
	return &CommunityStep{state: state, onDone: onDone}
}

// ToggleSetMember removes value from the set if present, else appends it.
func (s *CommunityStep) ToggleSetMember(f models.CommunitySetField, value string) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if !f.Accepts(value) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownOption, value, f)
	}
	current := s.state.Form.Members(f)
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, v := range current {
		if v == value {
			removed = true
			continue
		}
		next = append(next, v)
	}
	if !removed {
		next = append(next, value)
	}
	s.state.Form.SetMembers(f, next)
	return nil
}

// SetScalar replaces an enum or boolean field. Booleans accept anything
// strconv.ParseBool does.
func (s *CommunityStep) SetScalar(f models.CommunityScalarField, value string) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if f.IsFlag() {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q for %s", ErrUnknownOption, value, f)
		}
		s.state.Form.SetFlag(f, b)
		return nil
	}
	if !f.Accepts(value) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownOption, value, f)
	}
	s.state.Form.SetText(f, value)
	return nil
}

func (s *CommunityStep) Visibility() models.CommunityVisibility {
	return s.state.Form.Visibility()
}

func (s *CommunityStep) Form() models.CommunityForm {
	return *s.state.Form
}

// Submit never blocks. It keeps the widget state for resume, stores the gated
// preferences record and runs the completion callback.
func (s *CommunityStep) Submit() bool {
	prefs := s.state.Form.Preferences()
	s.state.Saved = &prefs
	if s.onDone != nil {
		s.onDone()
	}
	return true
}
