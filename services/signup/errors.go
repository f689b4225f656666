package signup

import "errors"

var (
	ErrSessionNotFound   = errors.New("signup session not found")
	ErrStepNotActive     = errors.New("step is not the active step")
	ErrNoPreviousStep    = errors.New("already at the first step")
	ErrSessionComplete   = errors.New("every step is already submitted")
	ErrSessionIncomplete = errors.New("signup still has steps to submit")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownOption     = errors.New("value is not one of the field's options")
	ErrHandoffFailed     = errors.New("could not hand the registration to the backend")
	ErrSessionConflict   = errors.New("signup session was modified concurrently")
)

var errNoPersister = errors.New("no persister configured")
