package signup

import (
	"context"
	"fmt"
	"time"

	"goldengeneration/models"
	"goldengeneration/services/i18n"
)

// Steps is the fixed order of the signup flow.
var Steps = []models.StepKey{models.StepPersonal, models.StepCommunity}

// Persister receives the assembled registration once every step is
// submitted.
type Persister interface {
	Save(ctx context.Context, member models.Member) error
}

// PersisterFunc adapts a plain function to Persister.
type PersisterFunc func(ctx context.Context, member models.Member) error

func (f PersisterFunc) Save(ctx context.Context, member models.Member) error {
	return f(ctx, member)
}

// Orchestrator owns one session for the duration of a single user event. It
// hands each step model only that step's part of the session, and moves
// forward only when the active step reports completion.
type Orchestrator struct {
	session   *models.SignupSession
	persister Persister
	t         i18n.Translator
	now       func() time.Time
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithTranslator(t i18n.Translator) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.t = t
		}
	}
}

func NewOrchestrator(session *models.SignupSession, persister Persister, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		session:   session,
		persister: persister,
		t:         i18n.Identity,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.session.Status == "" {
		o.session.Status = models.SessionActive
	}
	return o
}

func (o *Orchestrator) Session() *models.SignupSession { return o.session }

func (o *Orchestrator) StepIndex() int { return o.session.StepIndex }

// Done reports whether every step has been submitted.
func (o *Orchestrator) Done() bool { return o.session.StepIndex >= len(Steps) }

// Current returns the active step, or false once the flow is done.
func (o *Orchestrator) Current() (models.StepKey, bool) {
	if o.Done() {
		return "", false
	}
	return Steps[o.session.StepIndex], true
}

func (o *Orchestrator) require(step models.StepKey) error {
	current, ok := o.Current()
	if !ok {
		return ErrSessionComplete
	}
	if current != step {
		return fmt.Errorf("%w: %s is active, not %s", ErrStepNotActive, current, step)
	}
	return nil
}

// PersonalStep returns the personal details model when it is the active step.
func (o *Orchestrator) PersonalStep() (*PersonalDetailsStep, error) {
	if err := o.require(models.StepPersonal); err != nil {
		return nil, err
	}
	from := o.session.StepIndex
	return NewPersonalDetailsStep(&o.session.Personal, o.t, func() { o.advance(from) }), nil
}

// CommunityStep returns the community model when it is the active step.
func (o *Orchestrator) CommunityStep() (*CommunityStep, error) {
	if err := o.require(models.StepCommunity); err != nil {
		return nil, err
	}
	from := o.session.StepIndex
	return NewCommunityStep(&o.session.Community, func() { o.advance(from) }), nil
}

// advance moves one step forward. A stale callback from a step that is no
// longer active is ignored, so a step can never advance twice.
func (o *Orchestrator) advance(from int) {
	if o.session.StepIndex != from || o.Done() {
		return
	}
	o.session.StepIndex++
	o.touch()
}

// Back returns to the previous step without validating and without erasing
// anything entered on the step being left.
func (o *Orchestrator) Back() error {
	if o.Done() {
		return ErrSessionComplete
	}
	if o.session.StepIndex == 0 {
		return ErrNoPreviousStep
	}
	o.session.StepIndex--
	o.touch()
	return nil
}

// Member assembles the registration from the submitted steps.
func (o *Orchestrator) Member() (models.Member, error) {
	if !o.Done() || o.session.Personal.Saved == nil || o.session.Community.Saved == nil {
		return models.Member{}, ErrSessionIncomplete
	}
	now := o.now()
	return models.Member{
		UserID:       o.session.UserID,
		Email:        o.session.Email,
		Locale:       o.session.Locale,
		SessionID:    o.session.ID,
		Personal:     *o.session.Personal.Saved,
		Community:    *o.session.Community.Saved,
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}

// PendingMember returns the registration still waiting to be handed off.
// ok is false once a previous hand-off succeeded.
func (o *Orchestrator) PendingMember() (member models.Member, ok bool, err error) {
	if o.session.Status == models.SessionSubmitted {
		return models.Member{}, false, nil
	}
	member, err = o.Member()
	if err != nil {
		return models.Member{}, false, err
	}
	return member, true, nil
}

// RecordHandOff stores the outcome of persisting the registration. A failure
// marks the session so the hand-off can be retried; it never undoes an
// earlier success.
func (o *Orchestrator) RecordHandOff(saveErr error) error {
	if o.session.Status == models.SessionSubmitted {
		return nil
	}
	if saveErr != nil {
		o.session.Status = models.SessionHandoffFailed
		o.touch()
		return fmt.Errorf("%w: %v", ErrHandoffFailed, saveErr)
	}
	o.session.Status = models.SessionSubmitted
	o.touch()
	return nil
}

// HandOff passes the registration to the persister and records the result.
// It is a no-op once a previous hand-off succeeded.
func (o *Orchestrator) HandOff(ctx context.Context) error {
	member, ok, err := o.PendingMember()
	if err != nil || !ok {
		return err
	}
	return o.RecordHandOff(savePending(ctx, o.persister, member))
}

func savePending(ctx context.Context, p Persister, member models.Member) error {
	if p == nil {
		return errNoPersister
	}
	return p.Save(ctx, member)
}

func (o *Orchestrator) touch() {
	o.session.LastUpdatedAt = o.now()
}
