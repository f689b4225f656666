package signup

import (
	"context"
	"errors"
	"testing"
	"time"

	"goldengeneration/models"
)

type recordingPersister struct {
	saved    []models.Member
	err      error
	attempts int
	// during runs inside Save before it returns.
	during func()
}

func (p *recordingPersister) Save(_ context.Context, m models.Member) error {
	p.attempts++
	if p.during != nil {
		p.during()
	}
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, m)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
}

func newTestOrchestrator(p Persister) *Orchestrator {
	session := &models.SignupSession{ID: "sess-1", UserID: "uid-1", Email: "dana@example.com", Locale: "en"}
	return NewOrchestrator(session, p, WithClock(fixedClock), WithTranslator(staticTranslator))
}

func fillPersonal(t *testing.T, step *PersonalDetailsStep, d models.PersonalDetails) {
	t.Helper()
	for _, f := range models.PersonalFields() {
		if err := step.ChangeField(f, d.Get(f)); err != nil {
			t.Fatalf("ChangeField(%s): %v", f, err)
		}
	}
}

func TestOrchestratorStartsAtFirstStep(t *testing.T) {
	o := newTestOrchestrator(nil)
	step, ok := o.Current()
	if !ok || step != models.StepPersonal || o.StepIndex() != 0 {
		t.Fatalf("unexpected start state %v %v %d", step, ok, o.StepIndex())
	}
	if o.Session().Status != models.SessionActive {
		t.Fatalf("status should default to active, got %q", o.Session().Status)
	}
	if _, err := o.CommunityStep(); !errors.Is(err, ErrStepNotActive) {
		t.Fatalf("community step must not be reachable yet, got %v", err)
	}
}

func TestOrchestratorDoesNotAdvanceOnFailedValidation(t *testing.T) {
	o := newTestOrchestrator(nil)
	step, err := o.PersonalStep()
	if err != nil {
		t.Fatal(err)
	}
	d := completeDetails()
	d.City = ""
	fillPersonal(t, step, d)
	if step.Submit() {
		t.Fatal("submit should fail")
	}
	if o.StepIndex() != 0 {
		t.Fatalf("step advanced to %d", o.StepIndex())
	}
}

func TestOrchestratorAdvancesExactlyOnce(t *testing.T) {
	o := newTestOrchestrator(nil)
	step, _ := o.PersonalStep()
	fillPersonal(t, step, completeDetails())
	if !step.Submit() {
		t.Fatal("submit should succeed")
	}
	// A second submit on the stale model must not skip the community step.
	step.Submit()
	if o.StepIndex() != 1 {
		t.Fatalf("expected index 1, got %d", o.StepIndex())
	}
	if !o.Session().LastUpdatedAt.Equal(fixedClock()) {
		t.Fatalf("LastUpdatedAt not stamped: %v", o.Session().LastUpdatedAt)
	}
}

func TestOrchestratorBackKeepsData(t *testing.T) {
	o := newTestOrchestrator(nil)
	if err := o.Back(); !errors.Is(err, ErrNoPreviousStep) {
		t.Fatalf("expected ErrNoPreviousStep, got %v", err)
	}

	personal, _ := o.PersonalStep()
	fillPersonal(t, personal, completeDetails())
	personal.Submit()

	community, err := o.CommunityStep()
	if err != nil {
		t.Fatal(err)
	}
	_ = community.ToggleSetMember(models.SetCurrentActivities, "trips")

	if err := o.Back(); err != nil {
		t.Fatal(err)
	}
	if o.StepIndex() != 0 {
		t.Fatalf("expected index 0, got %d", o.StepIndex())
	}
	again, err := o.PersonalStep()
	if err != nil {
		t.Fatal(err)
	}
	if again.Form() != completeDetails() {
		t.Fatalf("personal data lost after back: %+v", again.Form())
	}
	if got := o.Session().Community.Form.CurrentActivities; len(got) != 1 || got[0] != "trips" {
		t.Fatalf("community data lost after back: %v", got)
	}
}

func TestOrchestratorHandOff(t *testing.T) {
	p := &recordingPersister{}
	o := newTestOrchestrator(p)
	personal, _ := o.PersonalStep()
	fillPersonal(t, personal, completeDetails())
	personal.Submit()

	if err := o.HandOff(context.Background()); !errors.Is(err, ErrSessionIncomplete) {
		t.Fatalf("hand-off before the last step should fail, got %v", err)
	}

	community, _ := o.CommunityStep()
	community.Submit()
	if !o.Done() {
		t.Fatal("orchestrator should be done")
	}
	if err := o.HandOff(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := o.HandOff(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(p.saved) != 1 {
		t.Fatalf("expected one hand-off, got %d", len(p.saved))
	}
	m := p.saved[0]
	if m.UserID != "uid-1" || m.SessionID != "sess-1" || m.Personal != completeDetails() {
		t.Fatalf("unexpected member %+v", m)
	}
	if !m.RegisteredAt.Equal(fixedClock()) {
		t.Fatalf("RegisteredAt = %v", m.RegisteredAt)
	}
	if o.Session().Status != models.SessionSubmitted {
		t.Fatalf("status = %q", o.Session().Status)
	}
	if err := o.Back(); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("back after completion should fail, got %v", err)
	}
}

func TestOrchestratorHandOffFailure(t *testing.T) {
	p := &recordingPersister{err: errors.New("queue down")}
	o := newTestOrchestrator(p)
	personal, _ := o.PersonalStep()
	fillPersonal(t, personal, completeDetails())
	personal.Submit()
	community, _ := o.CommunityStep()
	community.Submit()

	err := o.HandOff(context.Background())
	if !errors.Is(err, ErrHandoffFailed) {
		t.Fatalf("expected ErrHandoffFailed, got %v", err)
	}
	if o.Session().Status != models.SessionHandoffFailed {
		t.Fatalf("status = %q", o.Session().Status)
	}

	p.err = nil
	if err := o.HandOff(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if o.Session().Status != models.SessionSubmitted || len(p.saved) != 1 {
		t.Fatalf("retry did not hand off: %q %d", o.Session().Status, len(p.saved))
	}
}

func TestOrchestratorRecordHandOffKeepsSubmitted(t *testing.T) {
	o := newTestOrchestrator(nil)
	personal, _ := o.PersonalStep()
	fillPersonal(t, personal, completeDetails())
	personal.Submit()
	community, _ := o.CommunityStep()
	community.Submit()

	m, ok, err := o.PendingMember()
	if err != nil || !ok || m.SessionID != "sess-1" {
		t.Fatalf("PendingMember = %+v %v %v", m, ok, err)
	}
	if err := o.RecordHandOff(nil); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := o.PendingMember(); ok || err != nil {
		t.Fatalf("submitted session should have nothing pending: %v %v", ok, err)
	}
	// A late failure from a duplicate attempt must not undo the success.
	if err := o.RecordHandOff(errors.New("queue down")); err != nil {
		t.Fatal(err)
	}
	if o.Session().Status != models.SessionSubmitted {
		t.Fatalf("status = %q", o.Session().Status)
	}
}

func TestOrchestratorHandOffWithoutPersister(t *testing.T) {
	o := newTestOrchestrator(nil)
	personal, _ := o.PersonalStep()
	fillPersonal(t, personal, completeDetails())
	personal.Submit()
	community, _ := o.CommunityStep()
	community.Submit()

	if err := o.HandOff(context.Background()); !errors.Is(err, ErrHandoffFailed) {
		t.Fatalf("expected ErrHandoffFailed, got %v", err)
	}
	if o.Session().Status != models.SessionHandoffFailed {
		t.Fatalf("status = %q", o.Session().Status)
	}
}
