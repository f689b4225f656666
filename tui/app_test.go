package tui

import (
	"context"
	"strings"
	"testing"

	"goldengeneration/models"
	"goldengeneration/services/i18n"
	"goldengeneration/services/signup"

	tea "github.com/charmbracelet/bubbletea"
)

const testUser = "local"

func newTestApp(t *testing.T, locale string) (*App, *signup.DefaultSignupService, *[]models.Member) {
	t.Helper()
	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	var saved []models.Member
	svc := &signup.DefaultSignupService{
		Store: signup.NewMemorySessionStore(),
		Persister: signup.PersisterFunc(func(_ context.Context, m models.Member) error {
			saved = append(saved, m)
			return nil
		}),
		Catalog: catalog,
	}
	app, err := NewApp(context.Background(), svc, catalog, testUser, locale)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app, svc, &saved
}

func press(app *App, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		app.Update(msg)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	save  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func TestTypingUpdatesSession(t *testing.T) {
	app, svc, _ := newTestApp(t, "en")
	if app.state != screenPersonal {
		t.Fatalf("expected personal screen, got %d", app.state)
	}
	press(app, runes("Dana"))

	view, err := svc.Current(context.Background(), testUser)
	if err != nil {
		t.Fatal(err)
	}
	if view.Personal.FirstName != "Dana" {
		t.Fatalf("first name = %q", view.Personal.FirstName)
	}
}

func TestBlankSubmitShowsErrors(t *testing.T) {
	app, _, _ := newTestApp(t, "en")
	press(app, runes("Dana"), enter)

	if app.state != screenPersonal {
		t.Fatalf("advanced with missing fields")
	}
	if app.personalRows[app.focus].Field != "lastName" {
		t.Fatalf("focus should move to the first invalid field, got %s", app.personalRows[app.focus].Field)
	}
	if !strings.Contains(app.View(), "This field is required") {
		t.Fatal("validation message not rendered")
	}
}

func TestFullFlow(t *testing.T) {
	app, svc, saved := newTestApp(t, "en")
	ctx := context.Background()
	values := map[models.PersonalField]string{
		models.PersonalFirstName: "Dana", models.PersonalLastName: "Levi",
		models.PersonalBirthDate: "1950-03-01", models.PersonalGender: "female",
		models.PersonalMaritalStatus: "married", models.PersonalCity: "Haifa",
		models.PersonalAddress: "Herzl 1", models.PersonalMobilePhone: "050-0000000",
		models.PersonalEmergencyName: "Noa", models.PersonalEmergencyPhone: "050-1111111",
		models.PersonalEmergencyRelation: "daughter",
	}
	for f, v := range values {
		if _, err := svc.ChangePersonalField(ctx, testUser, f, v); err != nil {
			t.Fatal(err)
		}
	}
	press(app, enter)
	if app.state != screenCommunity {
		t.Fatalf("expected community screen, status %q", app.status)
	}

	// First row is the first activity option.
	press(app, space)
	if got := app.view.Community.CurrentActivities; len(got) != 1 || got[0] != models.ActivityOptions[0] {
		t.Fatalf("toggle did not select the option: %v", got)
	}
	if app.view.Visibility.NotParticipatingReason {
		t.Fatal("reason still visible after choosing an activity")
	}

	press(app, save)
	if !app.Submitted() || app.state != screenDone {
		t.Fatalf("flow not submitted, status %q", app.status)
	}
	if len(*saved) != 1 || (*saved)[0].Personal.City != "Haifa" {
		t.Fatalf("unexpected hand-off %+v", *saved)
	}
}

func TestLanguageSwitch(t *testing.T) {
	app, _, _ := newTestApp(t, "en")
	press(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	if app.view.Locale == "en" {
		t.Fatal("locale did not change")
	}
	press(app, enter)
	if strings.Contains(app.View(), "This field is required") {
		t.Fatal("message still in English after switching language")
	}
}

func TestCycle(t *testing.T) {
	opts := []signup.LabeledOption{{Value: "a"}, {Value: "b"}}
	if got := cycle(opts, "", true); got != "a" {
		t.Fatalf("got %q", got)
	}
	if got := cycle(opts, "b", true); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := cycle(opts, "", false); got != "b" {
		t.Fatalf("got %q", got)
	}
}
