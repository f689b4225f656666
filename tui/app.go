// tui/app.go
//
// Terminal front end of the signup flow. It drives a signup.SignupService
// the same way the HTTP handlers do: every key press that changes the form
// becomes one service call, and the returned view is rendered.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"goldengeneration/models"
	"goldengeneration/services/i18n"
	"goldengeneration/services/signup"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// screen is which step the app is showing.
type screen int

const (
	screenPersonal screen = iota
	screenCommunity
	screenDone
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D4A017")).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	focusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

// communityRow is one selectable line of the community screen. Multi-select
// fields get one row per option.
type communityRow struct {
	desc   signup.FieldDescriptor
	option signup.LabeledOption
}

// App is the bubbletea model of the signup flow.
type App struct {
	ctx     context.Context
	svc     signup.SignupService
	catalog *i18n.Catalog
	userID  string

	view  *signup.SessionView
	t     i18n.Translator
	state screen

	personalRows []signup.FieldDescriptor
	inputs       []textinput.Model
	focus        int

	communityRows []communityRow
	cursor        int

	status string
	err    error
	width  int
	height int
}

// NewApp starts (or resumes) the signup of userID and returns the model.
func NewApp(ctx context.Context, svc signup.SignupService, catalog *i18n.Catalog, userID, locale string) (*App, error) {
	view, err := svc.Start(ctx, userID, "", locale)
	if err != nil {
		return nil, err
	}
	a := &App{ctx: ctx, svc: svc, catalog: catalog, userID: userID}
	a.apply(view)
	a.buildInputs()
	return a, nil
}

// Submitted reports whether the registration was handed off.
func (a *App) Submitted() bool {
	return a.view != nil && a.view.Status == models.SessionSubmitted
}

func (a *App) apply(view *signup.SessionView) {
	if a.view == nil || a.view.Locale != view.Locale || a.t == nil {
		a.t = a.catalog.Translator(view.Locale)
		a.personalRows = a.personalRows[:0]
		for _, d := range signup.FormCatalog(a.t) {
			if d.Step == models.StepPersonal {
				a.personalRows = append(a.personalRows, d)
			}
		}
	}
	a.view = view
	switch {
	case view.Status == models.SessionSubmitted:
		a.state = screenDone
	case view.Step == models.StepCommunity || view.StepIndex >= view.StepCount:
		a.state = screenCommunity
	default:
		a.state = screenPersonal
	}
	a.buildCommunityRows()
}

func (a *App) buildInputs() {
	a.inputs = make([]textinput.Model, len(a.personalRows))
	for i, d := range a.personalRows {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 120
		in.Width = 40
		if f, ok := models.ParsePersonalField(d.Field); ok {
			in.SetValue(a.view.Personal.Get(f))
		}
		a.inputs[i] = in
	}
	a.setFocus(0)
}

func (a *App) setFocus(i int) tea.Cmd {
	if len(a.inputs) == 0 {
		return nil
	}
	a.focus = (i + len(a.inputs)) % len(a.inputs)
	var cmd tea.Cmd
	for j := range a.inputs {
		if j == a.focus {
			cmd = a.inputs[j].Focus()
		} else {
			a.inputs[j].Blur()
		}
	}
	return cmd
}

func (a *App) buildCommunityRows() {
	a.communityRows = a.communityRows[:0]
	vis := a.view.Visibility
	for _, d := range signup.FormCatalog(a.t) {
		if d.Step != models.StepCommunity {
			continue
		}
		if f, ok := models.ParseCommunitySetField(d.Field); ok {
			if !f.Visible(vis) {
				continue
			}
			for _, o := range d.Options {
				a.communityRows = append(a.communityRows, communityRow{desc: d, option: o})
			}
			continue
		}
		if f, ok := models.ParseCommunityScalarField(d.Field); ok && f.Visible(vis) {
			a.communityRows = append(a.communityRows, communityRow{desc: d})
		}
	}
	if a.cursor >= len(a.communityRows) {
		a.cursor = max(0, len(a.communityRows)-1)
	}
}

// result handles the outcome of a service call.
func (a *App) result(view *signup.SessionView, err error) {
	if view != nil {
		a.apply(view)
	}
	a.err = err
	switch {
	case errors.Is(err, signup.ErrHandoffFailed):
		a.status = a.t("errors.handoffFailed")
	case err != nil:
		a.status = err.Error()
	default:
		a.status = ""
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+l":
			a.nextLanguage()
			return a, nil
		}
		switch a.state {
		case screenPersonal:
			return a, a.updatePersonal(msg)
		case screenCommunity:
			return a, a.updateCommunity(msg)
		case screenDone:
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a *App) nextLanguage() {
	langs := a.catalog.Languages()
	next := langs[0].Code
	for i, l := range langs {
		if l.Code == a.view.Locale {
			next = langs[(i+1)%len(langs)].Code
		}
	}
	a.result(a.svc.Start(a.ctx, a.userID, "", next))
}

func (a *App) updatePersonal(msg tea.KeyMsg) tea.Cmd {
	row := a.personalRows[a.focus]
	field, _ := models.ParsePersonalField(row.Field)

	switch msg.String() {
	case "tab", "down":
		return a.setFocus(a.focus + 1)
	case "shift+tab", "up":
		return a.setFocus(a.focus - 1)
	case "enter", "ctrl+s":
		view, advanced, err := a.svc.SubmitPersonal(a.ctx, a.userID)
		a.result(view, err)
		if err == nil && !advanced {
			for i, d := range a.personalRows {
				if f, _ := models.ParsePersonalField(d.Field); a.view.Errors[f] != "" {
					return a.setFocus(i)
				}
			}
		}
		return nil
	case "left", "right":
		if row.Kind == signup.KindSelect {
			value := cycle(row.Options, a.view.Personal.Get(field), msg.String() == "right")
			a.result(a.svc.ChangePersonalField(a.ctx, a.userID, field, value))
			return nil
		}
	}
	if row.Kind == signup.KindSelect {
		return nil
	}

	before := a.inputs[a.focus].Value()
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	if value := a.inputs[a.focus].Value(); value != before {
		a.result(a.svc.ChangePersonalField(a.ctx, a.userID, field, value))
	}
	return cmd
}

func (a *App) updateCommunity(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "shift+tab":
		if a.cursor > 0 {
			a.cursor--
		}
		return nil
	case "down", "tab":
		if a.cursor < len(a.communityRows)-1 {
			a.cursor++
		}
		return nil
	case "esc":
		if a.view.StepIndex >= a.view.StepCount {
			return nil
		}
		a.result(a.svc.Back(a.ctx, a.userID))
		if a.state == screenPersonal {
			return a.setFocus(a.focus)
		}
		return nil
	case "ctrl+s":
		if a.view.Status == models.SessionHandoffFailed {
			a.result(a.svc.Finalize(a.ctx, a.userID))
		} else {
			a.result(a.svc.SubmitCommunity(a.ctx, a.userID))
		}
		if a.state == screenDone {
			return tea.Quit
		}
		return nil
	}
	if len(a.communityRows) == 0 || a.view.StepIndex >= a.view.StepCount {
		return nil
	}

	row := a.communityRows[a.cursor]
	key := msg.String()
	if f, ok := models.ParseCommunitySetField(row.desc.Field); ok && (key == " " || key == "enter") {
		a.result(a.svc.ToggleCommunityOption(a.ctx, a.userID, f, row.option.Value))
		return nil
	}
	f, ok := models.ParseCommunityScalarField(row.desc.Field)
	if !ok {
		return nil
	}
	switch {
	case f.IsFlag() && (key == " " || key == "enter"):
		value := fmt.Sprint(!a.view.Community.Flag(f))
		a.result(a.svc.SetCommunityField(a.ctx, a.userID, f, value))
	case !f.IsFlag() && (key == "left" || key == "right"):
		value := cycle(row.desc.Options, a.view.Community.Text(f), key == "right")
		a.result(a.svc.SetCommunityField(a.ctx, a.userID, f, value))
	}
	return nil
}

// cycle moves through "" followed by the options.
func cycle(options []signup.LabeledOption, current string, forward bool) string {
	values := make([]string, 0, len(options)+1)
	values = append(values, "")
	idx := 0
	for i, o := range options {
		values = append(values, o.Value)
		if o.Value == current {
			idx = i + 1
		}
	}
	if forward {
		idx++
	} else {
		idx--
	}
	return values[(idx+len(values))%len(values)]
}

func optionLabel(options []signup.LabeledOption, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	var content string
	switch a.state {
	case screenPersonal:
		content = a.viewPersonal()
	case screenCommunity:
		content = a.viewCommunity()
	case screenDone:
		content = titleStyle.Render(a.t("signup.complete"))
	}

	footer := footerStyle.Render(a.footer())
	if a.status != "" {
		footer = errorStyle.Render(a.status) + "\n" + footer
	}
	return boxStyle.Width(max(40, width-4)).Render(content) + "\n" + footer
}

func (a *App) header() string {
	return titleStyle.Render(fmt.Sprintf("%s %d/%d · %s",
		a.t("signup.stepOf"), min(a.view.StepIndex+1, a.view.StepCount), a.view.StepCount, a.view.Locale))
}

func (a *App) viewPersonal() string {
	var b strings.Builder
	b.WriteString(a.header() + "\n")
	for i, d := range a.personalRows {
		f, _ := models.ParsePersonalField(d.Field)
		label := d.Label
		if d.Required {
			label += " *"
		}
		var value string
		if d.Kind == signup.KindSelect {
			value = optionLabel(d.Options, a.view.Personal.Get(f))
			if value == "" {
				value = "‹ " + a.t("common.select") + " ›"
			}
		} else {
			value = a.inputs[i].View()
		}
		line := labelStyle.Render(label+": ") + value
		if i == a.focus {
			line = focusStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
		if msg := a.view.Errors[f]; msg != "" {
			b.WriteString("    " + errorStyle.Render(msg) + "\n")
		}
	}
	return b.String()
}

func (a *App) viewCommunity() string {
	var b strings.Builder
	b.WriteString(a.header() + "\n")
	lastField := ""
	for i, row := range a.communityRows {
		if row.desc.Field != lastField {
			b.WriteString(labelStyle.Render(row.desc.Label) + "\n")
			lastField = row.desc.Field
		}
		var line string
		if sf, ok := models.ParseCommunitySetField(row.desc.Field); ok {
			mark := "[ ]"
			for _, v := range a.view.Community.Members(sf) {
				if v == row.option.Value {
					mark = "[x]"
				}
			}
			line = mark + " " + row.option.Label
		} else if f, ok := models.ParseCommunityScalarField(row.desc.Field); ok {
			if f.IsFlag() {
				line = a.t("common.no")
				if a.view.Community.Flag(f) {
					line = a.t("common.yes")
				}
				line = "‹ " + line + " ›"
			} else {
				value := optionLabel(row.desc.Options, a.view.Community.Text(f))
				if value == "" {
					value = a.t("common.select")
				}
				line = "‹ " + value + " ›"
			}
		}
		if i == a.cursor {
			b.WriteString(focusStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (a *App) footer() string {
	switch a.state {
	case screenPersonal:
		return "tab/↑↓ move · ←→ choose · enter " + a.t("common.continue") + " · ctrl+l language · ctrl+c quit"
	case screenCommunity:
		return "↑↓ move · space toggle · ←→ choose · esc " + a.t("common.back") + " · ctrl+s " + a.t("common.finish") + " · ctrl+c quit"
	}
	return "press any key to exit"
}
