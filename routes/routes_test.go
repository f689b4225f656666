package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"goldengeneration/database/repository"
	"goldengeneration/handlers"
	"goldengeneration/models"
	"goldengeneration/services/events"
	"goldengeneration/services/i18n"
	"goldengeneration/services/signup"
	"goldengeneration/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type fakeVerifier map[string]*auth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	if t, ok := f[token]; ok {
		return t, nil
	}
	return nil, errors.New("invalid token")
}

type memoryEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (m *memoryEvents) List(context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Event(nil), m.events...), nil
}

func (m *memoryEvents) Create(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return nil
}

func (m *memoryEvents) GetByID(_ context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, repository.ErrEventNotFound
}

func (m *memoryEvents) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return repository.ErrEventNotFound
}

type memoryMembers struct {
	mu      sync.Mutex
	members map[string]models.Member
}

func (m *memoryMembers) Upsert(_ context.Context, member *models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.UserID] = *member
	return nil
}

func (m *memoryMembers) GetByUserID(_ context.Context, uid string) (*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[uid]
	if !ok {
		return nil, repository.ErrMemberNotFound
	}
	return &member, nil
}

func (m *memoryMembers) Delete(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[uid]; !ok {
		return repository.ErrMemberNotFound
	}
	delete(m.members, uid)
	return nil
}

type testServer struct {
	router  *gin.Engine
	members []models.Member
	repo    *memoryMembers
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		t.Fatal(err)
	}
	ts := &testServer{repo: &memoryMembers{members: map[string]models.Member{}}}
	svc := &signup.DefaultSignupService{
		Store: signup.NewMemorySessionStore(),
		Persister: signup.PersisterFunc(func(_ context.Context, m models.Member) error {
			ts.members = append(ts.members, m)
			return nil
		}),
		Catalog: catalog,
	}
	hb := &handlers.HandlerBundle{
		Verifier: fakeVerifier{
			"member": {UID: "uid-1", Claims: map[string]interface{}{"email": "dana@example.com"}},
			"admin":  {UID: "uid-admin", Claims: map[string]interface{}{"admin": true}},
		},
		Catalog:       catalog,
		DefaultLocale: "en",
		RateLimit:     1000,
		Signup:        handlers.NewSignupHandler(svc),
		Events:        handlers.NewEventHandler(&events.DefaultEventService{Repo: &memoryEvents{}}),
		I18n:          handlers.NewI18nHandler(catalog),
		Members:       handlers.NewMemberHandler(ts.repo),
	}
	ts.router = gin.New()
	RegisterRoutes(ts.router, hb)
	return ts
}

type sessionResponse struct {
	Session signup.SessionView `json:"session"`
	Errors  map[string]string  `json:"errors"`
	Error   string             `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, sessionResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var resp sessionResponse
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, resp
}

type fieldValue struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

func TestSignupRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	if code, _ := ts.do(t, http.MethodPost, "/api/signup/session", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", code)
	}
}

func TestSignupFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	code, resp := ts.do(t, http.MethodPost, "/api/signup/session", "member", map[string]string{"locale": "he"})
	if code != http.StatusOK || resp.Session.Step != models.StepPersonal || resp.Session.Locale != "he" {
		t.Fatalf("start: %d %+v", code, resp)
	}

	code, resp = ts.do(t, http.MethodPost, "/api/signup/session/personal/submit", "member", nil)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("blank submit: got %d", code)
	}
	if resp.Errors["city"] != "שדה חובה" || resp.Session.Step != models.StepPersonal {
		t.Fatalf("blank submit errors: %+v", resp.Errors)
	}

	values := map[string]string{
		"firstName": "Dana", "lastName": "Levi", "birthDate": "1950-03-01",
		"gender": "female", "maritalStatus": "widowed", "city": "Haifa",
		"address": "Herzl 1", "mobilePhone": "050-0000000",
		"emergency.name": "Noa", "emergency.phone": "050-1111111", "emergency.relation": "daughter",
	}
	for field, value := range values {
		if code, resp := ts.do(t, http.MethodPatch, "/api/signup/session/personal", "member", fieldValue{field, value}); code != http.StatusOK {
			t.Fatalf("change %s: %d %s", field, code, resp.Error)
		}
	}
	if code, _ := ts.do(t, http.MethodPatch, "/api/signup/session/personal", "member", fieldValue{"gender", "robot"}); code != http.StatusBadRequest {
		t.Fatalf("unknown option: got %d", code)
	}
	if code, _ := ts.do(t, http.MethodPatch, "/api/signup/session/personal", "member", fieldValue{"nickname", "x"}); code != http.StatusBadRequest {
		t.Fatalf("unknown field: got %d", code)
	}

	code, resp = ts.do(t, http.MethodPost, "/api/signup/session/personal/submit", "member", nil)
	if code != http.StatusOK || resp.Session.Step != models.StepCommunity {
		t.Fatalf("submit personal: %d %+v", code, resp.Session)
	}
	if code, _ := ts.do(t, http.MethodPost, "/api/signup/session/personal/submit", "member", nil); code != http.StatusConflict {
		t.Fatalf("inactive step: got %d", code)
	}

	if code, _ := ts.do(t, http.MethodPost, "/api/signup/session/community/toggle", "member", fieldValue{"volunteerDays", "sunday"}); code != http.StatusBadRequest {
		t.Fatalf("out of domain toggle: got %d", code)
	}
	code, resp = ts.do(t, http.MethodPost, "/api/signup/session/community/toggle", "member", fieldValue{"currentActivities", "choir"})
	if code != http.StatusOK || resp.Session.Visibility.NotParticipatingReason {
		t.Fatalf("toggle: %d %+v", code, resp.Session.Visibility)
	}
	code, resp = ts.do(t, http.MethodPatch, "/api/signup/session/community", "member", fieldValue{"isVolunteer", true})
	if code != http.StatusOK || !resp.Session.Visibility.Volunteering {
		t.Fatalf("set flag: %d %+v", code, resp.Session.Visibility)
	}

	code, resp = ts.do(t, http.MethodPost, "/api/signup/session/community/submit", "member", nil)
	if code != http.StatusOK || resp.Session.Status != models.SessionSubmitted {
		t.Fatalf("submit community: %d %+v", code, resp.Session)
	}
	if len(ts.members) != 1 {
		t.Fatalf("expected one hand-off, got %d", len(ts.members))
	}
	m := ts.members[0]
	if m.UserID != "uid-1" || m.Email != "dana@example.com" || m.Personal.City != "Haifa" {
		t.Fatalf("unexpected member %+v", m)
	}
	if m.Community.Volunteering == nil || m.Community.Additional != nil {
		t.Fatalf("gated sections wrong: %+v", m.Community)
	}

	if code, _ := ts.do(t, http.MethodGet, "/api/signup/session", "member", nil); code != http.StatusNotFound {
		t.Fatalf("session kept after submit: %d", code)
	}
}

func TestSignupBackAtFirstStep(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/signup/session", "member", nil)
	if code, _ := ts.do(t, http.MethodPost, "/api/signup/session/back", "member", nil); code != http.StatusConflict {
		t.Fatalf("got %d, want 409", code)
	}
	if code, _ := ts.do(t, http.MethodDelete, "/api/signup/session", "member", nil); code != http.StatusNoContent {
		t.Fatalf("abandon: got %d", code)
	}
}

func TestFormOptionsAreLocalized(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/signup/options?lang=ru", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	var body struct {
		Locale string                    `json:"locale"`
		Fields []signup.FieldDescriptor `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Locale != "ru" || len(body.Fields) == 0 {
		t.Fatalf("unexpected body %+v", body)
	}
	if w.Header().Get("Content-Language") != "ru" {
		t.Fatalf("Content-Language = %q", w.Header().Get("Content-Language"))
	}
}

func TestLanguages(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/i18n/languages", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	var body struct {
		Languages []i18n.Language `json:"languages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Languages) != 4 || body.Languages[0].Code != "en" {
		t.Fatalf("unexpected languages %+v", body.Languages)
	}
}

func multipartEvent(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestEventsRequireAdminToCreate(t *testing.T) {
	ts := newTestServer(t)
	for token, want := range map[string]int{"member": http.StatusForbidden, "admin": http.StatusCreated} {
		body, contentType := multipartEvent(t, map[string]string{"title": "Yoga", "date": "2026-05-01"})
		req := httptest.NewRequest(http.MethodPost, "/api/events", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("%s: got %d, want %d (%s)", token, w.Code, want, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/assets/Yoga.png") {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	utils.RunHealthChecks(context.Background(), []utils.HealthCheck{
		{Name: "redis", Check: func(context.Context) error { return nil }},
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
}

func TestMemberRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.repo.members["uid-1"] = models.Member{UserID: "uid-1", Locale: "he"}

	get := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		return w.Code
	}
	if code := get("/api/members/me", "member"); code != http.StatusOK {
		t.Fatalf("own record: %d", code)
	}
	if code := get("/api/members/me", "admin"); code != http.StatusNotFound {
		t.Fatalf("admin has no record: %d", code)
	}
	if code := get("/api/admin/members/uid-1", "member"); code != http.StatusForbidden {
		t.Fatalf("member reading admin route: %d", code)
	}
	if code := get("/api/admin/members/uid-1", "admin"); code != http.StatusOK {
		t.Fatalf("admin read: %d", code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/members/uid-1", nil)
	req.Header.Set("Authorization", "Bearer admin")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || len(ts.repo.members) != 0 {
		t.Fatalf("delete: %d, %d left", w.Code, len(ts.repo.members))
	}
}
