package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/repository"
	"github.com/mamadbah2/satisfaction/internal/server/handlers"
	"github.com/mamadbah2/satisfaction/internal/service/auth"
	"github.com/mamadbah2/satisfaction/internal/service/dashboard"
	"github.com/mamadbah2/satisfaction/internal/service/reset"
	"github.com/mamadbah2/satisfaction/internal/service/voting"
	"github.com/mamadbah2/satisfaction/internal/testutil"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "kiosk-admin"
)

type testApp struct {
	engine *gin.Engine
	store  repository.VoteStore
}

func newTestApp(t *testing.T, store repository.VoteStore) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	lc := locale.Lookup("pt-PT")
	authSvc := auth.NewService(auth.Credentials{
		Email:        adminEmail,
		PasswordHash: string(hash),
		Secret:       []byte("0123456789abcdef0123456789abcdef"),
		TTL:          time.Hour,
	}, nil)
	manager := dashboard.NewManager(store, time.UTC, lc, nil)
	authSvc.OnAuthStateChange(manager.HandleAuthChange)

	engine := New(Handlers{
		Votes:     handlers.NewVoteHandler(voting.NewService(store, voting.NewCooldown(time.Minute), time.UTC, lc, nil), nil),
		Auth:      handlers.NewAuthHandler(authSvc, manager, nil),
		Dashboard: handlers.NewDashboardHandler(manager, nil),
		Export:    handlers.NewExportHandler(nil, "Export!A:E", nil),
		Reset:     handlers.NewResetHandler(reset.NewService(store, time.Minute, nil), nil),
	}, []string{"http://kiosk.local"}, nil)

	return &testApp{engine: engine, store: store}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": adminEmail, "password": adminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token  string `json:"token"`
		Loaded bool   `json:"loaded"`
	}
	decode(t, w, &resp)
	if !resp.Loaded {
		t.Error("dashboard was not loaded on sign-in")
	}
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, testutil.NewMemoryStore())
	if w := app.do(t, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestVotes(t *testing.T) {
	app := newTestApp(t, testutil.SQLiteStore(t))

	w := app.do(t, http.MethodPost, "/api/votes", "", map[string]string{"mood": "satisfied"}, handlers.KioskHeader, "k1")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var record models.VoteRecord
	decode(t, w, &record)
	if record.ID != 1 || record.Mood != models.MoodSatisfied || record.Weekday == "" {
		t.Errorf("record = %+v", record)
	}

	if w := app.do(t, http.MethodPost, "/api/votes", "", map[string]string{"mood": "satisfied"}, handlers.KioskHeader, "k1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("repeat vote status = %d, want 429", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/votes", "", map[string]string{"mood": "furious"}, handlers.KioskHeader, "k2"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown mood status = %d, want 400", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/votes", "", map[string]string{}, handlers.KioskHeader, "k3"); w.Code != http.StatusBadRequest {
		t.Errorf("missing mood status = %d, want 400", w.Code)
	}

	w = app.do(t, http.MethodPost, "/api/votes", "", map[string]string{"mood": "dissatisfied"}, handlers.KioskHeader, "k2")
	decode(t, w, &record)
	if record.ID != 2 {
		t.Errorf("second id = %d, want 2", record.ID)
	}
}

func TestVotes_StoreFailure(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.AllocateErr = repository.ErrTransactionsUnsupported
	app := newTestApp(t, store)

	w := app.do(t, http.MethodPost, "/api/votes", "", map[string]string{"mood": "satisfied"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestAdmin_RequiresSession(t *testing.T) {
	app := newTestApp(t, testutil.NewMemoryStore())

	for _, path := range []string{"/api/admin/dashboard", "/api/admin/export?format=csv", "/api/admin/dashboard/page"} {
		if w := app.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, w.Code)
		}
		if w := app.do(t, http.MethodGet, path, "garbage", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s with bad token status = %d, want 401", path, w.Code)
		}
	}

	w := app.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": adminEmail, "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
}

func TestDashboardFlow(t *testing.T) {
	store := testutil.NewMemoryStore(
		models.VoteRecord{ID: 1, Mood: models.MoodVerySatisfied, Date: "01/03/2024", Time: "09:00:00", Weekday: "Sexta-feira"},
		models.VoteRecord{ID: 2, Mood: models.MoodSatisfied, Date: "01/03/2024", Time: "10:00:00", Weekday: "Sexta-feira"},
		models.VoteRecord{ID: 3, Mood: models.MoodDissatisfied, Date: "02/03/2024", Time: "11:00:00", Weekday: "Sábado"},
	)
	app := newTestApp(t, store)
	token := app.login(t)

	w := app.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	var view models.DashboardView
	decode(t, w, &view)
	if view.Records != 3 || view.Summary.Total != 3 || view.Page.Indicator != "1 / 1" {
		t.Errorf("view = records %d total %d page %q", view.Records, view.Summary.Total, view.Page.Indicator)
	}
	if view.Page.Rows[0].ID != "3" {
		t.Errorf("newest row = %s, want 3", view.Page.Rows[0].ID)
	}

	w = app.do(t, http.MethodPost, "/api/admin/dashboard/filter", token, map[string]string{"mode": "custom", "date": "2024-03-01"})
	var filtered models.FilterView
	decode(t, w, &filtered)
	if w.Code != http.StatusOK || filtered.Summary.Total != 2 || filtered.Summary.Label != "Dia 01/03/2024" {
		t.Fatalf("filter = %d %+v", w.Code, filtered.Summary)
	}

	if w := app.do(t, http.MethodPost, "/api/admin/dashboard/filter", token, map[string]string{"mode": "custom"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid filter status = %d, want 400", w.Code)
	}

	w = app.do(t, http.MethodGet, "/api/admin/export?format=csv", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="satisfaction_export.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 4 || lines[0] != "sep=;" || lines[2] != "2;satisfied;01/03/2024;10:00:00;Sexta-feira" {
		t.Errorf("csv lines = %q", lines)
	}

	w = app.do(t, http.MethodGet, "/api/admin/export?format=txt", token, nil)
	if !strings.HasPrefix(w.Body.String(), "ID: 2; Mood: satisfied;") {
		t.Errorf("txt = %q", w.Body.String())
	}
	if w := app.do(t, http.MethodGet, "/api/admin/export?format=pdf", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("pdf export status = %d, want 400", w.Code)
	}

	w = app.do(t, http.MethodGet, "/api/admin/export/clipboard", token, nil)
	var clip struct {
		Text    string `json:"text"`
		Records int    `json:"records"`
	}
	decode(t, w, &clip)
	if clip.Records != 2 || strings.Count(clip.Text, "\n") != 2 {
		t.Errorf("clipboard = %+v", clip)
	}

	if w := app.do(t, http.MethodPost, "/api/admin/export/sheets", token, nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("sheets export status = %d, want 503", w.Code)
	}

	w = app.do(t, http.MethodGet, "/api/admin/dashboard/compare?first=2024-03-01&second=2024-03-02", token, nil)
	var cmp models.Comparison
	decode(t, w, &cmp)
	if cmp.First.Total != 2 || cmp.Second.Total != 1 {
		t.Errorf("compare = %d/%d", cmp.First.Total, cmp.Second.Total)
	}
	if w := app.do(t, http.MethodGet, "/api/admin/dashboard/compare?first=bad", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad compare status = %d", w.Code)
	}
}

func TestPagination(t *testing.T) {
	records := make([]models.VoteRecord, 0, 120)
	for i := 1; i <= 120; i++ {
		records = append(records, models.VoteRecord{ID: int64(i), Mood: models.MoodSatisfied, Date: "01/03/2024", Time: "09:00:00"})
	}
	app := newTestApp(t, testutil.NewMemoryStore(records...))
	token := app.login(t)

	steps := []struct {
		query string
		want  string
	}{
		{"", "1 / 3"},
		{"?action=next", "2 / 3"},
		{"?action=next", "3 / 3"},
		{"?action=next", "3 / 3"},
		{"?action=goto&page=1", "1 / 3"},
		{"?action=prev", "1 / 3"},
	}
	for _, step := range steps {
		w := app.do(t, http.MethodGet, "/api/admin/dashboard/page"+step.query, token, nil)
		var page models.Page
		decode(t, w, &page)
		if page.Indicator != step.want {
			t.Errorf("%s: indicator = %q, want %q", step.query, page.Indicator, step.want)
		}
	}

	if w := app.do(t, http.MethodGet, "/api/admin/dashboard/page?action=sideways", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/api/admin/dashboard/page?action=goto&page=x", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad page status = %d", w.Code)
	}
}

func TestReloadFailureKeepsCache(t *testing.T) {
	store := testutil.NewMemoryStore(models.VoteRecord{ID: 1, Mood: models.MoodSatisfied, Date: "01/03/2024", Time: "09:00:00"})
	app := newTestApp(t, store)
	token := app.login(t)

	store.ListErr = context.DeadlineExceeded
	if w := app.do(t, http.MethodPost, "/api/admin/dashboard/reload", token, nil); w.Code != http.StatusBadGateway {
		t.Fatalf("reload status = %d, want 502", w.Code)
	}

	var view models.DashboardView
	decode(t, app.do(t, http.MethodGet, "/api/admin/dashboard", token, nil), &view)
	if view.Records != 1 {
		t.Errorf("records after failed reload = %d, want 1", view.Records)
	}
}

func TestLogin_ReportsFailedInitialLoad(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.ListErr = context.DeadlineExceeded
	app := newTestApp(t, store)

	w := app.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": adminEmail, "password": adminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token  string `json:"token"`
		Loaded bool   `json:"loaded"`
		Error  string `json:"error"`
	}
	decode(t, w, &resp)
	if resp.Token == "" || resp.Loaded {
		t.Errorf("login = %+v, want token and loaded=false", resp)
	}
	if resp.Error == "" {
		t.Error("login after failed load carries no error message")
	}

	store.ListErr = nil
	if w := app.do(t, http.MethodPost, "/api/admin/dashboard/reload", resp.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("reload status = %d, want 200", w.Code)
	}
}

func TestResetFlow(t *testing.T) {
	store := testutil.SQLiteStore(t)
	app := newTestApp(t, store)
	for _, kiosk := range []string{"a", "b"} {
		app.do(t, http.MethodPost, "/api/votes", "", map[string]string{"mood": "satisfied"}, handlers.KioskHeader, kiosk)
	}
	token := app.login(t)

	if w := app.do(t, http.MethodPost, "/api/admin/reset/request", token, map[string]bool{"confirm": false}); w.Code != http.StatusBadRequest {
		t.Errorf("unconfirmed request status = %d, want 400", w.Code)
	}

	w := app.do(t, http.MethodPost, "/api/admin/reset/request", token, map[string]bool{"confirm": true})
	var ticket reset.Ticket
	decode(t, w, &ticket)
	if ticket.Token == "" {
		t.Fatalf("no token in %s", w.Body.String())
	}

	if w := app.do(t, http.MethodPost, "/api/admin/reset/confirm", token, map[string]any{"token": "wrong", "confirm": true}); w.Code != http.StatusBadRequest {
		t.Errorf("wrong token status = %d, want 400", w.Code)
	}
	// The mismatch did not consume the ticket.
	w = app.do(t, http.MethodPost, "/api/admin/reset/confirm", token, map[string]any{"token": ticket.Token, "confirm": true})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %s", w.Code, w.Body.String())
	}
	var view models.DashboardView
	decode(t, w, &view)
	if view.Records != 0 {
		t.Errorf("cache not cleared: %d records", view.Records)
	}

	records, err := store.ListVotes(context.Background())
	if err != nil || len(records) != 0 {
		t.Fatalf("store after reset: %d records, err %v", len(records), err)
	}

	w = app.do(t, http.MethodPost, "/api/votes", "", map[string]string{"mood": "satisfied"}, handlers.KioskHeader, "c")
	var record models.VoteRecord
	decode(t, w, &record)
	if record.ID != 1 {
		t.Errorf("first id after reset = %d, want 1", record.ID)
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, testutil.NewMemoryStore())
	token := app.login(t)

	if w := app.do(t, http.MethodPost, "/api/admin/logout", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/api/admin/dashboard", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("dashboard after logout status = %d, want 401", w.Code)
	}
}

func TestCORS(t *testing.T) {
	app := newTestApp(t, testutil.NewMemoryStore())

	req := httptest.NewRequest(http.MethodOptions, "/api/votes", nil)
	req.Header.Set("Origin", "http://kiosk.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://kiosk.local" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/votes", nil)
	req.Header.Set("Origin", "http://evil.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}
