package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/backoffice/internal/auth"
	"github.com/tinytelemetry/backoffice/internal/duckdb"
	"github.com/tinytelemetry/backoffice/internal/mockdata"
	"github.com/tinytelemetry/backoffice/internal/model"
	"github.com/tinytelemetry/backoffice/internal/screens"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	adminToken      = "tok-admin"
	complianceToken = "tok-compliance"
)

func newTestServer(t *testing.T) (*Server, *duckdb.Store, model.Dataset, *gin.Engine) {
	t.Helper()
	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ds := mockdata.NewDataset(model.DefaultSeed, 256)
	if err := store.Seed(ds); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	sessions := auth.NewSessionStore(time.Hour)
	sessions.Grant(adminToken, model.RoleAdmin)
	sessions.Grant(complianceToken, model.RoleCompliance)

	catalog := screens.NewCatalog(screens.Deps{Store: store, Operator: "api-test"})
	srv := NewServer("", catalog, sessions)
	srv.startTime = time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	srv.routes(r)

	return srv, store, ds, r
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(data)
	} else {
		buf = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	_, _, _, r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	body := decode[struct {
		Status  string           `json:"status"`
		Records map[string]int64 `json:"records"`
	}](t, w)
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if got := body.Records["users"]; got != 256 {
		t.Errorf("records[users] = %d, want 256", got)
	}
}

func TestSessionRequired(t *testing.T) {
	_, _, _, r := newTestServer(t)

	if w := do(t, r, http.MethodGet, "/api/screens", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/screens", "bogus", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bogus token status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/screens", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: adminToken})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("cookie session status = %d, want 200", w.Code)
	}
}

func TestScreensFilteredByRole(t *testing.T) {
	_, _, _, r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/screens", complianceToken, nil)
	body := decode[struct {
		Role    string         `json:"role"`
		Screens []screens.Info `json:"screens"`
	}](t, w)
	if body.Role != model.RoleCompliance {
		t.Errorf("role = %q, want compliance", body.Role)
	}
	if len(body.Screens) != 1 || body.Screens[0].ID != "kyc" {
		t.Errorf("screens = %+v, want only kyc", body.Screens)
	}

	if w := do(t, r, http.MethodGet, "/api/screens/users", complianceToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("compliance users status = %d, want 403", w.Code)
	}
}

func TestTableEndpoint_Pagination(t *testing.T) {
	_, _, ds, r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/screens/users?page=19", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	v := decode[screens.View](t, w)
	if v.Pagination.TotalPages != 19 || v.Pagination.CurrentPage != 19 {
		t.Errorf("pagination = %+v, want page 19 of 19", v.Pagination)
	}
	if len(v.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(v.Rows))
	}
	if v.Rows[3].ID != ds.Users[255].ID {
		t.Errorf("last row = %s, want %s", v.Rows[3].ID, ds.Users[255].ID)
	}
	if v.Menu.Open || v.Menu.Position != nil {
		t.Errorf("menu = %+v, want closed", v.Menu)
	}
}

func TestTableEndpoint_InvalidPageIgnored(t *testing.T) {
	_, _, _, r := newTestServer(t)

	for _, page := range []string{"0", "99", "abc"} {
		w := do(t, r, http.MethodGet, "/api/screens/users?page="+page, adminToken, nil)
		v := decode[screens.View](t, w)
		if v.Pagination.CurrentPage != 1 {
			t.Errorf("page=%s current = %d, want 1", page, v.Pagination.CurrentPage)
		}
	}
}

func TestTableEndpoint_FilterNoMatches(t *testing.T) {
	_, _, _, r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/screens/trades?status=archived", adminToken, nil)
	v := decode[screens.View](t, w)
	if !v.Empty || len(v.Rows) != 0 {
		t.Errorf("empty = %v rows = %d, want empty", v.Empty, len(v.Rows))
	}
	if v.Pagination.RangeStart != 0 || v.Pagination.RangeEnd != 0 || v.Pagination.TotalCount != 0 {
		t.Errorf("pagination = %+v, want 0 - 0 of 0", v.Pagination)
	}
	if v.Pagination.HasPrev || v.Pagination.HasNext {
		t.Errorf("prev/next enabled on empty result")
	}
}

func TestTableEndpoint_UnknownScreen(t *testing.T) {
	_, _, _, r := newTestServer(t)

	if w := do(t, r, http.MethodGet, "/api/screens/ledger", adminToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestActionEndpoint_DestructiveFlow(t *testing.T) {
	_, store, ds, r := newTestServer(t)
	id := ds.Signals[3].ID
	path := "/api/screens/signals/records/" + id + "/actions/delete"

	if w := do(t, r, http.MethodPost, path, adminToken, nil); w.Code != http.StatusConflict {
		t.Fatalf("unconfirmed status = %d, want 409", w.Code)
	}

	w := do(t, r, http.MethodPost, path, adminToken, map[string]bool{"confirm": false})
	if w.Code != http.StatusOK {
		t.Fatalf("declined status = %d, want 200", w.Code)
	}
	if got := decode[map[string]any](t, w)["status"]; got != "declined" {
		t.Errorf("declined body status = %v, want declined", got)
	}
	var s model.Signal
	if err := store.Get(model.KindSignals, id, &s); err != nil {
		t.Fatalf("declined delete removed record: %v", err)
	}

	w = do(t, r, http.MethodPost, path, adminToken, map[string]bool{"confirm": true})
	if w.Code != http.StatusOK {
		t.Fatalf("confirmed status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if w := do(t, r, http.MethodPost, path, adminToken, map[string]bool{"confirm": true}); w.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", w.Code)
	}
}

func TestActionEndpoint_ViewAndErrors(t *testing.T) {
	_, _, ds, r := newTestServer(t)
	id := ds.Users[0].ID

	w := do(t, r, http.MethodPost, "/api/screens/users/records/"+id+"/actions/view", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("view status = %d, want 200", w.Code)
	}
	body := decode[struct {
		Record model.User `json:"record"`
	}](t, w)
	if body.Record.ID != id {
		t.Errorf("record id = %s, want %s", body.Record.ID, id)
	}

	if w := do(t, r, http.MethodPost, "/api/screens/users/records/"+id+"/actions/archive", adminToken, nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/screens/users/records/usr_missing/actions/view", adminToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing record status = %d, want 404", w.Code)
	}
}

func TestActionEndpoint_InvalidTransition(t *testing.T) {
	_, _, ds, r := newTestServer(t)

	var id string
	for _, s := range ds.Signals {
		if s.Status == "paused" {
			id = s.ID
			break
		}
	}
	if id == "" {
		t.Skip("no paused signal in dataset")
	}

	w := do(t, r, http.MethodPost, "/api/screens/signals/records/"+id+"/actions/pause", adminToken, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("pause paused signal status = %d, want 409", w.Code)
	}
	w = do(t, r, http.MethodPost, "/api/screens/signals/records/"+id+"/actions/resume", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("resume status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestMenuPositionEndpoint(t *testing.T) {
	_, _, _, r := newTestServer(t)

	tests := []struct {
		name    string
		body    map[string]any
		wantTop int
		wantL   int
	}{
		{
			name:    "left placement",
			body:    map[string]any{"trigger": map[string]int{"left": 500, "right": 530, "top": 100, "bottom": 120}, "viewportWidth": 800},
			wantTop: 130, wantL: 330,
		},
		{
			name:    "flip right",
			body:    map[string]any{"trigger": map[string]int{"left": 50, "right": 80, "top": 100, "bottom": 120}, "viewportWidth": 800},
			wantTop: 130, wantL: 90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/menu/position", adminToken, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			pos := decode[struct {
				Top  int `json:"top"`
				Left int `json:"left"`
			}](t, w)
			if pos.Top != tt.wantTop || pos.Left != tt.wantL {
				t.Errorf("position = %+v, want top %d left %d", pos, tt.wantTop, tt.wantL)
			}
		})
	}
}

func TestAdjustmentEndpoint(t *testing.T) {
	_, store, ds, r := newTestServer(t)
	u := ds.Users[7]

	w := do(t, r, http.MethodPost, "/api/wallets/adjustments", adminToken, map[string]any{
		"userId": u.ID, "amount": 50, "currency": "eur", "reason": "goodwill credit",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	adj := decode[model.WalletAdjustment](t, w)
	if adj.Type != "credit" || adj.Currency != "EUR" || adj.Operator != "api-test" {
		t.Errorf("adjustment = %+v, want EUR credit by api-test", adj)
	}

	var got model.User
	if err := store.Get(model.KindUsers, u.ID, &got); err != nil {
		t.Fatalf("Get user: %v", err)
	}
	if got.Balance < u.Balance+49.99 || got.Balance > u.Balance+50.01 {
		t.Errorf("balance = %.2f, want %.2f", got.Balance, u.Balance+50)
	}

	if w := do(t, r, http.MethodPost, "/api/wallets/adjustments", adminToken, map[string]any{"userId": u.ID, "amount": 0, "reason": "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("zero amount status = %d, want 400", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/wallets/adjustments", adminToken, map[string]any{"userId": "usr_missing", "amount": 5, "reason": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/wallets/adjustments", complianceToken, map[string]any{"userId": u.ID, "amount": 5, "reason": "x"}); w.Code != http.StatusForbidden {
		t.Errorf("compliance status = %d, want 403", w.Code)
	}
}
