package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/streetlight/internal/hw"
	"github.com/sweeney/streetlight/internal/light"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	adapter := hw.NewFake()
	adapter.SetAllDark(true)
	engine := light.NewEngine(light.NewStore(), adapter)
	sessions := NewSessions("admin", "secret", time.Hour)
	srv := New(":0", engine, sessions, 0)
	return srv, srv.Handler()
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	body := strings.NewReader(`{"username":"admin","password":"secret"}`)
	req := httptest.NewRequest("POST", "/login", body)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("login response set no session cookie")
	return nil
}

func TestGatedRoutesRejectAnonymous(t *testing.T) {
	_, h := newTestServer(t)

	cases := []struct{ method, path string }{
		{"GET", "/api/data"},
		{"POST", "/control"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, strings.NewReader("{}"))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401", c.method, c.path, rr.Code)
		}
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	_, h := newTestServer(t)

	body := strings.NewReader(`{"username":"admin","password":"wrong"}`)
	req := httptest.NewRequest("POST", "/login", body)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			t.Error("rejected login must not set a session cookie")
		}
	}
}

func TestLoginRejectsBadJSON(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest("POST", "/login", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rr.Code)
	}
}

func TestDataResponseShape(t *testing.T) {
	srv, h := newTestServer(t)
	srv.SetClock(func() time.Time {
		return time.Date(2026, 3, 1, 21, 30, 0, 0, time.UTC)
	})
	cookie := login(t, h)

	req := httptest.NewRequest("GET", "/api/data", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body.String())
	}

	var resp DataResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("success: got false")
	}
	if len(resp.Lights) != light.NumLights {
		t.Fatalf("lights: got %d, want %d", len(resp.Lights), light.NumLights)
	}
	for i, l := range resp.Lights {
		if l.ID != i+1 {
			t.Errorf("light %d: id %d, want %d", i, l.ID, i+1)
		}
	}

	// The fake reads dark, so the healthy lights are ON and the faulty
	// one reports its sentinel readings.
	faulty := resp.Lights[light.FaultIndex]
	if faulty.RelayState != string(light.StateOff) || faulty.Lux != light.FaultLux {
		t.Errorf("faulty light: %+v", faulty)
	}
	if faulty.Voltage != 0 || faulty.Current != 0 {
		t.Errorf("faulty light readings: %+v", faulty)
	}
	for i, l := range resp.Lights {
		if i == light.FaultIndex {
			continue
		}
		if l.RelayState != string(light.StateOn) {
			t.Errorf("light %d: relay %s, want ON in darkness", l.ID, l.RelayState)
		}
		if l.Voltage <= 0 || l.Current <= 0 {
			t.Errorf("light %d: ON with readings %+v", l.ID, l)
		}
	}

	if resp.Stats.TotalVoltage != light.BusVoltage {
		t.Errorf("total_voltage: got %v, want %v", resp.Stats.TotalVoltage, light.BusVoltage)
	}
	if resp.Stats.SystemStatus == "" {
		t.Error("system_status: empty")
	}

	for name, series := range map[string]SeriesJSON{
		"voltage": resp.Charts.Voltage,
		"current": resp.Charts.Current,
	} {
		if len(series.Labels) != historyPoints || len(series.Data) != historyPoints {
			t.Errorf("%s chart: %d labels, %d points, want %d each",
				name, len(series.Labels), len(series.Data), historyPoints)
		}
	}
	if got := resp.Charts.Voltage.Labels[historyPoints-1]; got != "21:30" {
		t.Errorf("last chart label: got %s, want 21:30", got)
	}
	if resp.Time != "21:30:00" {
		t.Errorf("time: got %s, want 21:30:00", resp.Time)
	}
}

func TestDataWireFieldNames(t *testing.T) {
	_, h := newTestServer(t)
	cookie := login(t, h)

	req := httptest.NewRequest("GET", "/api/data", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var raw struct {
		Lights []map[string]any `json:"lights"`
		Stats  map[string]any   `json:"stats"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(raw.Lights) == 0 {
		t.Fatal("no lights in response")
	}
	for _, key := range []string{"id", "relay_state", "voltage", "current", "lux"} {
		if _, ok := raw.Lights[0][key]; !ok {
			t.Errorf("light payload missing %q", key)
		}
	}
	for _, key := range []string{"total_voltage", "total_current", "total_lux", "system_status"} {
		if _, ok := raw.Stats[key]; !ok {
			t.Errorf("stats payload missing %q", key)
		}
	}
}

func TestControl(t *testing.T) {
	_, h := newTestServer(t)
	cookie := login(t, h)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/control", bytes.NewReader([]byte(body)))
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	rr := post(`{"light_id":1,"action":"off"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid control: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp ControlResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Light == nil {
		t.Fatalf("control response: %+v", resp)
	}
	if resp.Light.ID != 1 || resp.Light.RelayState != string(light.StateOff) {
		t.Errorf("control result: %+v", resp.Light)
	}

	for _, body := range []string{
		`{"light_id":0,"action":"on"}`,
		`{"light_id":5,"action":"on"}`,
		`{"light_id":1,"action":"toggle"}`,
	} {
		if rr := post(body); rr.Code != http.StatusBadRequest {
			t.Errorf("control %s: status %d, want 400", body, rr.Code)
		}
	}

	if rr := post("{bad json"); rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status %d, want 400", rr.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	_, h := newTestServer(t)
	cookie := login(t, h)

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: status %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/data", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("revoked session: status %d, want 401", rr.Code)
	}
}

func TestIndexServesDashboard(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: %s", ct)
	}
	if !strings.Contains(rr.Body.String(), "<html") {
		t.Error("dashboard body missing markup")
	}
}
