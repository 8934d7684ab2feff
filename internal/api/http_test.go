package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/careerd/internal/capability"
	"github.com/kalambet/careerd/internal/memory"
	"github.com/kalambet/careerd/internal/profile"
	"github.com/kalambet/careerd/internal/session"
)

const testToken = "test-token"

type staticGenerator struct{ reply string }

func (s staticGenerator) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Memory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := memory.New(nil, logger)
	orch := session.New(mem, capability.NewRegistry(staticGenerator{reply: "advice"}), nil, logger)

	srv := httptest.NewServer(NewHandler(AppDeps{
		Orchestrator: orch,
		Memory:       mem,
		Token:        testToken,
		Version:      "test",
	}))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/ask", "application/json", strings.NewReader(`{"user_id":"u1","query":"help"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAskEndToEnd(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/ask", `{"user_id":"u1","query":"I'm feeling stuck"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var ans session.Answer
	if err := json.NewDecoder(resp.Body).Decode(&ans); err != nil {
		t.Fatal(err)
	}
	if !ans.Success || ans.Capability != capability.CareerCounseling || ans.Message != "advice" {
		t.Errorf("answer = %+v", ans)
	}

	// The exchange is visible through the interactions endpoint.
	resp = doJSON(t, http.MethodGet, srv.URL+"/interactions/u1?capability=career_counseling", "")
	var rows []interactionJSON
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Query != "I'm feeling stuck" {
		t.Errorf("interactions = %+v", rows)
	}
}

func TestAskValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{`{}`, `{"user_id":"u1"}`, `{"query":"x"}`, `not json`} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/ask", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestProfileRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	if resp := doJSON(t, http.MethodGet, srv.URL+"/profile/u1", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET before PUT: status = %d, want 404", resp.StatusCode)
	}

	resp := doJSON(t, http.MethodPut, srv.URL+"/profile/u1", `{"full_name":"Ada Lovelace","headline":"Engineer"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/profile/u1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d", resp.StatusCode)
	}
	var p profile.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.FullName != "Ada Lovelace" {
		t.Errorf("profile = %+v", p)
	}
}

func TestPutProfileRejectsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/profile/u1", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGoalsRoundTrip(t *testing.T) {
	srv, mem := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/goals/u1", `{"target_role":"Staff Engineer"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}

	g, ok := mem.GetGoals("u1")
	if !ok || g.TargetRole != "Staff Engineer" {
		t.Errorf("stored goals = (%+v, %v)", g, ok)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/goals/u1", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET status = %d", resp.StatusCode)
	}
}

func TestCaptureProfileStoresPlaceholder(t *testing.T) {
	srv, mem := newTestServer(t)

	// No fetcher is wired in this server, so capture stores the placeholder.
	resp := doJSON(t, http.MethodPost, srv.URL+"/profile/u1/capture", `{"url":"https://example.com/in/ada"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	p, ok := mem.GetProfile("u1")
	if !ok || !strings.HasPrefix(p.FullName, "Demo User (") {
		t.Errorf("stored = (%+v, %v)", p, ok)
	}
}

func TestListInteractionsEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/interactions/u1", "")
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}
