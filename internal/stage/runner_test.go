package stage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apicentric/cloudcheck/internal/executor"
	"github.com/apicentric/cloudcheck/internal/report"
	"github.com/apicentric/cloudcheck/internal/session"
)

func TestRunnerPropagatesTokenAcrossOperations(t *testing.T) {
	var meAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
		case "/api/auth/me":
			meAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"username":"testuser"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	sess := session.New()
	exec := executor.New(srv.URL, sess, nil)
	stages := []Stage{{
		Name: "authentication api",
		Operations: []Operation{
			{Label: "POST /api/auth/login", Method: "POST", Path: "/api/auth/login",
				Body: `{"username":"testuser","password":"testpass123"}`, TokenPath: "token"},
			{Label: "GET /api/auth/me", Method: "GET", Path: "/api/auth/me", Auth: true},
		},
	}}

	var buf bytes.Buffer
	rep := report.New(&buf, false)
	NewRunner(exec, sess, stages).RunAll(context.Background(), rep)

	if meAuth != "Bearer tok-1" {
		t.Fatalf("expected login token on the next call, got %q", meAuth)
	}
	if rep.Failed() {
		t.Fatalf("expected clean run, output:\n%s", buf.String())
	}
}

func TestRunnerContinuesPastFailures(t *testing.T) {
	var deleteSeen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/api/services":
			w.WriteHeader(http.StatusConflict)
		case r.Method == "DELETE" && r.URL.Path == "/api/services/test-service":
			deleteSeen = true
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	sess := session.New()
	exec := executor.New(srv.URL, sess, nil)
	stages := []Stage{
		{Name: "service management api", Operations: []Operation{
			{Label: "POST /api/services", Method: "POST", Path: "/api/services",
				Body: `{"yaml":""}`, Accept: []int{200, 201}},
		}},
		{Name: "cleanup", Operations: []Operation{
			{Label: "DELETE /api/services/test-service", Method: "DELETE", Path: "/api/services/test-service"},
		}},
	}

	var buf bytes.Buffer
	rep := report.New(&buf, false)
	NewRunner(exec, sess, stages).RunAll(context.Background(), rep)

	if !deleteSeen {
		t.Fatalf("expected cleanup DELETE to run despite earlier 409")
	}
	entries := rep.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Passed {
		t.Fatalf("expected create to fail on 409")
	}
	if !entries[1].Passed {
		t.Fatalf("expected cleanup to pass")
	}
}

func TestRunnerClearsTokenOnLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	sess := session.New()
	sess.SetToken("tok-9")
	exec := executor.New(srv.URL, sess, nil)
	stages := []Stage{{Name: "cleanup", Operations: []Operation{
		{Label: "POST /api/auth/logout", Method: "POST", Path: "/api/auth/logout", Auth: true, ClearsToken: true},
	}}}

	var buf bytes.Buffer
	NewRunner(exec, sess, stages).RunAll(context.Background(), report.New(&buf, false))

	if sess.HasToken() {
		t.Fatalf("expected token cleared after logout")
	}
}

func TestRunnerSkipsTokenEffectsOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"token":"should-not-stick"}`))
	}))
	defer srv.Close()

	sess := session.New()
	exec := executor.New(srv.URL, sess, nil)
	stages := []Stage{{Name: "authentication api", Operations: []Operation{
		{Label: "POST /api/auth/login", Method: "POST", Path: "/api/auth/login",
			Body: `{"username":"x","password":"y"}`, TokenPath: "token"},
	}}}

	var buf bytes.Buffer
	NewRunner(exec, sess, stages).RunAll(context.Background(), report.New(&buf, false))

	if sess.HasToken() {
		t.Fatalf("failed login must not update the session token")
	}
}

func TestRunnerEmitsInspectNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"code":"export const x = 1;"}}`))
	}))
	defer srv.Close()

	sess := session.New()
	exec := executor.New(srv.URL, sess, nil)
	stages := []Stage{{Name: "code generation api", Operations: []Operation{
		{Label: "POST /api/codegen/typescript", Method: "POST", Path: "/api/codegen/typescript",
			Body: `{"service_name":"test-service"}`,
			Inspect: func(out executor.Outcome) string {
				if code := out.Field("data.code"); code != "" {
					return "Generated " + code[:6] + "..."
				}
				return ""
			}},
	}}}

	var buf bytes.Buffer
	NewRunner(exec, sess, stages).RunAll(context.Background(), report.New(&buf, false))

	if !bytes.Contains(buf.Bytes(), []byte("Generated export...")) {
		t.Fatalf("missing inspect note in output:\n%s", buf.String())
	}
}
