package executor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apicentric/cloudcheck/internal/session"
)

func TestExecuteInjectsBearerToken(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"username":"testuser"}`))
	}))
	defer srv.Close()

	sess := session.New()
	sess.SetToken("abc")
	exec := New(srv.URL, sess, nil)

	out := exec.Execute(context.Background(), "GET", "/api/auth/me", "", true)
	if !out.OK {
		t.Fatalf("expected transport ok, got error %q", out.Err)
	}
	if out.Status != 200 {
		t.Fatalf("expected 200, got %d", out.Status)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected Authorization 'Bearer abc', got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected JSON content type, got %q", gotContentType)
	}
	if got := out.Field("username"); got != "testuser" {
		t.Fatalf("expected field extraction, got %q", got)
	}
}

func TestExecuteWithoutTokenStillSends(t *testing.T) {
	var gotAuth string
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	exec := New(srv.URL, session.New(), nil)
	out := exec.Execute(context.Background(), "GET", "/api/auth/me", "", true)

	// No local short-circuit: the request goes out unauthenticated and the
	// server's response code tells the story.
	if !called {
		t.Fatalf("expected request to be sent")
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
	if !out.OK || out.Status != 401 {
		t.Fatalf("expected ok=true status=401, got ok=%v status=%d", out.OK, out.Status)
	}
}

func TestExecuteTransportFailureYieldsOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // connection refused from here on

	exec := New(srv.URL, session.New(), nil)
	out := exec.Execute(context.Background(), "GET", "/health", "", false)
	if out.OK {
		t.Fatalf("expected transport failure outcome")
	}
	if out.Err == "" {
		t.Fatalf("expected descriptive error string")
	}
}

func TestExecuteSendsBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	exec := New(srv.URL, session.New(), nil)
	out := exec.Execute(context.Background(), "POST", "/api/auth/register", `{"username":"u","password":"p"}`, false)
	if !out.OK || out.Status != 201 {
		t.Fatalf("expected 201, got ok=%v status=%d", out.OK, out.Status)
	}
	if gotBody != `{"username":"u","password":"p"}` {
		t.Fatalf("unexpected body: %q", gotBody)
	}
}

func TestExecuteUnsupportedMethodPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unsupported method")
		}
	}()
	exec := New("http://localhost:0", session.New(), nil)
	exec.Execute(context.Background(), "PATCH", "/", "", false)
}
