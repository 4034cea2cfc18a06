// Package dashboard drives the cloud server's web dashboard through a
// headless browser, substituting canned responses for the real backend so
// the UI can be exercised deterministically.
package dashboard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/apicentric/cloudcheck/internal/common"
)

// CannedResponse is a fixed response served in place of a real backend call.
type CannedResponse struct {
	Status      int
	ContentType string
	Body        string
}

// Responder maps a request method to either a canned response (ok=true) or a
// pass-through instruction (ok=false). Responders must be pure.
type Responder func(method string) (CannedResponse, bool)

type rule struct {
	pattern string
	re      *regexp.Regexp
	respond Responder
}

// MockRouter holds an ordered list of (pattern, responder) pairs. Rules are
// evaluated in registration order and the first matching pattern wins, so
// registration order is the sole disambiguation mechanism: specific patterns
// go in before any catch-all sharing their prefix. An ordered slice, not a
// map, because that ordering is semantically load-bearing.
type MockRouter struct {
	rules []rule
}

// NewMockRouter returns an empty router.
func NewMockRouter() *MockRouter {
	return &MockRouter{}
}

// Register appends a rule. Patterns use URL glob syntax: `**` spans path
// segments, `*` stops at `/`, `?` matches one character.
func (m *MockRouter) Register(pattern string, respond Responder) error {
	re, err := compileGlob(pattern)
	if err != nil {
		return fmt.Errorf("mock router: pattern %q: %w", pattern, err)
	}
	m.rules = append(m.rules, rule{pattern: pattern, re: re, respond: respond})
	return nil
}

// Dispatch finds the first rule matching url and asks its responder about
// method. ok=false means pass through to the real network, either because no
// pattern matched or because the matching responder declined the method. In
// a fully mocked environment pass-through surfaces as a visible network
// error, which is the point: uncovered endpoints should be loud.
func (m *MockRouter) Dispatch(url, method string) (CannedResponse, bool) {
	for _, r := range m.rules {
		if r.re.MatchString(url) {
			return r.respond(method)
		}
	}
	return CannedResponse{}, false
}

// Install registers a single catch-all browser route that funnels every
// request through Dispatch. Doing the matching here rather than with one
// browser route per pattern keeps the first-match-wins order exactly as
// registered.
func (m *MockRouter) Install(page playwright.Page) error {
	logger := common.GetLogger().WithComponent("mock-router")
	return page.Route("**/*", func(route playwright.Route) {
		url := route.Request().URL()
		method := route.Request().Method()

		resp, ok := m.Dispatch(url, method)
		if !ok {
			logger.Debug("pass-through", "method", method, "url", url)
			if err := route.Continue(); err != nil {
				logger.Warn("continue failed", "url", url, "error", err)
			}
			return
		}

		logger.Debug("fulfilling", "method", method, "url", url, "status_code", resp.Status)
		err := route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(resp.Status),
			ContentType: playwright.String(resp.ContentType),
			Body:        resp.Body,
		})
		if err != nil {
			logger.Warn("fulfill failed", "url", url, "error", err)
		}
	})
}

// compileGlob converts a URL glob into an anchored regexp.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				sb.WriteString(".*")
				i++
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// JSONAlways fulfills every method with the same JSON body.
func JSONAlways(status int, body string) Responder {
	return func(string) (CannedResponse, bool) {
		return CannedResponse{Status: status, ContentType: "application/json", Body: body}, true
	}
}

// JSONForGet fulfills GET with the body and passes everything else through.
func JSONForGet(status int, body string) Responder {
	return func(method string) (CannedResponse, bool) {
		if method == "GET" {
			return CannedResponse{Status: status, ContentType: "application/json", Body: body}, true
		}
		return CannedResponse{}, false
	}
}

// WriteSuccess answers POST/PUT/DELETE with a generic success envelope and
// passes reads through. Used as the API catch-all so mutating calls made by
// the UI never error out.
func WriteSuccess() Responder {
	return func(method string) (CannedResponse, bool) {
		switch method {
		case "POST", "PUT", "DELETE":
			return CannedResponse{Status: 200, ContentType: "application/json", Body: `{"success": true, "data": {}}`}, true
		default:
			return CannedResponse{}, false
		}
	}
}
