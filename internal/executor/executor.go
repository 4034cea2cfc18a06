// Package executor performs single HTTP operations against the server under
// test. Transport failures never escape as errors; every call yields an
// Outcome the stage runner and reporter can consume.
package executor

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/apicentric/cloudcheck/internal/common"
	"github.com/apicentric/cloudcheck/internal/httpc"
	"github.com/apicentric/cloudcheck/internal/session"
)

// Outcome is the normalized result of one operation. OK is false only for
// transport-level failures; unexpected status codes are judged by the
// reporter against each operation's accepted set.
type Outcome struct {
	OK     bool
	Status int
	Body   string
	Err    string
}

// JSON parses the response body with gjson. Safe on empty or non-JSON bodies.
func (o Outcome) JSON() gjson.Result {
	return gjson.Parse(o.Body)
}

// Field extracts a gjson path from the response body, "" when absent.
func (o Outcome) Field(path string) string {
	return o.JSON().Get(path).String()
}

// Executor issues operations against a base URL, injecting the session's
// bearer token on auth-required calls.
type Executor struct {
	BaseURL string
	Session *session.Session
	Client  *httpc.Httpc
}

// New returns an executor for the given target.
func New(baseURL string, sess *session.Session, client *httpc.Httpc) *Executor {
	if client == nil {
		client = &httpc.Httpc{}
	}
	return &Executor{BaseURL: strings.TrimRight(baseURL, "/"), Session: sess, Client: client}
}

// Execute sends a single request and converts the result into an Outcome.
// The body, when non-empty, is sent as JSON. When authRequired is set and the
// session holds a token, an Authorization bearer header is added; without a
// token the request still goes out unauthenticated and the server's own
// response code tells the story.
//
// Supported methods are GET, POST, PUT and DELETE. Anything else is a caller
// bug and panics rather than producing a fake Outcome.
func (e *Executor) Execute(ctx context.Context, method, path, body string, authRequired bool) Outcome {
	logger := common.GetLogger().WithComponent("executor")
	url := e.BaseURL + path

	req := e.buildRequest(ctx, body, authRequired)
	resp, err := execByMethod(req, method, url)
	if err != nil {
		logger.Warn("request failed", "method", method, "url", url, "error", err)
		return Outcome{OK: false, Err: fmt.Sprintf("%s %s: %v", method, path, err)}
	}

	out := Outcome{OK: true, Status: resp.StatusCode(), Body: string(resp.Body())}
	logger.Debug("request complete", "method", method, "url", url, "status_code", out.Status, "response_size", len(out.Body))
	return out
}

func (e *Executor) buildRequest(ctx context.Context, body string, authRequired bool) *resty.Request {
	req := e.Client.New().R().SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	if authRequired && e.Session != nil && e.Session.HasToken() {
		req.SetHeader("Authorization", "Bearer "+e.Session.Token())
	}
	if strings.TrimSpace(body) != "" {
		req.SetBody([]byte(body))
	}
	return req
}

func execByMethod(req *resty.Request, method, url string) (*resty.Response, error) {
	switch method {
	case http.MethodGet:
		return req.Get(url)
	case http.MethodPost:
		return req.Post(url)
	case http.MethodPut:
		return req.Put(url)
	case http.MethodDelete:
		return req.Delete(url)
	default:
		panic(fmt.Sprintf("executor: unsupported method: %s", method))
	}
}
