// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/url"
	"sync"
	"time"

	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// WarnCount returns how many warnings were logged.
func (l *DummyLogger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warns)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyResponse scripts one reply of DummyWebClient.
type DummyResponse struct {
	Status int
	Body   string
	Err    error
	Delay  time.Duration
}

// DummyWebClient implements webclient.WebClient.
// Replies are looked up by URL path in Routes; unknown paths get a 404 with
// an empty body. Handle, when set, overrides Routes entirely.
type DummyWebClient struct {
	Routes map[string]DummyResponse
	Handle func(ctx context.Context, req *webclient.Request) (*webclient.Response, error)

	mu       sync.Mutex
	Requests []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	handle := d.Handle
	d.mu.Unlock()

	if handle != nil {
		return handle(ctx, req)
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	dr, ok := d.Routes[u.Path]
	if !ok {
		dr = DummyResponse{Status: 404}
	}
	if dr.Delay > 0 {
		select {
		case <-time.After(dr.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if dr.Err != nil {
		return nil, dr.Err
	}
	if dr.Status == 0 {
		dr.Status = 200
	}
	return &webclient.Response{
		Request:    req,
		Body:       []byte(dr.Body),
		StatusCode: dr.Status,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// Calls returns how many requests hit the given URL path.
func (d *DummyWebClient) Calls(path string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, r := range d.Requests {
		if u, err := url.Parse(r.URL); err == nil && u.Path == path {
			n++
		}
	}
	return n
}

// JSONResponse is a convenience for a 200 reply carrying body.
func JSONResponse(req *webclient.Request, body string) *webclient.Response {
	return &webclient.Response{Request: req, Body: []byte(body), StatusCode: 200, FetchedAt: time.Now()}
}

// ─── helpers ───────────────────────────────────────────────────────────

// FormValues decodes a multipart request body built by
// webclient.NewMultipartRequest.
func FormValues(req *webclient.Request) (url.Values, error) {
	_, params, err := mime.ParseMediaType(req.Headers.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("content type: %w", err)
	}
	mr := multipart.NewReader(bytes.NewReader(req.Body), params["boundary"])
	form, err := mr.ReadForm(1 << 20)
	if err != nil {
		return nil, err
	}
	out := url.Values{}
	for k, vs := range form.Value {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out, nil
}

type errString struct{ s string }

func (e *errString) Error() string { return e.s }

// Err returns a plain error with the given text.
func Err(s string) error { return &errString{s} }
