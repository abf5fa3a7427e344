package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"sync"

	"github.com/raysh454/spectre/internal/document"
	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/model"
	"github.com/raysh454/spectre/internal/render"
	"github.com/raysh454/spectre/internal/webclient"
)

// Status is how a submission ended.
type Status string

const (
	StatusPending      Status = "pending"
	StatusRendered     Status = "rendered"
	StatusBackendError Status = "backend_error"
	StatusClientError  Status = "client_error"

	// StatusDiscarded means a newer submission to the same form was issued
	// before this one resolved, so its outcome was never written.
	StatusDiscarded Status = "discarded"
)

// Binding ties a form to the endpoint it submits to and the renderer for
// the endpoint's result.
type Binding struct {
	FormID   string
	Kind     model.Kind
	Endpoint string
	Renderer render.Renderer
}

// ResultsMountID derives a form's results mount id by replacing its
// trailing "form" token with "results". ok is false when formID does not
// end in "form".
func ResultsMountID(formID string) (string, bool) {
	base, found := strings.CutSuffix(formID, "form")
	if !found {
		return "", false
	}
	return base + "results", true
}

// Controller runs the submit/await/render pipeline for one form. Every
// submission overwrites the form's results mount; a response only lands if
// its submission is still the latest one issued.
type Controller struct {
	binding Binding
	form    document.Form
	mount   *document.Mount
	deps    Deps
	logger  logging.Logger

	mu     sync.Mutex
	latest uint64

	inflight sync.WaitGroup
}

// Bind attaches a controller to the form named by b.FormID. It returns
// false, and binds nothing, when the page has no such form or no matching
// results mount.
func Bind(doc *document.Document, b Binding, deps Deps) (*Controller, bool) {
	form, ok := doc.Form(b.FormID)
	if !ok {
		return nil, false
	}
	logger := deps.Logger.With(logging.Field{Key: "component", Value: "controller"}, logging.Field{Key: "form", Value: b.FormID})

	mountID, ok := ResultsMountID(b.FormID)
	if !ok {
		logger.Warn("form id does not end in \"form\"; not binding")
		return nil, false
	}
	mount, ok := doc.Mount(mountID)
	if !ok {
		logger.Warn("results mount missing; not binding", logging.Field{Key: "mount", Value: mountID})
		return nil, false
	}

	return &Controller{
		binding: b,
		form:    form,
		mount:   mount,
		deps:    deps,
		logger:  logger,
	}, true
}

func (c *Controller) FormID() string   { return c.binding.FormID }
func (c *Controller) MountID() string  { return c.mount.ID() }
func (c *Controller) Kind() model.Kind { return c.binding.Kind }

// HTML returns the current markup of the controller's results mount.
func (c *Controller) HTML() template.HTML { return c.mount.HTML() }

// Submission is the handle of one issued scan request.
type Submission struct {
	seq  uint64
	done chan struct{}

	status Status
	err    error
}

// Seq is the submission's position in its form's sequence, starting at 1.
func (s *Submission) Seq() uint64 { return s.seq }

// Done is closed once the submission has resolved.
func (s *Submission) Done() <-chan struct{} { return s.done }

// Wait blocks until the submission resolves or ctx ends.
func (s *Submission) Wait(ctx context.Context) (Status, error) {
	select {
	case <-s.done:
		return s.status, nil
	case <-ctx.Done():
		return StatusPending, ctx.Err()
	}
}

// Err is the failure behind a client or backend error. It is only
// meaningful after Done is closed.
func (s *Submission) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Submit shows the loading state and issues the scan request in the
// background. values holds the submitted form fields; only the fields the
// form declares are sent. The request is detached from ctx's cancellation:
// once issued it always runs to completion.
func (c *Controller) Submit(ctx context.Context, values url.Values) *Submission {
	c.mu.Lock()
	c.latest++
	sub := &Submission{seq: c.latest, done: make(chan struct{}), status: StatusPending}
	c.mount.Set(render.Loading())
	c.mu.Unlock()

	fields := c.fields(values)
	runCtx := context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(sub.done)
		sub.status, sub.err = c.run(runCtx, sub.seq, fields)
	}()
	return sub
}

// Wait blocks until every issued submission has resolved.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// fields serializes the form the way a browser would: declared fields in
// document order, missing ones omitted.
func (c *Controller) fields(values url.Values) []webclient.FormField {
	var out []webclient.FormField
	for _, name := range c.form.Fields {
		for _, v := range values[name] {
			out = append(out, webclient.FormField{Name: name, Value: v})
		}
	}
	return out
}

func (c *Controller) run(ctx context.Context, seq uint64, fields []webclient.FormField) (Status, error) {
	log := c.logger.With(logging.Field{Key: "seq", Value: seq})

	res, err := c.fetch(ctx, fields)
	var (
		html   template.HTML
		status Status
		be     *model.BackendError
	)
	switch {
	case errors.As(err, &be):
		html, status = render.Error(be.Message), StatusBackendError
	case err != nil:
		log.Warn("scan request failed", logging.Field{Key: "error", Value: err.Error()})
		html, status = render.ClientError(), StatusClientError
	default:
		html, err = c.binding.Renderer.Render(res)
		if err != nil {
			log.Warn("rendering result failed", logging.Field{Key: "error", Value: err.Error()})
			html, status = render.ClientError(), StatusClientError
		} else {
			status = StatusRendered
		}
	}

	if res != nil && res.Meta().HasReport() {
		c.recordReport(ctx, log, res)
	}

	if !c.commit(seq, html) {
		log.Debug("discarding stale response", logging.Field{Key: "status", Value: string(status)})
		return StatusDiscarded, err
	}
	log.Info("scan resolved", logging.Field{Key: "status", Value: string(status)})
	return status, err
}

func (c *Controller) fetch(ctx context.Context, fields []webclient.FormField) (model.Result, error) {
	req, err := webclient.NewMultipartRequest(c.deps.Backend.URL(c.binding.Endpoint), fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.deps.Backend.Client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	res, err := model.Decode(c.binding.Kind, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, err)
	}
	return res, nil
}

// commit writes html if seq is still the latest submission.
func (c *Controller) commit(seq uint64, html template.HTML) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.latest {
		return false
	}
	c.mount.Set(html)
	return true
}

func (c *Controller) recordReport(ctx context.Context, log logging.Logger, res model.Result) {
	if c.deps.Reports == nil {
		return
	}
	filename := res.Meta().ReportFilename
	if _, err := c.deps.Reports.Record(ctx, res.Kind(), filename, model.Subject(res)); err != nil {
		log.Warn("recording report", logging.Field{Key: "filename", Value: filename}, logging.Field{Key: "error", Value: err.Error()})
	}
}
