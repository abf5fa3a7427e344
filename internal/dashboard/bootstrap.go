package dashboard

import (
	"context"
	"fmt"

	"github.com/raysh454/spectre/internal/document"
	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/model"
	"github.com/raysh454/spectre/internal/render"
)

// DefaultBindings returns the six scan forms of the dashboard, in the
// order they are bound.
func DefaultBindings() []Binding {
	kinds := model.Kinds()
	out := make([]Binding, 0, len(kinds))
	for _, k := range kinds {
		r, err := render.ForKind(k)
		if err != nil {
			panic(fmt.Sprintf("dashboard: no renderer for %q: %v", k, err))
		}
		out = append(out, Binding{FormID: k.FormID(), Kind: k, Endpoint: k.Endpoint(), Renderer: r})
	}
	return out
}

// Page is a bootstrapped document: the controllers and feed bound to it.
type Page struct {
	Doc  *document.Document
	Feed *FeedWidget

	controllers map[string]*Controller
	order       []string
}

// Bootstrap binds a controller for every binding whose form is present and
// starts the feed widget when its mount is present. Absent forms and
// mounts are skipped silently.
func Bootstrap(ctx context.Context, doc *document.Document, bindings []Binding, deps Deps) *Page {
	p := &Page{Doc: doc, controllers: make(map[string]*Controller)}
	for _, b := range bindings {
		c, ok := Bind(doc, b, deps)
		if !ok {
			continue
		}
		p.controllers[b.FormID] = c
		p.order = append(p.order, b.FormID)
	}

	if feed, ok := NewFeedWidget(doc, FeedMountID, deps); ok {
		p.Feed = feed
		feed.Start(ctx)
	}

	deps.Logger.Debug("page bootstrapped",
		logging.Field{Key: "forms", Value: p.order},
		logging.Field{Key: "feed", Value: p.Feed != nil})
	return p
}

// Controller returns the controller bound to formID.
func (p *Page) Controller(formID string) (*Controller, bool) {
	c, ok := p.controllers[formID]
	return c, ok
}

// Forms lists the bound form ids in binding order.
func (p *Page) Forms() []string {
	return append([]string(nil), p.order...)
}

// Wait blocks until every in-flight submission and the feed load resolve.
func (p *Page) Wait() {
	for _, c := range p.controllers {
		c.Wait()
	}
	if p.Feed != nil {
		<-p.Feed.Done()
	}
}

// Close drops every subscriber of the page's document.
func (p *Page) Close() {
	p.Doc.Close()
}
