package dashboard

import (
	"context"
	"errors"
	"html/template"
	"sync"

	"github.com/raysh454/spectre/internal/document"
	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/model"
	"github.com/raysh454/spectre/internal/render"
)

// FeedMountID is the mount the threat feed renders into.
const FeedMountID = "threat-feed-output"

// FeedWidget loads the CVE feed into its mount exactly once.
type FeedWidget struct {
	mount  *document.Mount
	deps   Deps
	logger logging.Logger

	once sync.Once
	done chan struct{}
}

// NewFeedWidget binds the feed to mountID. It returns false when the page
// has no such mount.
func NewFeedWidget(doc *document.Document, mountID string, deps Deps) (*FeedWidget, bool) {
	mount, ok := doc.Mount(mountID)
	if !ok {
		return nil, false
	}
	return &FeedWidget{
		mount:  mount,
		deps:   deps,
		logger: deps.Logger.With(logging.Field{Key: "component", Value: "feed"}),
		done:   make(chan struct{}),
	}, true
}

// Start fetches the feed in the background. Only the first call issues a
// request.
func (f *FeedWidget) Start(ctx context.Context) {
	f.once.Do(func() {
		runCtx := context.WithoutCancel(ctx)
		go func() {
			defer close(f.done)
			f.mount.Set(f.load(runCtx))
		}()
	})
}

// Done is closed once the feed has been written.
func (f *FeedWidget) Done() <-chan struct{} { return f.done }

func (f *FeedWidget) load(ctx context.Context) (html template.HTML) {
	resp, err := f.deps.Backend.Client.Get(ctx, f.deps.Backend.URL(model.FeedEndpoint))
	if err != nil {
		f.logger.Warn("fetching feed", logging.Field{Key: "error", Value: err.Error()})
		return render.FeedClientError()
	}
	items, err := model.DecodeFeed(resp.Body)
	var be *model.BackendError
	switch {
	case errors.As(err, &be):
		return render.FeedError(be.Message)
	case err != nil:
		f.logger.Warn("decoding feed", logging.Field{Key: "error", Value: err.Error()})
		return render.FeedClientError()
	}
	html, err = render.Feed(items)
	if err != nil {
		f.logger.Warn("rendering feed", logging.Field{Key: "error", Value: err.Error()})
		return render.FeedClientError()
	}
	return html
}
