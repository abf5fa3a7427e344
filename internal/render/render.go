// Package render turns decoded scan results into the HTML fragments written
// into a page's mount points. Every function here is pure: the same input
// always yields byte-identical markup, and all backend-supplied text is
// escaped by html/template.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/raysh454/spectre/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("render").Funcs(template.FuncMap{
	"join":       joinValues,
	"orNA":       orNA,
	"reportHref": ReportHref,
	"hostHref":   hostHref,
}).ParseFS(templateFS, "templates/*.tmpl"))

// ErrKindMismatch is returned when a renderer is handed a result of another
// scan kind.
var ErrKindMismatch = errors.New("result kind does not match renderer")

// Renderer maps one decoded result to markup.
type Renderer interface {
	Render(res model.Result) (template.HTML, error)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(res model.Result) (template.HTML, error)

func (f RendererFunc) Render(res model.Result) (template.HTML, error) { return f(res) }

// ForKind returns the renderer bound to a scan kind.
func ForKind(kind model.Kind) (Renderer, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("no renderer for scan kind %q", kind)
	}
	return RendererFunc(func(res model.Result) (template.HTML, error) {
		if res == nil || res.Kind() != kind {
			return "", ErrKindMismatch
		}
		return Render(res)
	}), nil
}

// Render dispatches on the concrete result variant.
func Render(res model.Result) (template.HTML, error) {
	switch r := res.(type) {
	case *model.PortResult:
		return Port(r)
	case *model.DomainResult:
		return Domain(r)
	case *model.SocialResult:
		return Social(r)
	case *model.EmailResult:
		return Email(r)
	case *model.TechResult:
		return Tech(r)
	case *model.DirectoryResult:
		return Directory(r)
	}
	return "", fmt.Errorf("render: unsupported result type %T", res)
}

func Port(r *model.PortResult) (template.HTML, error)           { return execute("port", r) }
func Domain(r *model.DomainResult) (template.HTML, error)       { return execute("domain", r) }
func Social(r *model.SocialResult) (template.HTML, error)       { return execute("social", r) }
func Email(r *model.EmailResult) (template.HTML, error)         { return execute("email", r) }
func Tech(r *model.TechResult) (template.HTML, error)           { return execute("tech", r) }
func Directory(r *model.DirectoryResult) (template.HTML, error) { return execute("directory", r) }

// ReportAffordance renders the download block for a result, or just its
// message when no report file was announced.
func ReportAffordance(env model.Envelope) template.HTML {
	return mustExecute("affordance", env)
}

// ReportHref is the link a report filename is served under.
func ReportHref(filename string) string {
	return model.ReportsPath + url.PathEscape(filename)
}

// Loading is the placeholder shown while a scan is in flight.
func Loading() template.HTML { return mustExecute("loading", nil) }

// Error renders a backend-reported error message.
func Error(msg string) template.HTML { return mustExecute("error", msg) }

// ClientErrorMessage is shown for transport and decoding failures. The
// underlying cause is never rendered.
const ClientErrorMessage = "Client error."

// ClientError renders the generic client-side failure state.
func ClientError() template.HTML { return Error(ClientErrorMessage) }

// Feed renders the vulnerability feed list.
func Feed(items []model.FeedItem) (template.HTML, error) { return execute("feed", items) }

// FeedError renders a backend-reported feed error.
func FeedError(msg string) template.HTML { return mustExecute("feed_error", msg) }

// FeedClientError renders the generic feed failure state.
func FeedClientError() template.HTML { return mustExecute("feed_client_error", nil) }

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// mustExecute is for templates whose input cannot make execution fail.
func mustExecute(name string, data any) template.HTML {
	out, err := execute(name, data)
	if err != nil {
		panic(err)
	}
	return out
}

func joinValues(values []string) string { return strings.Join(values, ", ") }

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// hostHref links a discovered host name. Internationalized names are
// converted to their ASCII form; names idna rejects are linked as given and
// left to the template's URL filtering.
func hostHref(host string) string {
	if ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(host, ".")); err == nil {
		host = ascii
	}
	return "https://" + host
}
