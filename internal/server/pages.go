package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/spectre/internal/dashboard"
	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/model"
	"github.com/raysh454/spectre/internal/reportindex"
)

//go:embed web
var webFS embed.FS

const (
	pageIndex    = "index"
	pageScans    = "scans"
	pageScan     = "scan"
	pageLiveFeed = "live_feed"
	pageReports  = "reports"
)

var pageTitles = map[string]string{
	pageIndex:    "Home",
	pageScans:    "Scans",
	pageLiveFeed: "Live Feed",
	pageReports:  "Reports",
}

var pageNav = map[string]string{
	pageIndex:    "home",
	pageScans:    "scans",
	pageScan:     "scans",
	pageLiveFeed: "feed",
	pageReports:  "reports",
}

// inputField is one text input of a scan form.
type inputField struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Required    bool
}

// scanPage describes the dedicated page of one scan kind.
type scanPage struct {
	Kind   model.Kind
	Title  string
	Blurb  string
	Path   string
	FormID string
	// MountID is where the form's results are rendered.
	MountID string
	Fields  []inputField
}

var scanFields = map[model.Kind][]inputField{
	model.KindPort: {
		{Name: "target", Label: "Target", Type: "text", Placeholder: "scanme.nmap.org", Required: true},
		{Name: "ports", Label: "Ports", Type: "text", Placeholder: "21,22,80,443 or 1-1024", Required: true},
	},
	model.KindDomain:    {{Name: "domain", Label: "Domain", Type: "text", Placeholder: "example.com", Required: true}},
	model.KindSocial:    {{Name: "username", Label: "Username", Type: "text", Placeholder: "johndoe", Required: true}},
	model.KindEmail:     {{Name: "email", Label: "Email", Type: "email", Placeholder: "someone@example.com", Required: true}},
	model.KindTech:      {{Name: "url", Label: "URL", Type: "url", Placeholder: "https://example.com", Required: true}},
	model.KindDirectory: {{Name: "url", Label: "URL", Type: "url", Placeholder: "https://example.com", Required: true}},
}

var scanBlurbs = map[model.Kind]string{
	model.KindPort:      "Probe TCP ports, grab service banners and match them against known exploited vulnerabilities.",
	model.KindDomain:    "Enumerate common subdomains, DNS records and WHOIS registration data.",
	model.KindSocial:    "Look for a username across popular social platforms.",
	model.KindEmail:     "Check whether an address appears in known data breaches.",
	model.KindTech:      "Fingerprint the technology stack and interesting response headers of a site.",
	model.KindDirectory: "Brute-force common paths and report the ones that answer.",
}

func scanPages() []scanPage {
	out := make([]scanPage, 0, len(model.Kinds()))
	for _, k := range model.Kinds() {
		mountID, _ := dashboard.ResultsMountID(k.FormID())
		out = append(out, scanPage{
			Kind:    k,
			Title:   k.Title(),
			Blurb:   scanBlurbs[k],
			Path:    "/scans/" + string(k),
			FormID:  k.FormID(),
			MountID: mountID,
			Fields:  scanFields[k],
		})
	}
	return out
}

type pageData struct {
	Title   string
	Nav     string
	Session string
	Scans   []scanPage
	Scan    *scanPage
	Reports []reportindex.Report
}

type pageSet struct {
	byName map[string]*template.Template
}

func loadPages() (*pageSet, error) {
	base, err := template.ParseFS(webFS, "web/templates/layout.html")
	if err != nil {
		return nil, err
	}
	ps := &pageSet{byName: make(map[string]*template.Template)}
	for _, name := range []string{pageIndex, pageScans, pageScan, pageLiveFeed, pageReports} {
		t, err := template.Must(base.Clone()).ParseFS(webFS, "web/templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", name, err)
		}
		ps.byName[name] = t
	}
	return ps, nil
}

func (ps *pageSet) render(name string, data pageData) ([]byte, error) {
	t, ok := ps.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}

// servePage renders a page under a new session id, bootstraps the session
// from the rendered markup and writes the markup out.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.Session = dashboard.NewID()
	if data.Title == "" {
		data.Title = pageTitles[name]
	}
	data.Nav = pageNav[name]

	markup, err := s.pages.render(name, data)
	if err != nil {
		s.logger.Error("rendering page", logging.Field{Key: "page", Value: name}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, "rendering page failed")
		return
	}
	if _, _, err := s.sessions.Open(r.Context(), data.Session, markup); err != nil {
		s.logger.Error("opening session", logging.Field{Key: "page", Value: name}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, "opening session failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(markup)
}

func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{}
		if name == pageScans {
			data.Scans = scanPages()
		}
		s.servePage(w, r, name, data)
	}
}

func (s *Server) handleScanPage(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	for _, p := range scanPages() {
		if p.Kind == kind {
			s.servePage(w, r, pageScan, pageData{Title: p.Title, Scan: &p})
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown scan")
}

func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.List(r.Context(), reportsPageLimit)
	if err != nil {
		s.logger.Warn("listing reports", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.servePage(w, r, pageReports, pageData{Reports: reports})
}
