package demobackend

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/model"
)

const feedSize = 10

// DemoBackend is a stand-in scan service. It answers every scan endpoint
// with deterministic results derived from the submitted target, writes a
// text report per scan and serves those reports back.
type DemoBackend struct {
	cfg    Config
	router chi.Router
	logger logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	reports map[string]string
}

// NewDemoBackend creates a new demo backend instance.
func NewDemoBackend(cfg Config, logger logging.Logger) *DemoBackend {
	if logger == nil {
		logger = logging.NewStdoutLogger("demobackend")
	}
	b := &DemoBackend{
		cfg:     cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		now:     time.Now,
		reports: make(map[string]string),
	}
	b.routes()
	return b
}

func (b *DemoBackend) routes() {
	r := b.router
	r.Post(model.KindPort.Endpoint(), b.scanHandler(b.portScan))
	r.Post(model.KindDomain.Endpoint(), b.scanHandler(b.domainRecon))
	r.Post(model.KindSocial.Endpoint(), b.scanHandler(b.socialScout))
	r.Post(model.KindEmail.Endpoint(), b.scanHandler(b.emailCheck))
	r.Post(model.KindTech.Endpoint(), b.scanHandler(b.techEnum))
	r.Post(model.KindDirectory.Endpoint(), b.scanHandler(b.dirScan))
	r.Get(model.FeedEndpoint, b.handleFeed)
	r.Get(model.ReportsPath+"{filename}", b.handleReport)
}

// ServeHTTP implements http.Handler.
func (b *DemoBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Start listens on the configured port.
func (b *DemoBackend) Start() error {
	addr := fmt.Sprintf(":%d", b.cfg.Port)
	b.logger.Info("demo backend starting", logging.Field{Key: "addr", Value: addr})
	return http.ListenAndServe(addr, b)
}

// Reports lists the names of the reports written so far.
func (b *DemoBackend) Reports() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.reports))
	for name := range b.reports {
		out = append(out, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// scanError is answered as {"error": msg} with status 400.
type scanError string

type scanFunc func(form func(string) string) (result any, report string, err error)

func (b *DemoBackend) scanHandler(scan scanFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form body"})
			return
		}
		if b.cfg.Latency > 0 {
			select {
			case <-time.After(b.cfg.Latency):
			case <-r.Context().Done():
				return
			}
		}

		form := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
		result, report, err := scan(form)
		if err != nil {
			b.logger.Info("scan rejected", logging.Field{Key: "path", Value: r.URL.Path}, logging.Field{Key: "error", Value: err.Error()})
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if report != "" {
			b.logger.Info("report written", logging.Field{Key: "filename", Value: report})
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (e scanError) Error() string { return string(e) }

func (b *DemoBackend) timestamp() string {
	return b.now().Format("20060102_150405")
}

func (b *DemoBackend) saveReport(name, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reports[name] = body
}

func (b *DemoBackend) reportHeader(title string, lines ...string) *strings.Builder {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s ---\n", title)
	fmt.Fprintf(&sb, "Time: %s\n", b.now().Format("2006-01-02 15:04:05"))
	for _, l := range lines {
		sb.WriteString(l + "\n")
	}
	sb.WriteString("--------------------------------------\n\n")
	return &sb
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w.-]`)

// cleanFilename turns a URL into something safe to embed in a report name.
func cleanFilename(url string) string {
	url = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	return unsafeFilenameChars.ReplaceAllString(url, "_")
}

// demoIP maps a host to a stable address in TEST-NET-3.
func demoIP(host string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	return fmt.Sprintf("203.0.113.%d", h.Sum32()%254+1)
}

// ─── Scans ─────────────────────────────────────────────────────────────

func (b *DemoBackend) portScan(form func(string) string) (any, string, error) {
	target := form("target")
	if target == "" {
		return nil, "", scanError("Target is required.")
	}
	if strings.ContainsAny(target, " /") {
		return nil, "", scanError("Cannot resolve hostname: " + target)
	}
	ports, err := parsePorts(form("ports"))
	if err != nil {
		return nil, "", err
	}

	res := &model.PortResult{Target: target, TargetIP: demoIP(target), Results: []model.PortFinding{}}
	for _, p := range ports {
		if f, ok := knownBanners[p]; ok {
			res.Results = append(res.Results, f)
		}
	}

	name := fmt.Sprintf("port_scan_%s.txt", b.timestamp())
	sb := b.reportHeader("Spectre Suite Scan Report", fmt.Sprintf("Target: %s (%s)", res.Target, res.TargetIP))
	sb.WriteString("Open Ports & Services:\n\n")
	if len(res.Results) == 0 {
		sb.WriteString("No open ports found in the specified range.\n")
	}
	for _, f := range res.Results {
		fmt.Fprintf(sb, "[+] Port: %d\n    Banner: %s\n", f.Port, f.Banner)
		if f.CVE != "" {
			fmt.Fprintf(sb, "    [!!] VULNERABILITY FOUND: %s\n", f.CVE)
		}
		sb.WriteString("\n")
	}
	b.saveReport(name, sb.String())
	res.Message = "Scan complete."
	res.ReportFilename = name
	return res, name, nil
}

// parsePorts accepts "80", "20-25" and comma lists of both. An empty spec
// selects the default ports.
func parsePorts(spec string) ([]int, error) {
	if spec == "" {
		return defaultPorts, nil
	}
	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, scanError("Invalid port specification: " + spec)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || end < start {
				return nil, scanError("Invalid port specification: " + spec)
			}
		}
		if start < 1 || end > 65535 {
			return nil, scanError("Ports must be between 1 and 65535.")
		}
		for p := start; p <= end; p++ {
			seen[p] = true
		}
	}
	ports := make([]int, 0, len(seen))
	for p := range seen {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports, nil
}

func (b *DemoBackend) domainRecon(form func(string) string) (any, string, error) {
	domain := strings.ToLower(form("domain"))
	if domain == "" {
		return nil, "", scanError("Domain is required.")
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(domain))
	seed := h.Sum32()

	res := &model.DomainResult{Domain: domain, Subdomains: []string{}}
	for i, w := range subdomainWords {
		if seed>>uint(i)&1 == 1 || w == "www" {
			res.Subdomains = append(res.Subdomains, w+"."+domain)
		}
	}
	sort.Strings(res.Subdomains)

	res.DNS = model.NewOrdered(
		model.Entry[[]string]{Key: "A", Value: []string{demoIP(domain)}},
		model.Entry[[]string]{Key: "AAAA", Value: []string{}},
		model.Entry[[]string]{Key: "MX", Value: []string{"10 mail." + domain + "."}},
		model.Entry[[]string]{Key: "NS", Value: []string{"ns1." + domain + ".", "ns2." + domain + "."}},
		model.Entry[[]string]{Key: "TXT", Value: []string{`"v=spf1 -all"`}},
	)
	// Every other domain has no public WHOIS record.
	if seed%2 == 0 {
		res.Whois = model.Whois{Registrar: "Demo Registrar, LLC", CreationDate: "1995-08-14 04:00:00", ExpirationDate: "2030-08-13 04:00:00"}
	}

	name := fmt.Sprintf("domain_recon_%s_%s.txt", domain, b.timestamp())
	sb := b.reportHeader("Domain Recon Report", "Target Domain: "+domain)
	sb.WriteString("--- FOUND SUBDOMAINS ---\n")
	for _, s := range res.Subdomains {
		fmt.Fprintf(sb, "[+] %s\n", s)
	}
	sb.WriteString("\n--- DNS RECORDS ---\n")
	for _, e := range res.DNS.Entries() {
		fmt.Fprintf(sb, "[%s]: %s\n", e.Key, strings.Join(e.Value, ", "))
	}
	b.saveReport(name, sb.String())
	res.ReportFilename = name
	return res, name, nil
}

func (b *DemoBackend) socialScout(form func(string) string) (any, string, error) {
	username := form("username")
	if username == "" {
		return nil, "", scanError("No username provided.")
	}

	res := &model.SocialResult{Username: username, Results: []model.SocialAccount{}}
	for i, site := range socialSites {
		if (len(username)+i)%2 == 0 {
			res.Results = append(res.Results, model.SocialAccount{Site: site.Name, URL: fmt.Sprintf(site.Pattern, username)})
		}
	}

	name := fmt.Sprintf("social_scout_%s_%s.txt", cleanFilename(username), b.timestamp())
	sb := b.reportHeader("Social Scout Report", "Target Username: "+username)
	fmt.Fprintf(sb, "Found %d accounts:\n\n", len(res.Results))
	for _, a := range res.Results {
		fmt.Fprintf(sb, "[+] %s: %s\n", a.Site, a.URL)
	}
	b.saveReport(name, sb.String())
	res.ReportFilename = name
	return res, name, nil
}

func (b *DemoBackend) emailCheck(form func(string) string) (any, string, error) {
	email := strings.ToLower(form("email"))
	if email == "" {
		return nil, "", scanError("Email is required.")
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || !strings.Contains(domain, ".") {
		return nil, "", scanError("API returned status code: 400")
	}

	res := &model.EmailResult{Email: email, Status: model.StatusSafe}
	if strings.Contains(local, "pwned") || domain == "breached.test" {
		// Same wire spelling as the upstream breach API.
		res.Status = model.BreachStatus("pwned")
		res.Breaches = []model.Breach{
			{Name: "Collection1", Domain: "N/A", Count: model.Count(772904991)},
			{Name: "LinkedIn", Domain: "linkedin.com", Count: model.Count(164611595)},
			{Name: "Verifications", Domain: "verifications.io", Count: model.CountText("N/A")},
		}
	}

	name := fmt.Sprintf("email_check_%s_%s.txt", email, b.timestamp())
	sb := b.reportHeader("Email Breach Check Report (XposedOrNot)", "Target Email: "+email)
	if res.Status == model.StatusSafe {
		sb.WriteString("Good news! This email was not found in any public breaches.\n")
	} else {
		fmt.Fprintf(sb, "[!!] PWNED! Found in %d breaches:\n\n", len(res.Breaches))
		for _, br := range res.Breaches {
			fmt.Fprintf(sb, "[*] Breach: %s\n    Domain: %s\n    Exposed Records: %s\n\n", br.Name, br.Domain, br.Count)
		}
	}
	b.saveReport(name, sb.String())
	res.ReportFilename = name
	return res, name, nil
}

func (b *DemoBackend) techEnum(form func(string) string) (any, string, error) {
	url := form("url")
	if url == "" {
		return nil, "", scanError("URL is required.")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	res := &model.TechResult{
		URL: url,
		Headers: model.NewOrdered(
			model.Entry[string]{Key: "Server", Value: "nginx/1.18.0 (Ubuntu)"},
			model.Entry[string]{Key: "X-Powered-By", Value: "PHP/7.4.3"},
			model.Entry[string]{Key: "Strict-Transport-Security", Value: "max-age=31536000"},
		),
		TechStack: model.NewOrdered(
			model.Entry[[]string]{Key: "Web Servers", Value: []string{"Nginx"}},
			model.Entry[[]string]{Key: "Programming Languages", Value: []string{"PHP"}},
			model.Entry[[]string]{Key: "JavaScript Libraries", Value: []string{"jQuery", "Bootstrap"}},
		),
	}

	name := fmt.Sprintf("tech_scan_%s_%s.txt", cleanFilename(url), b.timestamp())
	sb := b.reportHeader("Technology Scan Report", "Target URL: "+url)
	sb.WriteString("--- Interesting Headers ---\n")
	for _, e := range res.Headers.Entries() {
		fmt.Fprintf(sb, "%s: %s\n", e.Key, e.Value)
	}
	sb.WriteString("\n--- Technology Stack ---\n")
	for _, e := range res.TechStack.Entries() {
		fmt.Fprintf(sb, "[%s]: %s\n", e.Key, strings.Join(e.Value, ", "))
	}
	b.saveReport(name, sb.String())
	res.ReportFilename = name
	return res, name, nil
}

func (b *DemoBackend) dirScan(form func(string) string) (any, string, error) {
	url := form("url")
	if url == "" {
		return nil, "", scanError("URL is required.")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	base := strings.TrimRight(url, "/")

	res := &model.DirectoryResult{Target: url, Results: []model.DirectoryPath{}}
	for _, w := range directoryWords {
		res.Results = append(res.Results, model.DirectoryPath{StatusCode: w.Status, URL: base + "/" + w.Path})
	}

	name := fmt.Sprintf("dir_scan_%s_%s.txt", cleanFilename(url), b.timestamp())
	sb := b.reportHeader("Directory Scan Report", "Target URL: "+url)
	for _, p := range res.Results {
		fmt.Fprintf(sb, "[%d] %s\n", p.StatusCode, p.URL)
	}
	b.saveReport(name, sb.String())
	res.ReportFilename = name
	return res, name, nil
}

// ─── Feed and reports ──────────────────────────────────────────────────

// LatestVulns returns the n most recently added catalog entries, newest
// first.
func LatestVulns(n int) []model.FeedItem {
	items := append([]model.FeedItem(nil), kevCatalog...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].DateAdded > items[j].DateAdded })
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func (b *DemoBackend) handleFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LatestVulns(feedSize))
}

func (b *DemoBackend) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	b.mu.RLock()
	body, ok := b.reports[name]
	b.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
