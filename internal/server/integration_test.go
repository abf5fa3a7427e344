package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raysh454/spectre/internal/dashboard"
	"github.com/raysh454/spectre/internal/demobackend"
	"github.com/raysh454/spectre/internal/server"
	"github.com/raysh454/spectre/internal/testutil"
)

// TestIntegration_DemoBackend runs the dashboard against the demo backend
// over real HTTP with the default net/http client.
func TestIntegration_DemoBackend(t *testing.T) {
	t.Parallel()
	bcfg := demobackend.DefaultConfig()
	bcfg.Latency = 0
	backend := httptest.NewServer(demobackend.NewDemoBackend(bcfg, &testutil.DummyLogger{}))
	t.Cleanup(backend.Close)

	cfg := server.DefaultConfig()
	cfg.BackendURL = backend.URL
	cfg.StorageRoot = t.TempDir()
	cfg.PruneInterval = 0
	cfg.Logger = &testutil.DummyLogger{}
	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)

	_, session := openPage(t, s, "/scans/email")
	body, ct := multipartBody(t, map[string]string{"email": "pwned@example.com"})
	rec := do(t, s, "POST", "/sessions/"+session+"/forms/email-check-form?wait=true", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d (%s)", rec.Code, rec.Body.String())
	}
	var resp server.SubmitResponse
	decodeJSON(t, rec, &resp)
	if resp.Status != string(dashboard.StatusRendered) {
		t.Fatalf("expected rendered, got %s", resp.Status)
	}
	for _, want := range []string{"Breached! Found in 3 breaches:", "Records: N/A", "Records: 164611595"} {
		if !strings.Contains(resp.HTML, want) {
			t.Errorf("missing %q in %s", want, resp.HTML)
		}
	}

	// The announced report downloads through the dashboard proxy.
	rec = do(t, s, "GET", "/api/reports", nil, "")
	var reports []server.ReportResponse
	decodeJSON(t, rec, &reports)
	if len(reports) != 1 {
		t.Fatalf("expected one report, got %d", len(reports))
	}
	rec = do(t, s, "GET", reports[0].Href, nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "PWNED! Found in 3 breaches") {
		t.Errorf("unexpected report download %d %q", rec.Code, rec.Body.String())
	}

	_, feedSession := openPage(t, s, "/live_feed")
	waitPage(t, s, feedSession)
	rec = do(t, s, "GET", "/sessions/"+feedSession+"/mounts/threat-feed-output", nil, "")
	var mount server.MountResponse
	decodeJSON(t, rec, &mount)
	if n := strings.Count(mount.HTML, "<li>"); n != 10 {
		t.Errorf("expected ten feed entries, got %d", n)
	}
}
