package server_test

import (
	"context"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

func findChrome() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

// TestE2E_PortScanInBrowser drives the real page in headless Chrome: the
// form is submitted by app.js and the result arrives over the WebSocket.
func TestE2E_PortScanInBrowser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	chrome := findChrome()
	if chrome == "" {
		t.Skip("no Chrome/Chromium binary found")
	}

	s := newTestServer(t, "http://backend.test")
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.ExecPath(chrome), chromedp.NoSandbox)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var target, href string
	err := chromedp.Run(ctx,
		chromedp.Navigate(srv.URL+"/scans/port"),
		chromedp.WaitVisible(`#port-scan-form`, chromedp.ByQuery),
		chromedp.SendKeys(`#port-scan-form-target`, "example.com", chromedp.ByQuery),
		chromedp.SendKeys(`#port-scan-form-ports`, "443", chromedp.ByQuery),
		chromedp.Click(`#port-scan-form button[type=submit]`, chromedp.ByQuery),
		chromedp.WaitVisible(`#port-scan-results .scan-table`, chromedp.ByQuery),
		chromedp.Text(`#port-scan-results .scan-target`, &target, chromedp.ByQuery),
		chromedp.AttributeValue(`#port-scan-results a.btn-download`, "href", &href, nil, chromedp.ByQuery),
	)
	if err != nil {
		t.Fatalf("browser run: %v", err)
	}
	if !strings.Contains(target, "example.com (93.184.216.34)") {
		t.Errorf("unexpected target line %q", target)
	}
	if href != "/static/reports/port_scan_example.com.txt" {
		t.Errorf("unexpected report link %q", href)
	}
}
