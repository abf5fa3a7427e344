package model_test

import (
	"errors"
	"testing"

	"github.com/raysh454/spectre/internal/model"
)

func TestDecode_PortResult(t *testing.T) {
	t.Parallel()
	body := `{"target":"example.com","target_ip":"93.184.216.34","results":[{"port":80,"banner":"nginx","cve":null},{"port":443,"banner":"nginx","cve":"CVE-2021-1234"}],"message":"Scan complete.","report_filename":"port_scan_1.txt"}`

	res, err := model.Decode(model.KindPort, []byte(body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	port, ok := res.(*model.PortResult)
	if !ok {
		t.Fatalf("expected *PortResult, got %T", res)
	}
	if port.Target != "example.com" || port.TargetIP != "93.184.216.34" {
		t.Errorf("unexpected target: %+v", port)
	}
	if len(port.Results) != 2 || port.Results[0].CVE != "" || port.Results[1].CVE != "CVE-2021-1234" {
		t.Errorf("unexpected findings: %+v", port.Results)
	}
	if !res.Meta().HasReport() || res.Meta().ReportFilename != "port_scan_1.txt" {
		t.Errorf("expected report filename, got %+v", res.Meta())
	}
	if res.Kind() != model.KindPort {
		t.Errorf("expected kind port, got %s", res.Kind())
	}
}

func TestDecode_BackendError(t *testing.T) {
	t.Parallel()
	for _, kind := range model.Kinds() {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			_, err := model.Decode(kind, []byte(`{"error":"Cannot resolve hostname: nope"}`))
			var be *model.BackendError
			if !errors.As(err, &be) {
				t.Fatalf("expected *BackendError, got %v", err)
			}
			if be.Message != "Cannot resolve hostname: nope" {
				t.Errorf("unexpected message %q", be.Message)
			}
			if !errors.Is(err, model.ErrBackend) {
				t.Error("expected errors.Is(err, ErrBackend)")
			}
		})
	}
}

func TestDecode_EmptyErrorFieldIsNotAnError(t *testing.T) {
	t.Parallel()
	res, err := model.Decode(model.KindSocial, []byte(`{"error":"","username":"neo","results":[]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.(*model.SocialResult).Username != "neo" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestDecode_FalsyLookingErrorStringsAreErrors(t *testing.T) {
	t.Parallel()
	for _, msg := range []string{"0", "false", "null", " "} {
		body := []byte(`{"error":"` + msg + `"}`)
		_, err := model.Decode(model.KindPort, body)
		var be *model.BackendError
		if !errors.As(err, &be) {
			t.Errorf("error %q: expected *BackendError, got %v", msg, err)
			continue
		}
		if be.Message != msg {
			t.Errorf("expected message %q, got %q", msg, be.Message)
		}
	}
}

func TestCheckError_FalsyLiteralsAreNotErrors(t *testing.T) {
	t.Parallel()
	for _, body := range []string{`{"error":null}`, `{"error":false}`, `{"error":0}`, `{"error":""}`, `{}`, `[]`} {
		if err := model.CheckError([]byte(body)); err != nil {
			t.Errorf("CheckError(%s) = %v, want nil", body, err)
		}
	}
	if err := model.CheckError([]byte(`{"error":true}`)); !errors.Is(err, model.ErrBackend) {
		t.Errorf("expected a non-string error value to count, got %v", err)
	}
}

func TestDecode_MissingRequiredField(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kind  model.Kind
		body  string
		field string
	}{
		{model.KindPort, `{"target":"a","target_ip":"1.2.3.4"}`, "results"},
		{model.KindDomain, `{"domain":"a.com","subdomains":[],"dns":null}`, "dns"},
		{model.KindSocial, `{"results":[]}`, "username"},
		{model.KindEmail, `{"email":"a@b.com"}`, "status"},
		{model.KindEmail, `{"email":"a@b.com","status":"breached"}`, "breaches"},
		{model.KindEmail, `{"email":"a@b.com","status":"maybe"}`, "status"},
		{model.KindTech, `{"url":"https://a","headers":{}}`, "tech_stack"},
		{model.KindDirectory, `{"target":"https://a"}`, "results"},
	}
	for _, tc := range cases {
		_, err := model.Decode(tc.kind, []byte(tc.body))
		var de *model.DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%s %s: expected *DecodeError, got %v", tc.kind, tc.body, err)
			continue
		}
		if de.Field != tc.field || de.Kind != tc.kind {
			t.Errorf("%s: expected field %q, got %+v", tc.kind, tc.field, de)
		}
	}
}

func TestDecode_WrongTypeIsDecodeError(t *testing.T) {
	t.Parallel()
	_, err := model.Decode(model.KindDirectory, []byte(`{"target":"x","results":[{"status_code":"two hundred","url":"x"}]}`))
	var de *model.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestDecode_NotJSON(t *testing.T) {
	t.Parallel()
	_, err := model.Decode(model.KindTech, []byte("<html>502 Bad Gateway</html>"))
	var de *model.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestDecode_EmailStatuses(t *testing.T) {
	t.Parallel()

	safe, err := model.Decode(model.KindEmail, []byte(`{"email":"a@b.com","status":"safe","breaches":[]}`))
	if err != nil {
		t.Fatalf("safe: %v", err)
	}
	if e := safe.(*model.EmailResult); e.Status != model.StatusSafe || e.Breaches != nil {
		t.Errorf("unexpected safe result %+v", e)
	}

	pwned, err := model.Decode(model.KindEmail, []byte(`{"email":"a@b.com","status":"pwned","breaches":[{"name":"X","domain":"x.com","count":500},{"name":"Y","domain":"N/A","count":"N/A"}]}`))
	if err != nil {
		t.Fatalf("pwned: %v", err)
	}
	e := pwned.(*model.EmailResult)
	if e.Status != model.StatusBreached {
		t.Errorf("expected pwned to normalize to breached, got %q", e.Status)
	}
	if n, ok := e.Breaches[0].Count.Int(); !ok || n != 500 {
		t.Errorf("expected numeric count 500, got %v", e.Breaches[0].Count)
	}
	if got := e.Breaches[1].Count.String(); got != "N/A" {
		t.Errorf("expected N/A count, got %q", got)
	}
}

func TestDecode_DomainKeepsDNSOrder(t *testing.T) {
	t.Parallel()
	body := `{"domain":"a.com","subdomains":["www.a.com"],"dns":{"MX":["10 mx.a.com"],"A":["1.2.3.4"],"TXT":[]},"whois":{"registrar":"R","error":"ignored"}}`
	res, err := model.Decode(model.KindDomain, []byte(body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	d := res.(*model.DomainResult)
	keys := d.DNS.Keys()
	want := []string{"MX", "A", "TXT"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
	if d.Whois.Registrar != "R" || d.Whois.CreationDate != "" {
		t.Errorf("unexpected whois %+v", d.Whois)
	}
}

func TestDecodeFeed(t *testing.T) {
	t.Parallel()
	items, err := model.DecodeFeed([]byte(`[{"cveID":"CVE-2024-1","dateAdded":"2024-05-01","vulnerabilityName":"Thing RCE","product":"Thing"}]`))
	if err != nil {
		t.Fatalf("DecodeFeed: %v", err)
	}
	if len(items) != 1 || items[0].CVEID != "CVE-2024-1" || items[0].VulnerabilityName != "Thing RCE" {
		t.Errorf("unexpected items %+v", items)
	}

	_, err = model.DecodeFeed([]byte(`{"error":"upstream down"}`))
	if !errors.Is(err, model.ErrBackend) {
		t.Errorf("expected backend error, got %v", err)
	}

	for _, body := range []string{`not json`, `null`, `{}`, `"feed"`, ``} {
		items, err := model.DecodeFeed([]byte(body))
		if err == nil || errors.Is(err, model.ErrBackend) {
			t.Errorf("DecodeFeed(%q): expected plain decode error, got %v (items %v)", body, err, items)
		}
	}

	items, err = model.DecodeFeed([]byte(`[]`))
	if err != nil || len(items) != 0 {
		t.Errorf("expected an empty feed, got %v, %v", items, err)
	}
}

func TestKinds_Table(t *testing.T) {
	t.Parallel()
	want := map[model.Kind][2]string{
		model.KindPort:      {"port-scan-form", "/api/start-port-scan"},
		model.KindDomain:    {"domain-recon-form", "/api/start-domain-recon"},
		model.KindSocial:    {"social-scout-form", "/api/start-social-scout"},
		model.KindEmail:     {"email-check-form", "/api/start-email-check"},
		model.KindTech:      {"tech-enum-form", "/api/start-tech-enum"},
		model.KindDirectory: {"dir-scan-form", "/api/start-dir-scan"},
	}
	for _, k := range model.Kinds() {
		if got := [2]string{k.FormID(), k.Endpoint()}; got != want[k] {
			t.Errorf("%s: got %v, want %v", k, got, want[k])
		}
	}
	if _, err := model.ParseKind("ftp"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
