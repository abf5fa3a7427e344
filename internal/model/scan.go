package model

import "fmt"

// Kind names one scan type. Each kind owns a form, a backend endpoint and a
// result shape; the kind is chosen by which form was submitted, never by
// inspecting a response.
type Kind string

const (
	KindPort      Kind = "port"
	KindDomain    Kind = "domain"
	KindSocial    Kind = "social"
	KindEmail     Kind = "email"
	KindTech      Kind = "tech"
	KindDirectory Kind = "directory"
)

// Kinds returns every scan kind in dashboard order.
func Kinds() []Kind {
	return []Kind{KindPort, KindDomain, KindSocial, KindEmail, KindTech, KindDirectory}
}

// Valid reports whether k is one of the known scan kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPort, KindDomain, KindSocial, KindEmail, KindTech, KindDirectory:
		return true
	}
	return false
}

// ParseKind converts a string (as used in page routes) to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown scan kind %q", s)
	}
	return k, nil
}

// Endpoint returns the backend path that runs this kind of scan.
func (k Kind) Endpoint() string {
	switch k {
	case KindPort:
		return "/api/start-port-scan"
	case KindDomain:
		return "/api/start-domain-recon"
	case KindSocial:
		return "/api/start-social-scout"
	case KindEmail:
		return "/api/start-email-check"
	case KindTech:
		return "/api/start-tech-enum"
	case KindDirectory:
		return "/api/start-dir-scan"
	}
	return ""
}

// FormID returns the id of the page form that submits this kind of scan.
func (k Kind) FormID() string {
	switch k {
	case KindPort:
		return "port-scan-form"
	case KindDomain:
		return "domain-recon-form"
	case KindSocial:
		return "social-scout-form"
	case KindEmail:
		return "email-check-form"
	case KindTech:
		return "tech-enum-form"
	case KindDirectory:
		return "dir-scan-form"
	}
	return ""
}

// Title is the human label used in page headings.
func (k Kind) Title() string {
	switch k {
	case KindPort:
		return "Port Scanner"
	case KindDomain:
		return "Domain Recon"
	case KindSocial:
		return "Social Scout"
	case KindEmail:
		return "Email Breach Check"
	case KindTech:
		return "Tech Enumerator"
	case KindDirectory:
		return "Directory Scanner"
	}
	return string(k)
}

// FeedEndpoint is the backend path serving the vulnerability feed.
const FeedEndpoint = "/api/get-cve-feed"

// ReportsPath is the static path prefix under which backend reports are served.
const ReportsPath = "/static/reports/"
