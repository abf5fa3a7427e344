package dashboard

import (
	"context"
	"strings"

	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/model"
	"github.com/raysh454/spectre/internal/reportindex"
	"github.com/raysh454/spectre/internal/webclient"
)

// Backend is the scan service the dashboard talks to.
type Backend struct {
	// BaseURL is the scheme://host[:port] prefix endpoints are joined to.
	BaseURL string
	Client  webclient.WebClient
}

// URL joins an endpoint path to the backend base URL.
func (b Backend) URL(endpoint string) string {
	return strings.TrimRight(b.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// ReportRecorder is told about every report file a rendered result
// announces. *reportindex.Index implements it.
type ReportRecorder interface {
	Record(ctx context.Context, kind model.Kind, filename, subject string) (*reportindex.Report, error)
}

// Deps are the collaborators shared by every component of a page.
type Deps struct {
	Backend Backend
	Reports ReportRecorder
	Logger  logging.Logger
}
