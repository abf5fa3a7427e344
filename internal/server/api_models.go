package server

import "github.com/raysh454/spectre/internal/reportindex"

// SubmitResponse acknowledges a form submission.
type SubmitResponse struct {
	Session string `json:"session" example:"3f2b9c1e-7a4d-4f0e-9d65-2c1b8e0a7f11"`
	Form    string `json:"form" example:"port-scan-form"`
	Mount   string `json:"mount" example:"port-scan-results"`
	Seq     uint64 `json:"seq" example:"1"`
	// Status is "pending" unless the request asked to wait.
	Status string `json:"status" example:"pending"`
	HTML   string `json:"html,omitempty"`
}

// MountResponse is the current markup of one mount.
type MountResponse struct {
	Mount string `json:"mount" example:"port-scan-results"`
	HTML  string `json:"html" example:"<p class=\"loading\">Scanning... Dedicate your heart!</p>"`
}

// ReportResponse is one entry of the report ledger.
type ReportResponse struct {
	reportindex.Report
	Href string `json:"href" example:"/static/reports/port_scan_example.com_20240501.txt"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Sessions int    `json:"sessions" example:"3"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"session not found"`
}
