package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/raysh454/spectre/internal/logging"
)

const (
	reportsPageLimit = 200
	reportsAPILimit  = 50
)

// newReportProxy forwards report downloads to the backend, which owns the
// files. The request path is kept as is.
func newReportProxy(backend *url.URL, logger logging.Logger) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(backend)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("proxying report download", logging.Field{Key: "path", Value: r.URL.Path}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadGateway, "report backend unavailable")
	}
	return proxy
}

// @Summary List recorded reports
// @Description Newest first.
// @Tags reports
// @Produce json
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} ReportResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/reports [get]
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := reportsAPILimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	reports, err := s.reports.List(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing reports", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]ReportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, ReportResponse{Report: rep, Href: rep.Href()})
	}
	s.logger.Info("listed reports", logging.Field{Key: "count", Value: len(out)})
	writeJSON(w, http.StatusOK, out)
}
