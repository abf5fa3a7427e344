package server

import (
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/spectre/internal/dashboard"
	"github.com/raysh454/spectre/internal/logging"
)

const maxFormMemory = 1 << 20

func formValues(r *http.Request) (url.Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrSessionNotFound), errors.Is(err, dashboard.ErrFormNotBound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// @Summary Submit a scan form
// @Description Issues the form's scan request. The results mount switches to the loading state at once and is overwritten when the latest submission resolves.
// @Tags sessions
// @Accept mpfd
// @Produce json
// @Param session path string true "Session id"
// @Param form path string true "Form id" example(port-scan-form)
// @Param wait query bool false "Block until the submission resolves"
// @Success 200 {object} SubmitResponse
// @Success 202 {object} SubmitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{session}/forms/{form} [post]
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")
	formID := chi.URLParam(r, "form")

	c, err := s.sessions.Controller(sessionID, formID)
	if err != nil {
		s.logger.Warn("resolving form", logging.Field{Key: "session", Value: sessionID}, logging.Field{Key: "form", Value: formID}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}

	values, err := formValues(r)
	if err != nil {
		s.logger.Warn("parsing form body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	sub := c.Submit(r.Context(), values)
	resp := SubmitResponse{
		Session: sessionID,
		Form:    formID,
		Mount:   c.MountID(),
		Seq:     sub.Seq(),
		Status:  string(dashboard.StatusPending),
	}
	s.logger.Info("submitted form", logging.Field{Key: "session", Value: sessionID}, logging.Field{Key: "form", Value: formID}, logging.Field{Key: "seq", Value: sub.Seq()})

	switch r.URL.Query().Get("wait") {
	case "true", "1":
	default:
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	status, err := sub.Wait(r.Context())
	if err != nil {
		// The caller went away; the submission itself keeps running.
		return
	}
	resp.Status = string(status)
	resp.HTML = string(c.HTML())
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Current markup of a mount
// @Tags sessions
// @Produce json
// @Param session path string true "Session id"
// @Param mount path string true "Mount id" example(port-scan-results)
// @Success 200 {object} MountResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{session}/mounts/{mount} [get]
func (s *Server) handleGetMount(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")
	mountID := chi.URLParam(r, "mount")

	page, err := s.sessions.Get(sessionID)
	if err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}
	mount, ok := page.Doc.Mount(mountID)
	if !ok {
		writeError(w, http.StatusNotFound, "mount not found")
		return
	}
	writeJSON(w, http.StatusOK, MountResponse{Mount: mount.ID(), HTML: string(mount.HTML())})
}

// @Summary Stream mount updates
// @Description WebSocket. Sends the current content of every written mount, then each update as {mount, html}.
// @Tags sessions
// @Param session path string true "Session id"
// @Success 101
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{session}/ws [get]
func (s *Server) handleMountsWS(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")
	page, err := s.sessions.Get(sessionID)
	if err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	// Subscribe before the snapshot so nothing written in between is lost.
	updates, cancel := page.Doc.Subscribe(s.cfg.StreamBuffer)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for _, u := range page.Doc.Snapshot() {
		if err := conn.WriteJSON(u); err != nil {
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case u, ok := <-updates:
			if !ok {
				// Dropped for falling behind, or the session was evicted.
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "resync"))
				return
			}
			if err := conn.WriteJSON(u); err != nil {
				s.logger.Debug("websocket write failed", logging.Field{Key: "session", Value: sessionID}, logging.Field{Key: "error", Value: err.Error()})
				return
			}
		}
	}
}
