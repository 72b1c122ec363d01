// Package server exposes the journal over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"fjacquet/mood-journal/internal/journal"
	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/models"
)

// Journal is the service the handlers delegate to.
type Journal interface {
	Submit(ctx context.Context, sub journal.Submission) (models.Entry, error)
	Feed(ctx context.Context) ([]models.FeedItem, error)
	Entries(ctx context.Context, alias string) ([]models.Entry, error)
}

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 10 * time.Second
)

// Server routes HTTP requests to the journal.
type Server struct {
	journal       Journal
	logger        logging.Logger
	remoteEnabled func() bool
	mux           *http.ServeMux
}

// New creates a Server. remoteEnabled reports whether the remote classifier
// is configured and may be nil.
func New(j Journal, logger logging.Logger, remoteEnabled func() bool) *Server {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if remoteEnabled == nil {
		remoteEnabled = func() bool { return false }
	}
	s := &Server{
		journal:       j,
		logger:        logger,
		remoteEnabled: remoteEnabled,
		mux:           http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /entry", s.handleSubmit)
	s.mux.HandleFunc("GET /feed", s.handleFeed)
	s.mux.HandleFunc("GET /api/entries", s.handleEntries)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server listening", logging.F(logging.FieldEndpoint, addr))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.journal.Submit(r.Context(), sub)
	var persistErr *journal.PersistenceError
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusCreated, entry)
	case errors.Is(err, journal.ErrEmptyEntry):
		s.writeError(w, http.StatusBadRequest, "Please write something before submitting.")
	case errors.As(err, &persistErr):
		s.writeError(w, http.StatusInternalServerError, "Your entry could not be saved. Please try again.")
	default:
		s.logger.WithError(err).Error("Entry submission failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	items, err := s.journal.Feed(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to load feed")
		s.writeError(w, http.StatusInternalServerError, "could not load feed")
		return
	}
	if items == nil {
		items = []models.FeedItem{}
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.journal.Entries(r.Context(), r.URL.Query().Get("alias"))
	if err != nil {
		s.logger.WithError(err).Error("Failed to list entries")
		s.writeError(w, http.StatusInternalServerError, "could not load entries")
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	for i := range entries {
		entries[i].Alias = entries[i].DisplayAlias()
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"remote_enabled": s.remoteEnabled(),
	})
}

// decodeSubmission accepts either a JSON body or form fields
// alias, entry and anonymous=on.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (journal.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var sub journal.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			return journal.Submission{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		return sub, nil
	}

	if err := r.ParseForm(); err != nil {
		return journal.Submission{}, fmt.Errorf("invalid form body: %w", err)
	}
	return journal.Submission{
		Alias:     r.PostForm.Get("alias"),
		Text:      r.PostForm.Get("entry"),
		Anonymous: isChecked(r.PostForm.Get("anonymous")),
	}, nil
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("Failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
