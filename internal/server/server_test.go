package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"fjacquet/mood-journal/internal/classifier"
	"fjacquet/mood-journal/internal/journal"
	"fjacquet/mood-journal/internal/logging"
	"fjacquet/mood-journal/internal/models"
	"fjacquet/mood-journal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *store.MockStore, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	st := store.NewMockStore()
	pipeline := classifier.NewPipeline(nil, nil, logger)
	svc := journal.NewService(pipeline, st, logger, journal.Options{FeedLimit: 50, SnippetLength: 280})
	return New(svc, logger, pipeline.RemoteEnabled), st, logger
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/entry", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSubmit_Form(t *testing.T) {
	s, st, _ := newTestServer(t)

	rec := do(t, s, postForm(url.Values{"alias": {"sam"}, "entry": {"I am so happy today"}}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "sam", entry.Alias)
	assert.Equal(t, models.LabelJoy, entry.Label)
	assert.Len(t, st.Entries(), 1)
}

func TestSubmit_FormAnonymous(t *testing.T) {
	s, st, _ := newTestServer(t)

	rec := do(t, s, postForm(url.Values{"alias": {"sam"}, "entry": {"meh"}, "anonymous": {"on"}}))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, st.Entries(), 1)
	assert.Empty(t, st.Entries()[0].Alias)
}

func TestSubmit_JSON(t *testing.T) {
	s, st, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/entry",
		strings.NewReader(`{"alias":"kim","entry":"panic attack","anonymous":false}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	rec := do(t, s, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, st.Entries(), 1)
	assert.Equal(t, models.LabelFear, st.Entries()[0].Label)
}

func TestSubmit_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        func() *http.Request
		saveErr    error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "empty entry",
			req:        func() *http.Request { return postForm(url.Values{"entry": {"   "}}) },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "write something",
		},
		{
			name: "malformed json",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/entry", strings.NewReader(`{"entry":`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid JSON",
		},
		{
			name:       "store failure",
			req:        func() *http.Request { return postForm(url.Values{"entry": {"fine"}}) },
			saveErr:    errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "could not be saved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, st, _ := newTestServer(t)
			st.SaveError = tt.saveErr

			rec := do(t, s, tt.req())
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.wantMsg)
			assert.Empty(t, st.Entries())
		})
	}
}

func TestFeedAndEntries(t *testing.T) {
	s, _, _ := newTestServer(t)
	for _, v := range []url.Values{
		{"alias": {"a"}, "entry": {"good morning"}},
		{"entry": {"so stressed"}},
		{"alias": {"a"}, "entry": {"alone again"}},
	} {
		require.Equal(t, http.StatusCreated, do(t, s, postForm(v)).Code)
	}

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/feed", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []models.FeedItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 3)
	assert.Equal(t, "alone again", feed[0].Snippet)
	assert.Equal(t, models.AnonymousAlias, feed[1].Alias)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/entries?alias=a", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, models.LabelJoy, entries[0].Label)
	assert.Equal(t, map[string]float64{models.LabelSadness: 1.0}, entries[1].Scores)
}

func TestEntries_AnonymousAliasIsDisplayed(t *testing.T) {
	s, st, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		do(t, s, postForm(url.Values{"alias": {"sam"}, "entry": {"calm evening"}, "anonymous": {"on"}})).Code)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, models.AnonymousAlias, entries[0].Alias)

	require.Len(t, st.Entries(), 1)
	assert.Empty(t, st.Entries()[0].Alias, "stored alias stays blank")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/entries?alias=sam", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestIsChecked(t *testing.T) {
	for _, v := range []string{"on", "ON", " true ", "1", "yes"} {
		assert.True(t, isChecked(v), v)
	}
	for _, v := range []string{"", "off", "0", "no", "anonymous"} {
		assert.False(t, isChecked(v), v)
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, path := range []string{"/feed", "/api/entries"} {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}
}

func TestReadFailures(t *testing.T) {
	s, st, logger := newTestServer(t)
	st.FeedError = errors.New("boom")
	st.ListError = errors.New("boom")

	assert.Equal(t, http.StatusInternalServerError, do(t, s, httptest.NewRequest(http.MethodGet, "/feed", nil)).Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, s, httptest.NewRequest(http.MethodGet, "/api/entries", nil)).Code)
	assert.True(t, logger.HasEntry("ERROR", "Failed to load feed"))
	assert.True(t, logger.HasEntry("ERROR", "Failed to list entries"))
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","remote_enabled":false}`, rec.Body.String())

	enabled := New(nil, logging.NewMockLogger(), func() bool { return true })
	rec = do(t, enabled, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok","remote_enabled":true}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/entry", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestLogging(t *testing.T) {
	s, _, logger := newTestServer(t)
	do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var found bool
	for _, e := range logger.GetEntriesByLevel("DEBUG") {
		if e.Message != "HTTP request" {
			continue
		}
		found = true
		status, _ := e.FieldValue(logging.FieldStatus)
		assert.Equal(t, http.StatusOK, status)
		path, _ := e.FieldValue(logging.FieldPath)
		assert.Equal(t, "/healthz", path)
	}
	assert.True(t, found)
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	s, _, logger := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	require.NoError(t, <-done)
	assert.True(t, logger.HasEntry("INFO", "HTTP server listening"))
}
