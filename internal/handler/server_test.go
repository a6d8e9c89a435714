package handler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/files-manager/internal/auth"
	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/handler"
	"github.com/iliyamo/files-manager/internal/queue"
	"github.com/iliyamo/files-manager/internal/router"
	"github.com/iliyamo/files-manager/internal/storage"
)

// testBcryptCost keeps signup fast in tests.
const testBcryptCost = 4

// testServer wires the full HTTP surface against in-memory stores, a
// temp-dir blob root and a dispatcher whose publisher only records.
type testServer struct {
	e        *echo.Echo
	sessions *memSessions
	users    *memUsers
	files    *memFiles
	jobs     *jobRecorder
}

type jobRecorder struct {
	ch chan recordedJob
}

type recordedJob struct {
	Queue   string
	Payload any
}

func newJobRecorder() *jobRecorder { return &jobRecorder{ch: make(chan recordedJob, 64)} }

func (r *jobRecorder) publish(_ context.Context, queueName string, payload any) error {
	r.ch <- recordedJob{Queue: queueName, Payload: payload}
	return nil
}

// wait returns the next published job, failing the test after a timeout.
func (r *jobRecorder) wait(t *testing.T) recordedJob {
	t.Helper()
	select {
	case j := <-r.ch:
		return j
	case <-time.After(2 * time.Second):
		t.Fatal("no job published")
		return recordedJob{}
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	sessions := newMemSessions()
	users := newMemUsers()
	files := newMemFiles()
	rec := newJobRecorder()

	jobs := queue.NewDispatcher(rec.publish, 64)
	t.Cleanup(jobs.Close)

	resolver := auth.NewResolver(sessions, users, time.Hour)
	blobs := storage.NewLocal(t.TempDir())

	e := echo.New()
	router.Register(e,
		handler.NewAppHandler(sessions, users, files),
		handler.NewAuthHandler(resolver, users, jobs, testBcryptCost),
		handler.NewFilesHandler(files, blobs, jobs),
		resolver, nil, config.RateLimitConfig{})

	return &testServer{e: e, sessions: sessions, users: users, files: files, jobs: rec}
}

// do performs a request against the in-process server.  Headers come as
// alternating key/value pairs.
func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signup creates a user and returns its id.
func (s *testServer) signup(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users", `{"email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status %d body %s", email, rec.Code, rec.Body)
	}
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, rec, &resp)
	s.jobs.wait(t) // consume the welcome email job
	return resp.ID
}

// connect opens a session with Basic credentials and returns the token.
func (s *testServer) connect(t *testing.T, email, password string) string {
	t.Helper()
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
	rec := s.do(t, http.MethodGet, "/connect", "", "Authorization", basic)
	if rec.Code != http.StatusOK {
		t.Fatalf("connect %s: status %d body %s", email, rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("connect returned empty token")
	}
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	return resp.Error
}
