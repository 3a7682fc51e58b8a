package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aoideee/lab-bookreviews/internal/data"
)

const testSecret = "test-secret"

func testBooks() []*data.Book {
	return []*data.Book{
		{ISBN: "1", Author: "Chinua Achebe", Title: "Things Fall Apart"},
		{ISBN: "2", Author: "J.K. Rowling", Title: "Chamber of Secrets"},
		{ISBN: "3", Author: "j.k. rowling", Title: "Prisoner of Azkaban"},
		{ISBN: "100", Author: "Jane Austen", Title: "Pride and Prejudice"},
	}
}

// newTestApplication returns an application with its own isolated stores.
func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	var cfg serverConfig
	cfg.environment = "testing"
	cfg.auth.secret = testSecret
	cfg.auth.tokenTTL = time.Hour
	cfg.auth.sessionTTL = time.Hour
	cfg.relay.timeout = 2 * time.Second

	return newApplication(cfg, zap.NewNop(), data.NewModels(testBooks()))
}

type testServer struct {
	*httptest.Server
}

// newTestServer starts app.routes() and returns a server whose client keeps
// cookies between requests.
func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	ts.Client().Jar = jar

	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, method, urlPath string, body any) (int, http.Header, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rs, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer rs.Body.Close()

	respBody, err := io.ReadAll(rs.Body)
	require.NoError(t, err)

	return rs.StatusCode, rs.Header, respBody
}

func (ts *testServer) get(t *testing.T, urlPath string) (int, []byte) {
	t.Helper()
	code, _, body := ts.do(t, http.MethodGet, urlPath, nil)
	return code, body
}

// registerAndLogin creates a user and logs in, leaving the session cookie in
// the client's jar.
func (ts *testServer) registerAndLogin(t *testing.T, username, password string) {
	t.Helper()
	creds := map[string]string{"username": username, "password": password}

	code, _, _ := ts.do(t, http.MethodPost, "/register", creds)
	require.Equal(t, http.StatusCreated, code)

	code, _, _ = ts.do(t, http.MethodPost, "/customer/login", creds)
	require.Equal(t, http.StatusOK, code)
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
