package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/lab-bookreviews/internal/data"
)

func TestListBooks(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t).routes())

	code, body := ts.get(t, "/")
	require.Equal(t, http.StatusOK, code)

	catalog := decode[map[string]data.Book](t, body)
	assert.Len(t, catalog, 4)
	assert.Equal(t, "Things Fall Apart", catalog["1"].Title)
	assert.Equal(t, "Jane Austen", catalog["100"].Author)
}

func TestShowBook(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t).routes())

	tests := []struct {
		name     string
		urlPath  string
		wantCode int
		wantBody string
	}{
		{"Valid ISBN", "/isbn/1", http.StatusOK, "Things Fall Apart"},
		{"Unknown ISBN", "/isbn/999", http.StatusNotFound, "Book not found"},
		{"Case sensitive ISBN", "/isbn/abc", http.StatusNotFound, "Book not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ts.get(t, tt.urlPath)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestListBooksByAuthor(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t).routes())

	code, body := ts.get(t, "/author/%20J.K.%20ROWLING%20")
	require.Equal(t, http.StatusOK, code)

	books := decode[[]data.Book](t, body)
	require.Len(t, books, 2)
	assert.Equal(t, "2", books[0].ISBN)
	assert.Equal(t, "3", books[1].ISBN)

	_, sameBody := ts.get(t, "/author/j.k.%20rowling")
	assert.JSONEq(t, string(body), string(sameBody))

	code, body = ts.get(t, "/author/Tolkien")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), "No books found for this author")
}

func TestListBooksByTitle(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t).routes())

	code, body := ts.get(t, "/title/pride%20and%20prejudice")
	require.Equal(t, http.StatusOK, code)
	books := decode[[]data.Book](t, body)
	require.Len(t, books, 1)
	assert.Equal(t, "100", books[0].ISBN)

	code, body = ts.get(t, "/title/Pride")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), "No books found for this title")
}

func TestShowReviews(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t).routes())

	code, body := ts.get(t, "/review/1")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{}`, string(body))

	code, body = ts.get(t, "/review/999")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), "Book not found")
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t).routes())

	code, _ := ts.get(t, "/nowhere/at/all")
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = ts.do(t, http.MethodPost, "/isbn/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestHealthcheckAndMetrics(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t).routes())

	code, body := ts.get(t, "/healthcheck")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "available")

	type health struct {
		SystemInfo struct {
			ActiveSessions int `json:"active_sessions"`
		} `json:"system_info"`
	}
	assert.Equal(t, 0, decode[health](t, body).SystemInfo.ActiveSessions)

	ts.registerAndLogin(t, "a", "1")
	_, body = ts.get(t, "/healthcheck")
	assert.Equal(t, 1, decode[health](t, body).SystemInfo.ActiveSessions)

	code, body = ts.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "bookreviews_http_requests_total")
}
