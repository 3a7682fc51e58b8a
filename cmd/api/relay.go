// cmd/api/relay.go
// This file contains the /async/* handlers. Each one calls the matching
// public endpoint on this same server and hands back what it returned.
package main

import (
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/aoideee/lab-bookreviews/internal/metrics"
	"github.com/aoideee/lab-bookreviews/internal/relay"
)

// relayHandler returns a handler that forwards to the public path built by
// target. failure is the message reported when the relay does not succeed.
func (app *applicationDependencies) relayHandler(failure string, target func(r *http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := target(r)

		// Always call back into the listener this request came in on.
		baseURL, err := relay.BaseURL(r)
		if err != nil {
			metrics.RecordRelay(0)
			app.logError(r, err)
			app.writeJSONOrFail(w, r, http.StatusInternalServerError, envelope{"error": failure, "detail": err.Error()})
			return
		}

		resp, err := app.relay.Get(r.Context(), baseURL, path)
		if err != nil {
			// A non-2xx upstream status is passed through; anything else is a 500.
			var upErr *relay.UpstreamError
			status := http.StatusInternalServerError
			if errors.As(err, &upErr) {
				status = upErr.StatusCode
				metrics.RecordRelay(status)
			} else {
				metrics.RecordRelay(0)
				app.logger.Warn("relay failed", zap.String("path", path), zap.Error(err))
			}
			app.writeJSONOrFail(w, r, status, envelope{"error": failure, "detail": err.Error()})
			return
		}

		metrics.RecordRelay(resp.StatusCode)
		// Forward the upstream body verbatim.
		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(resp.Body)
	}
}

// relayBooksHandler handles GET /async/books.
func (app *applicationDependencies) relayBooksHandler() http.HandlerFunc {
	return app.relayHandler("Error fetching books asynchronously", func(r *http.Request) string {
		return "/"
	})
}

// relayBookByISBNHandler handles GET /async/isbn/:isbn.
func (app *applicationDependencies) relayBookByISBNHandler() http.HandlerFunc {
	return app.relayHandler("Error fetching book by ISBN", func(r *http.Request) string {
		return "/isbn/" + url.PathEscape(app.readParam(r, "isbn"))
	})
}

// relayBooksByAuthorHandler handles GET /async/author/:author.
func (app *applicationDependencies) relayBooksByAuthorHandler() http.HandlerFunc {
	return app.relayHandler("Error fetching books by author", func(r *http.Request) string {
		return "/author/" + url.PathEscape(app.readParam(r, "author"))
	})
}

// relayBooksByTitleHandler handles GET /async/title/:title.
func (app *applicationDependencies) relayBooksByTitleHandler() http.HandlerFunc {
	return app.relayHandler("Error fetching books by title", func(r *http.Request) string {
		return "/title/" + url.PathEscape(app.readParam(r, "title"))
	})
}
