// cmd/api/handlers.go
// This file contains the public, read-only catalog handlers.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/lab-bookreviews/internal/data"
)

// listBooksHandler handles GET /.
// It returns the whole catalog as an object keyed by ISBN.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Key by ISBN so the body matches the catalog's natural shape.
	catalog := make(map[string]*data.Book, len(books))
	for _, b := range books {
		catalog[b.ISBN] = b
	}

	app.writeJSONOrFail(w, r, http.StatusOK, catalog)
}

// showBookHandler handles GET /isbn/:isbn.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	book, err := app.models.Books.Get(app.readParam(r, "isbn"))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeJSONOrFail(w, r, http.StatusOK, book)
}

// listBooksByAuthorHandler handles GET /author/:author.
// Matching ignores case and surrounding whitespace.
func (app *applicationDependencies) listBooksByAuthorHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	matches := data.FilterByAuthor(books, app.readParam(r, "author"))
	if len(matches) == 0 {
		app.recordNotFoundResponse(w, r, "No books found for this author")
		return
	}

	app.writeJSONOrFail(w, r, http.StatusOK, matches)
}

// listBooksByTitleHandler handles GET /title/:title.
func (app *applicationDependencies) listBooksByTitleHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	matches := data.FilterByTitle(books, app.readParam(r, "title"))
	if len(matches) == 0 {
		app.recordNotFoundResponse(w, r, "No books found for this title")
		return
	}

	app.writeJSONOrFail(w, r, http.StatusOK, matches)
}

// showReviewsHandler handles GET /review/:isbn.
// A book nobody has reviewed yields an empty object.
func (app *applicationDependencies) showReviewsHandler(w http.ResponseWriter, r *http.Request) {
	book, err := app.models.Books.Get(app.readParam(r, "isbn"))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Render {} rather than null for an unreviewed book.
	reviews := book.Reviews
	if reviews == nil {
		reviews = data.Reviews{}
	}
	app.writeJSONOrFail(w, r, http.StatusOK, reviews)
}

// healthcheckHandler handles GET /healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSONOrFail(w, r, http.StatusOK, envelope{
		"status": "available",
		"system_info": map[string]any{
			"environment":     app.config.environment,
			"version":         appVersion,
			"active_sessions": app.sessions.Count(),
		},
	})
}
