// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/aoideee/lab-bookreviews/internal/metrics"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in middleware.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → InstrumentHandler → logRequest → rateLimit → router
//
// Endpoints:
//
//	GET    /                            – whole catalog keyed by ISBN
//	GET    /isbn/:isbn                  – one book
//	GET    /author/:author              – books by author
//	GET    /title/:title                – books by title
//	GET    /review/:isbn                – reviews of a book
//	POST   /register                    – create a user
//	POST   /customer/login              – log in and start a session
//	PUT    /customer/auth/review/:isbn  – add or update the caller's review
//	DELETE /customer/auth/review/:isbn  – delete the caller's review
//	GET    /async/...                   – relays of the public reads
//	GET    /healthcheck, /metrics
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Public catalog
	router.HandlerFunc(http.MethodGet, "/", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/isbn/:isbn", app.showBookHandler)
	router.HandlerFunc(http.MethodGet, "/author/:author", app.listBooksByAuthorHandler)
	router.HandlerFunc(http.MethodGet, "/title/:title", app.listBooksByTitleHandler)
	router.HandlerFunc(http.MethodGet, "/review/:isbn", app.showReviewsHandler)
	router.HandlerFunc(http.MethodPost, "/register", app.registerUserHandler)

	// Customer session and authenticated reviews
	router.HandlerFunc(http.MethodPost, "/customer/login", app.loginHandler)
	router.HandlerFunc(http.MethodPut, "/customer/auth/review/:isbn", app.requireSession(app.putReviewHandler))
	router.HandlerFunc(http.MethodDelete, "/customer/auth/review/:isbn", app.requireSession(app.deleteReviewHandler))

	// Relays
	router.HandlerFunc(http.MethodGet, "/async/books", app.relayBooksHandler())
	router.HandlerFunc(http.MethodGet, "/async/isbn/:isbn", app.relayBookByISBNHandler())
	router.HandlerFunc(http.MethodGet, "/async/author/:author", app.relayBooksByAuthorHandler())
	router.HandlerFunc(http.MethodGet, "/async/title/:title", app.relayBooksByTitleHandler())

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	return app.recoverPanic(metrics.InstrumentHandler(app.logRequest(app.rateLimit(router))))
}
