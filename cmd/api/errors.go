// cmd/api/errors.go
// This file contains all error-response helpers for the application.
package main

import (
	"net/http"

	"go.uber.org/zap"
)

// logError logs an internal error with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		zap.String("request_method", r.Method),
		zap.String("request_url", r.URL.String()),
	)
}

// errorResponse sends a JSON error envelope with the given status code and message.
// It is the low-level building block used by all the specific error helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	data := envelope{"error": message}
	err := app.writeJSON(w, status, data, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs a 500-level error and sends a generic message to the client.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// notFoundResponse sends a 404 for routes the router does not know.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

// recordNotFoundResponse sends a 404 naming what was missing.
func (app *applicationDependencies) recordNotFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusNotFound, message)
}

// methodNotAllowedResponse sends a 405 Method Not Allowed error.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// badRequestResponse sends a 400 Bad Request error with the error message from the caller.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse sends a 400 containing the field-level errors
// collected by a Validator.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, message string, errors map[string]string) {
	app.writeJSONOrFail(w, r, http.StatusBadRequest, envelope{"error": message, "fields": errors})
}

// unauthorizedResponse sends a 401 when credentials or a session are missing or wrong.
func (app *applicationDependencies) unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

// forbiddenResponse sends a 403 when a session token fails validation.
func (app *applicationDependencies) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, "Invalid or expired token")
}

// conflictResponse sends a 409 Conflict error.
func (app *applicationDependencies) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusConflict, message)
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

// writeJSONOrFail writes data and falls back to a 500 if encoding fails.
func (app *applicationDependencies) writeJSONOrFail(w http.ResponseWriter, r *http.Request, status int, data any) {
	err := app.writeJSON(w, status, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
