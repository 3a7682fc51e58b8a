// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// errEmptyBody is returned by readJSON when the request carries no body.
var errEmptyBody = errors.New("body must not be empty")

// envelope is the JSON object wrapper used for messages and errors,
// e.g. {"message": "..."} or {"error": "..."}.
type envelope map[string]any

// readParam returns the named URL parameter captured by httprouter.
func (app *applicationDependencies) readParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	js = append(js, '\n') // Trailing newline makes curl output nicer.

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// readJSON decodes a single JSON value from the request body into dst.
// It enforces a 1 MB size limit and ensures the body contains exactly one
// JSON value. An empty body yields errEmptyBody.
func (app *applicationDependencies) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	// Cap the request body to 1 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		// Decode reports a body with no bytes at all as io.EOF.
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}

	// Ensure there is no second JSON value in the body.
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}
