// cmd/api/users.go
// This file contains the registration and login handlers.
package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/aoideee/lab-bookreviews/internal/data"
	"github.com/aoideee/lab-bookreviews/internal/metrics"
	"github.com/aoideee/lab-bookreviews/internal/session"
	"github.com/aoideee/lab-bookreviews/internal/validator"
)

// registerUserHandler handles POST /register.
func (app *applicationDependencies) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CredentialsInput
	err := app.readJSON(w, r, &input)
	if err != nil && !errors.Is(err, errEmptyBody) {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateCredentials(v, input); !v.Valid() {
		app.failedValidationResponse(w, r, "Username and password are required", v.Errors)
		return
	}

	// Insert is the uniqueness check; there is no separate lookup to race with.
	err = app.models.Users.Insert(data.User{Username: input.Username, Password: input.Password})
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateUsername):
			app.conflictResponse(w, r, "User already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.logger.Info("user registered", zap.String("username", input.Username))
	app.writeJSONOrFail(w, r, http.StatusCreated, envelope{"message": "User successfully registered"})
}

// loginHandler handles POST /customer/login.
// On success it issues an access token and stores it in the caller's session.
func (app *applicationDependencies) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CredentialsInput
	err := app.readJSON(w, r, &input)
	if err != nil && !errors.Is(err, errEmptyBody) {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateCredentials(v, input); !v.Valid() {
		metrics.RecordAuth("login", "bad_request")
		app.failedValidationResponse(w, r, "Error logging in", v.Errors)
		return
	}

	user, err := app.models.Users.Authenticate(input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrInvalidCredentials):
			metrics.RecordAuth("login", "rejected")
			app.unauthorizedResponse(w, r, "Invalid Login. Check username and password")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// The token lives only in the server-side session, never in the response.
	token, _, err := app.tokens.Issue(user.Username)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// A fresh ID on every login so a pre-login cookie is never promoted.
	sess := app.sessions.New()
	sess.Authorization = &session.Authorization{AccessToken: token, Username: user.Username}
	app.sessions.Save(w, sess)

	metrics.RecordAuth("login", "success")
	app.logger.Info("user logged in", zap.String("username", user.Username))
	app.writeJSONOrFail(w, r, http.StatusOK, envelope{"message": "User successfully logged in"})
}
