// cmd/api/reviews.go
// This file contains the review handlers mounted behind the auth gate.
// Each receives the username resolved by requireSession.
package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/aoideee/lab-bookreviews/internal/data"
	"github.com/aoideee/lab-bookreviews/internal/validator"
)

// putReviewHandler handles PUT /customer/auth/review/:isbn.
// The review text comes from ?review= or, when that key is absent, the JSON
// body. A present but empty ?review= is rejected without reading the body.
func (app *applicationDependencies) putReviewHandler(w http.ResponseWriter, r *http.Request, username string) {
	qs := r.URL.Query()
	text := qs.Get("review")
	if !qs.Has("review") {
		var input data.ReviewInput
		// A missing body is treated like a missing field and fails the check below.
		err := app.readJSON(w, r, &input)
		if err != nil && !errors.Is(err, errEmptyBody) {
			app.badRequestResponse(w, r, err)
			return
		}
		text = input.Review
	}

	v := validator.New()
	if v.Check(text != "", "review", "must be provided"); !v.Valid() {
		app.failedValidationResponse(w, r, "Review text is required", v.Errors)
		return
	}

	if username == "" {
		app.unauthorizedResponse(w, r, "Login required")
		return
	}

	isbn := app.readParam(r, "isbn")
	// created is false when this user already had a review here.
	reviews, created, err := app.models.Books.PutReview(isbn, username, text)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	message := "Review updated"
	if created {
		message = "Review added"
	}
	app.logger.Info(message, zap.String("isbn", isbn), zap.String("username", username))
	app.writeJSONOrFail(w, r, http.StatusOK, envelope{"message": message, "reviews": reviews})
}

// deleteReviewHandler handles DELETE /customer/auth/review/:isbn.
func (app *applicationDependencies) deleteReviewHandler(w http.ResponseWriter, r *http.Request, username string) {
	if username == "" {
		app.unauthorizedResponse(w, r, "Login required")
		return
	}

	isbn := app.readParam(r, "isbn")
	// Only the caller's own review is removed; other users' reviews stay.
	reviews, err := app.models.Books.DeleteReview(isbn, username)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, "Book not found")
		case errors.Is(err, data.ErrReviewNotFound):
			app.recordNotFoundResponse(w, r, "No review by this user")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.logger.Info("review deleted", zap.String("isbn", isbn), zap.String("username", username))
	app.writeJSONOrFail(w, r, http.StatusOK, envelope{"message": "Review deleted", "reviews": reviews})
}
