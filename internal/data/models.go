// internal/data/models.go
package data

import (
	"errors"
)

var (
	// ErrRecordNotFound is returned when no book matches the requested ISBN.
	ErrRecordNotFound = errors.New("record not found")
	// ErrReviewNotFound is returned when a book has no review by the given user.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateUsername is returned when registering a username that already exists.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrInvalidCredentials is returned when no user matches a username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// BookStore is the catalog abstraction the handlers depend on.
// Implementations return copies so callers never alias internal state.
type BookStore interface {
	Get(isbn string) (*Book, error)
	GetAll() ([]*Book, error)
	PutReview(isbn, username, text string) (Reviews, bool, error)
	DeleteReview(isbn, username string) (Reviews, error)
}

// UserStore is the credential abstraction the handlers depend on.
type UserStore interface {
	Insert(user User) error
	Authenticate(username, password string) (*User, error)
}

// Models is a top-level container that groups the stores together.
// It is passed around the application via applicationDependencies so every
// handler reaches the data layer through interfaces.
type Models struct {
	Books BookStore
	Users UserStore
}

// NewModels returns Models backed by fresh in-memory stores, with the catalog
// seeded from books.
func NewModels(books []*Book) Models {
	return Models{
		Books: NewMemoryBookStore(books),
		Users: NewMemoryUserStore(),
	}
}
