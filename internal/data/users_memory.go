package data

import (
	"sync"

	"github.com/aoideee/lab-bookreviews/internal/validator"
)

// User is a registered account. Passwords are stored and compared as plain
// strings.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
}

// CredentialsInput holds the JSON body accepted by the register and login
// endpoints.
type CredentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MemoryUserStore is an append-only, ordered list of users.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users []User
}

// NewMemoryUserStore returns an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

// Insert appends user, or returns ErrDuplicateUsername if the username is
// already taken.
func (s *MemoryUserStore) Insert(user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	s.users = append(s.users, user)
	return nil
}

// Authenticate scans for an exact username and password match.
func (s *MemoryUserStore) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			found := u
			return &found, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// ValidateCredentials checks that both credential fields are present.
func ValidateCredentials(v *validator.Validator, input CredentialsInput) {
	v.Check(input.Username != "", "username", "must be provided")
	v.Check(input.Password != "", "password", "must be provided")
}
