package data

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

// MemoryBookStore keeps the catalog in a map guarded by a RWMutex.
type MemoryBookStore struct {
	mu    sync.RWMutex
	books map[string]*Book
}

// NewMemoryBookStore copies books into a new store. Later entries with a
// duplicate ISBN replace earlier ones.
func NewMemoryBookStore(books []*Book) *MemoryBookStore {
	s := &MemoryBookStore{books: make(map[string]*Book, len(books))}
	for _, b := range books {
		s.books[b.ISBN] = b.clone()
	}
	return s
}

// Get returns a copy of the book with the given ISBN, or ErrRecordNotFound.
func (s *MemoryBookStore) Get(isbn string) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[isbn]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return b.clone(), nil
}

// GetAll returns copies of every book ordered by ISBN. Numeric ISBNs sort
// numerically so "2" comes before "10".
func (s *MemoryBookStore) GetAll() ([]*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]*Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b.clone())
	}
	slices.SortFunc(books, func(a, b *Book) int {
		return compareISBN(a.ISBN, b.ISBN)
	})
	return books, nil
}

// PutReview stores text as username's review of the book, replacing any
// previous review by the same user. The returned bool reports whether the
// review is new.
func (s *MemoryBookStore) PutReview(isbn, username, text string) (Reviews, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[isbn]
	if !ok {
		return nil, false, ErrRecordNotFound
	}
	if b.Reviews == nil {
		b.Reviews = make(Reviews)
	}
	_, exists := b.Reviews[username]
	b.Reviews[username] = text
	return b.Reviews.clone(), !exists, nil
}

// DeleteReview removes username's review of the book. It returns
// ErrRecordNotFound for an unknown ISBN and ErrReviewNotFound when the user
// has not reviewed the book.
func (s *MemoryBookStore) DeleteReview(isbn, username string) (Reviews, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[isbn]
	if !ok {
		return nil, ErrRecordNotFound
	}
	if _, exists := b.Reviews[username]; !exists {
		return nil, ErrReviewNotFound
	}
	delete(b.Reviews, username)

	reviews := b.Reviews.clone()
	if reviews == nil {
		reviews = Reviews{}
	}
	return reviews, nil
}

func compareISBN(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
