// Package data provides the data models and in-memory stores for the
// book review service.
package data

import "strings"

// Reviews maps a reviewer's username to the text of their review.
// A book holds at most one review per username.
type Reviews map[string]string

// Book represents a single catalog entry keyed by its ISBN.
type Book struct {
	ISBN    string  `json:"isbn"`              // Catalog identifier (not checksum-validated)
	Author  string  `json:"author"`            // Author as printed in the catalog
	Title   string  `json:"title"`             // Title of the book
	Reviews Reviews `json:"reviews,omitempty"` // nil until the first review is written
}

// clone returns a deep copy of b so callers never share the store's maps.
func (b *Book) clone() *Book {
	c := *b
	c.Reviews = b.Reviews.clone()
	return &c
}

func (r Reviews) clone() Reviews {
	if r == nil {
		return nil
	}
	c := make(Reviews, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// ReviewInput holds the optional JSON body of a review request.
type ReviewInput struct {
	Review string `json:"review"`
}

// normalize lowercases and trims s for catalog lookups.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FilterByAuthor returns every book whose author matches author, ignoring
// case and surrounding whitespace. The comparison is exact otherwise.
func FilterByAuthor(books []*Book, author string) []*Book {
	want := normalize(author)
	matches := []*Book{}
	for _, b := range books {
		if normalize(b.Author) == want {
			matches = append(matches, b)
		}
	}
	return matches
}

// FilterByTitle applies the same matching policy as FilterByAuthor to titles.
func FilterByTitle(books []*Book, title string) []*Book {
	want := normalize(title)
	matches := []*Book{}
	for _, b := range books {
		if normalize(b.Title) == want {
			matches = append(matches, b)
		}
	}
	return matches
}
