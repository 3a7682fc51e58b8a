package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooks() []*Book {
	return []*Book{
		{ISBN: "10", Author: "J.K. Rowling", Title: "Chamber of Secrets"},
		{ISBN: "2", Author: "Rowling", Title: "Quidditch"},
		{ISBN: "100", Author: "rowling", Title: "The Casual Vacancy"},
		{ISBN: "abc", Author: "Someone Else", Title: "quidditch "},
	}
}

func TestMemoryBookStore_GetAllOrdersByISBN(t *testing.T) {
	store := NewMemoryBookStore(testBooks())

	books, err := store.GetAll()
	require.NoError(t, err)

	isbns := make([]string, 0, len(books))
	for _, b := range books {
		isbns = append(isbns, b.ISBN)
	}
	assert.Equal(t, []string{"2", "10", "100", "abc"}, isbns)
}

func TestMemoryBookStore_Get(t *testing.T) {
	store := NewMemoryBookStore(testBooks())

	b, err := store.Get("100")
	require.NoError(t, err)
	assert.Equal(t, "The Casual Vacancy", b.Title)
	assert.Nil(t, b.Reviews)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryBookStore_PutReviewOverwrites(t *testing.T) {
	store := NewMemoryBookStore(testBooks())

	reviews, created, err := store.PutReview("100", "a", "great")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, Reviews{"a": "great"}, reviews)

	reviews, created, err = store.PutReview("100", "a", "even better")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, Reviews{"a": "even better"}, reviews)

	_, _, err = store.PutReview("missing", "a", "x")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryBookStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryBookStore(testBooks())

	reviews, _, err := store.PutReview("2", "a", "fine")
	require.NoError(t, err)
	reviews["b"] = "sneaky"

	b, err := store.Get("2")
	require.NoError(t, err)
	b.Reviews["c"] = "also sneaky"

	b, err = store.Get("2")
	require.NoError(t, err)
	assert.Equal(t, Reviews{"a": "fine"}, b.Reviews)
}

func TestMemoryBookStore_DeleteReview(t *testing.T) {
	store := NewMemoryBookStore(testBooks())

	_, err := store.DeleteReview("100", "a")
	assert.ErrorIs(t, err, ErrReviewNotFound)

	_, _, err = store.PutReview("100", "a", "great")
	require.NoError(t, err)
	_, _, err = store.PutReview("100", "b", "meh")
	require.NoError(t, err)

	reviews, err := store.DeleteReview("100", "a")
	require.NoError(t, err)
	assert.Equal(t, Reviews{"b": "meh"}, reviews)

	reviews, err = store.DeleteReview("100", "b")
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NotNil(t, reviews)

	_, err = store.DeleteReview("missing", "a")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestFilterByAuthorAndTitle(t *testing.T) {
	books := testBooks()

	byAuthor := FilterByAuthor(books, " Rowling ")
	require.Len(t, byAuthor, 2)
	assert.Equal(t, "2", byAuthor[0].ISBN)
	assert.Equal(t, "100", byAuthor[1].ISBN)
	assert.Equal(t, byAuthor, FilterByAuthor(books, "rowling"))

	byTitle := FilterByTitle(books, "QUIDDITCH")
	require.Len(t, byTitle, 2)

	assert.Empty(t, FilterByAuthor(books, "Tolkien"))
	assert.NotNil(t, FilterByTitle(books, "nothing"))
}

func TestMemoryUserStore(t *testing.T) {
	store := NewMemoryUserStore()

	require.NoError(t, store.Insert(User{Username: "a", Password: "1"}))
	assert.ErrorIs(t, store.Insert(User{Username: "a", Password: "2"}), ErrDuplicateUsername)
	require.NoError(t, store.Insert(User{Username: "b", Password: "2"}))

	u, err := store.Authenticate("a", "1")
	require.NoError(t, err)
	assert.Equal(t, "a", u.Username)

	_, err = store.Authenticate("a", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = store.Authenticate("nobody", "1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSeedBooksHaveUniqueISBNs(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range SeedBooks() {
		assert.False(t, seen[b.ISBN], "duplicate isbn %s", b.ISBN)
		seen[b.ISBN] = true
		assert.NotEmpty(t, b.Title)
		assert.NotEmpty(t, b.Author)
	}
	assert.Len(t, seen, 10)
}
