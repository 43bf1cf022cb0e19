package data_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybulut/liblend/internal/data"
)

func TestBookCRUD(t *testing.T) {
	models := newTestModels(t)

	isbn := "9780451524935"
	year := 1949
	book := &data.Book{Title: "1984", Author: "George Orwell", ISBN: &isbn, Year: &year}
	require.NoError(t, models.Books.Insert(book))

	got, err := models.Books.Get(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "1984", got.Title)
	require.NotNil(t, got.ISBN)
	assert.Equal(t, isbn, *got.ISBN)
	require.NotNil(t, got.Year)
	assert.Equal(t, year, *got.Year)

	got.Title = "Nineteen Eighty-Four"
	require.NoError(t, models.Books.Update(got))

	got, err = models.Books.Get(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nineteen Eighty-Four", got.Title)

	require.NoError(t, models.Books.Delete(book.ID))

	_, err = models.Books.Get(book.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestBookGetNotFound(t *testing.T) {
	models := newTestModels(t)

	_, err := models.Books.Get(0)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	_, err = models.Books.Get(12345)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestBookDuplicateISBN(t *testing.T) {
	models := newTestModels(t)

	isbn := "9780140449136"
	first := &data.Book{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", ISBN: &isbn}
	require.NoError(t, models.Books.Insert(first))

	second := &data.Book{Title: "Crime and Punishment (2nd copy)", Author: "Fyodor Dostoevsky", ISBN: &isbn}
	assert.ErrorIs(t, models.Books.Insert(second), data.ErrDuplicateISBN)
}

func TestBooksWithoutISBNCoexist(t *testing.T) {
	models := newTestModels(t)

	// A NULL isbn is not a duplicate of another NULL isbn.
	require.NoError(t, models.Books.Insert(&data.Book{Title: "Hamlet", Author: "William Shakespeare"}))
	require.NoError(t, models.Books.Insert(&data.Book{Title: "Macbeth", Author: "William Shakespeare"}))

	count, err := models.Books.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAvailableOrdering(t *testing.T) {
	models := newTestModels(t)

	mustBook(t, models, "zorba the greek", "Nikos Kazantzakis")
	mustBook(t, models, "Anna Karenina", "Leo Tolstoy")
	mustBook(t, models, "madame Bovary", "Gustave Flaubert")
	first := mustBook(t, models, "Dune", "Frank Herbert")
	second := mustBook(t, models, "Dune", "Frank Herbert")

	available, err := models.Books.Available()
	require.NoError(t, err)
	require.Len(t, available, 5)

	titles := make([]string, len(available))
	for i, b := range available {
		titles[i] = b.Title
	}
	assert.Equal(t, []string{"Anna Karenina", "Dune", "Dune", "madame Bovary", "zorba the greek"}, titles)

	// Equal titles keep id order.
	assert.Equal(t, first.ID, available[1].ID)
	assert.Equal(t, second.ID, available[2].ID)
}

func TestBookWithOnlyClosedLoansIsAvailable(t *testing.T) {
	models := newTestModels(t)

	book := mustBook(t, models, "War and Peace", "Leo Tolstoy")
	member := mustMember(t, models, "Alice")

	for range 3 {
		id := mustLoan(t, models, book.ID, member.ID)
		require.NoError(t, models.Loans.Return(id))
	}

	assert.Contains(t, availableIDs(t, models), book.ID)
}

func TestDeleteBookBlockedByActiveLoan(t *testing.T) {
	models := newTestModels(t)

	book := mustBook(t, models, "The Stranger", "Albert Camus")
	member := mustMember(t, models, "Alice")
	id := mustLoan(t, models, book.ID, member.ID)

	assert.ErrorIs(t, models.Books.Delete(book.ID), data.ErrActiveLoans)

	require.NoError(t, models.Loans.Return(id))
	require.NoError(t, models.Books.Delete(book.ID))
}

func TestDeleteBookCascadesClosedLoanHistory(t *testing.T) {
	models := newTestModels(t)

	book := mustBook(t, models, "Madame Bovary", "Gustave Flaubert")
	member := mustMember(t, models, "Alice")
	id := mustLoan(t, models, book.ID, member.ID)
	require.NoError(t, models.Loans.Return(id))

	require.NoError(t, models.Books.Delete(book.ID))

	_, err := models.Loans.Get(id)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestImportClassicsIsIdempotent(t *testing.T) {
	models := newTestModels(t)

	inserted, err := models.Books.ImportClassics()
	require.NoError(t, err)
	assert.Equal(t, 25, inserted)

	inserted, err = models.Books.ImportClassics()
	require.NoError(t, err)
	assert.Zero(t, inserted)

	count, err := models.Books.Count()
	require.NoError(t, err)
	assert.Equal(t, 25, count)
}
