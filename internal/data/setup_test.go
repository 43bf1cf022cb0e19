package data_test

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ybulut/liblend/internal/data"
	"github.com/ybulut/liblend/internal/store"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dir := t.TempDir()
	db, err := store.Open(store.Config{
		Backend: store.BackendSQLite,
		Path:    filepath.Join(dir, "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Bootstrap(db))
	return db
}

func newTestModels(t *testing.T) data.Models {
	t.Helper()
	return data.NewModels(newTestDB(t))
}

func mustBook(t *testing.T, models data.Models, title, author string) *data.Book {
	t.Helper()
	book := &data.Book{Title: title, Author: author}
	require.NoError(t, models.Books.Insert(book))
	require.NotZero(t, book.ID)
	return book
}

func mustMember(t *testing.T, models data.Models, name string) *data.Member {
	t.Helper()
	member := &data.Member{Name: name}
	require.NoError(t, models.Members.Insert(member))
	require.NotZero(t, member.ID)
	return member
}

func mustLoan(t *testing.T, models data.Models, bookID, memberID int64) int64 {
	t.Helper()
	id, err := models.Loans.Create(bookID, memberID, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func availableIDs(t *testing.T, models data.Models) []int64 {
	t.Helper()
	books, err := models.Books.Available()
	require.NoError(t, err)
	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}
