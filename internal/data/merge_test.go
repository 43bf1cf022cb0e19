package data_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybulut/liblend/internal/data"
)

func TestMergeDuplicateBooksKeepsLowestID(t *testing.T) {
	models := newTestModels(t)

	first := mustBook(t, models, "Dune", "Frank Herbert")
	second := mustBook(t, models, "Dune", "Frank Herbert")
	third := mustBook(t, models, "Dune", "Frank Herbert")
	other := mustBook(t, models, "Dune Messiah", "Frank Herbert")

	alice := mustMember(t, models, "Alice")
	bob := mustMember(t, models, "Bob")

	// One active loan against a duplicate, one closed against another.
	activeLoan := mustLoan(t, models, second.ID, alice.ID)
	closedLoan := mustLoan(t, models, third.ID, bob.ID)
	require.NoError(t, models.Loans.Return(closedLoan))

	removed, err := models.Books.MergeDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = models.Books.Get(first.ID)
	assert.NoError(t, err)
	_, err = models.Books.Get(second.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
	_, err = models.Books.Get(third.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
	_, err = models.Books.Get(other.ID)
	assert.NoError(t, err)

	// Loans survive the merge, re-pointed at the survivor.
	got, err := models.Loans.Get(activeLoan)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.BookID)

	got, err = models.Loans.Get(closedLoan)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.BookID)

	total, err := models.Loans.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// The survivor now carries the active loan.
	assert.NotContains(t, availableIDs(t, models), first.ID)
}

func TestMergeBooksIsIdempotent(t *testing.T) {
	models := newTestModels(t)

	mustBook(t, models, "Dune", "Frank Herbert")
	mustBook(t, models, "Dune", "Frank Herbert")

	removed, err := models.Books.MergeDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = models.Books.MergeDuplicates()
	require.NoError(t, err)
	assert.Zero(t, removed)

	count, err := models.Books.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMergeBooksTitleMatchIsExact(t *testing.T) {
	models := newTestModels(t)

	mustBook(t, models, "Dune", "Frank Herbert")
	mustBook(t, models, "dune", "Frank Herbert")
	mustBook(t, models, "Dune ", "Frank Herbert")

	removed, err := models.Books.MergeDuplicates()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMergeSkipsGroupWithTwoActiveLoans(t *testing.T) {
	models := newTestModels(t)

	first := mustBook(t, models, "Dune", "Frank Herbert")
	second := mustBook(t, models, "Dune", "Frank Herbert")

	alice := mustMember(t, models, "Alice")
	bob := mustMember(t, models, "Bob")
	mustLoan(t, models, first.ID, alice.ID)
	mustLoan(t, models, second.ID, bob.ID)

	// Collapsing the pair would leave one book with two open loans,
	// so the group is left alone.
	removed, err := models.Books.MergeDuplicates()
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = models.Books.Get(second.ID)
	assert.NoError(t, err)
}

func TestMergeDuplicateMembers(t *testing.T) {
	models := newTestModels(t)

	book := mustBook(t, models, "Dune", "Frank Herbert")

	keep := mustMember(t, models, "Alice")
	dup := mustMember(t, models, "Alice")
	mustMember(t, models, "Bob")

	loan := mustLoan(t, models, book.ID, dup.ID)

	removed, err := models.Members.MergeDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = models.Members.Get(dup.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	got, err := models.Loans.Get(loan)
	require.NoError(t, err)
	assert.Equal(t, keep.ID, got.MemberID)

	count, err := models.Members.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
