package data_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybulut/liblend/internal/data"
	"github.com/ybulut/liblend/internal/validator"
)

func TestMemberCRUD(t *testing.T) {
	models := newTestModels(t)

	email := "alice@example.com"
	phone := "555-0101"
	member := &data.Member{Name: "Alice", Email: &email, Phone: &phone}
	require.NoError(t, models.Members.Insert(member))

	got, err := models.Members.Get(member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	require.NotNil(t, got.Email)
	assert.Equal(t, email, *got.Email)
	require.NotNil(t, got.Phone)
	assert.Equal(t, phone, *got.Phone)

	got.Name = "Alice Smith"
	got.Phone = nil
	require.NoError(t, models.Members.Update(got))

	got, err = models.Members.Get(member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.Nil(t, got.Phone)

	require.NoError(t, models.Members.Delete(member.ID))

	_, err = models.Members.Get(member.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestMemberDuplicateEmail(t *testing.T) {
	models := newTestModels(t)

	email := "bob@example.com"
	require.NoError(t, models.Members.Insert(&data.Member{Name: "Bob", Email: &email}))

	err := models.Members.Insert(&data.Member{Name: "Robert", Email: &email})
	assert.ErrorIs(t, err, data.ErrDuplicateEmail)

	// NULL emails never collide.
	require.NoError(t, models.Members.Insert(&data.Member{Name: "Carol"}))
	require.NoError(t, models.Members.Insert(&data.Member{Name: "Dave"}))
}

func TestDeleteMemberBlockedByActiveLoan(t *testing.T) {
	models := newTestModels(t)

	book := mustBook(t, models, "Siddhartha", "Hermann Hesse")
	member := mustMember(t, models, "Alice")
	id := mustLoan(t, models, book.ID, member.ID)

	assert.ErrorIs(t, models.Members.Delete(member.ID), data.ErrActiveLoans)

	require.NoError(t, models.Loans.Return(id))
	require.NoError(t, models.Members.Delete(member.ID))

	// Closed loan history goes with the member.
	_, err := models.Loans.Get(id)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestValidateMember(t *testing.T) {
	tests := []struct {
		name   string
		member data.Member
		valid  bool
	}{
		{"plain name", data.Member{Name: "Alice"}, true},
		{"blank name", data.Member{Name: "   "}, false},
		{"good email", data.Member{Name: "Alice", Email: ptr("alice@example.com")}, true},
		{"bad email", data.Member{Name: "Alice", Email: ptr("not-an-email")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			data.ValidateMember(v, &tt.member)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func ptr(s string) *string { return &s }
