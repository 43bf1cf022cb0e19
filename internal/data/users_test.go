package data_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybulut/liblend/internal/data"
)

func newTestUser(t *testing.T, username, plaintext string) *data.User {
	t.Helper()

	user := &data.User{Username: username, IsAdmin: true}
	require.NoError(t, user.Password.Set(plaintext))
	return user
}

func TestUserInsertAndGetByUsername(t *testing.T) {
	models := newTestModels(t)

	user := newTestUser(t, "admin", "Sw0rdfish!")
	require.NoError(t, models.Users.Insert(user))
	require.NotZero(t, user.ID)

	got, err := models.Users.GetByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, got.IsAdmin)

	ok, err := got.Password.Matches("Sw0rdfish!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = got.Password.Matches("wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserDuplicateUsername(t *testing.T) {
	models := newTestModels(t)

	require.NoError(t, models.Users.Insert(newTestUser(t, "admin", "Sw0rdfish!")))

	err := models.Users.Insert(newTestUser(t, "admin", "Different1"))
	assert.ErrorIs(t, err, data.ErrDuplicateUsername)
}

func TestUserNotFound(t *testing.T) {
	models := newTestModels(t)

	_, err := models.Users.GetByUsername("ghost")
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	_, err = models.Users.Get(999)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}
