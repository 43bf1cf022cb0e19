package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ybulut/liblend/internal/validator"
)

func TestValidatorCollectsFirstErrorPerKey(t *testing.T) {
	v := validator.New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must not be more than 500 bytes long")
	v.Check(true, "author", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, "must be provided", v.Errors["title"])
	assert.NotContains(t, v.Errors, "author")
}

func TestNotBlank(t *testing.T) {
	assert.True(t, validator.NotBlank("hello"))
	assert.True(t, validator.NotBlank("  hello  "))
	assert.False(t, validator.NotBlank(""))
	assert.False(t, validator.NotBlank("   "))
	assert.False(t, validator.NotBlank("\t\n"))
}

func TestEmailRX(t *testing.T) {
	assert.True(t, validator.Matches("alice@example.com", validator.EmailRX))
	assert.True(t, validator.Matches("a.b+tag@sub.example.co.uk", validator.EmailRX))
	assert.False(t, validator.Matches("not-an-email", validator.EmailRX))
	assert.False(t, validator.Matches("@example.com", validator.EmailRX))
	assert.False(t, validator.Matches("alice@", validator.EmailRX))
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "Sw0rdfish", true},
		{"too short", "Sw0rd", false},
		{"no upper", "sw0rdfish", false},
		{"no lower", "SW0RDFISH", false},
		{"no digit", "Swordfish", false},
		{"empty", "", false},
		{"exactly eight", "Passw0rd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.StrongPassword(tt.password))
		})
	}
}
