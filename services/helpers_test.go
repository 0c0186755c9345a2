package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khushipatel79/e-commerce-BE/services"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Home & Kitchen", "home-kitchen"},
		{"  Crème Brûlée  ", "creme-brulee"},
		{"iPhone 15 Pro-Max!", "iphone-15-pro-max"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, services.Slugify(tt.in))
		})
	}
}

func TestPasswordValidator(t *testing.T) {
	v := services.NewPasswordValidator()

	assert.ErrorIs(t, v.ValidatePassword("abc"), services.ErrPasswordTooShort)
	assert.ErrorIs(t, v.ValidatePassword("Password"), services.ErrPasswordCommon)
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, v.ValidatePassword(string(long)), services.ErrPasswordTooLong)
	assert.NoError(t, v.ValidatePassword("correct horse"))
}
