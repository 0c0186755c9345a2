package services

import (
	"errors"
	"strings"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes long")
	ErrPasswordCommon   = errors.New("password is too common")
)

// PasswordValidator validates passwords against the account policy
type PasswordValidator struct {
	minLength       int
	maxBytes        int
	commonPasswords map[string]bool
}

func NewPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		minLength: 6,
		// bcrypt ignores everything past 72 bytes
		maxBytes: 72,
		commonPasswords: map[string]bool{
			"password": true,
			"123456":   true,
			"1234567":  true,
			"12345678": true,
			"qwerty":   true,
			"admin":    true,
			"welcome":  true,
			"letmein":  true,
		},
	}
}

func (pv *PasswordValidator) ValidatePassword(password string) error {
	if len([]rune(password)) < pv.minLength {
		return ErrPasswordTooShort
	}
	if len(password) > pv.maxBytes {
		return ErrPasswordTooLong
	}
	if pv.commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}
