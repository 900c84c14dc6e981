package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/business-management-api/internal/constants"
)

// ValidatePassword enforces length and character class rules.
func ValidatePassword(password string) bool {
	length := utf8.RuneCountInString(password)
	if length < constants.MinPasswordLength || length > constants.MaxPasswordLength {
		return false
	}

	var hasDigit, hasLower, hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case strings.ContainsRune(constants.PasswordSpecialSymbols, r):
			hasSpecial = true
		}
	}

	return hasDigit && hasLower && hasUpper && hasSpecial
}

// PasswordRule adapts ValidatePassword to a validator tag.
func PasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

// RegisterValidators installs custom binding rules on v.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("password", PasswordRule)
}
