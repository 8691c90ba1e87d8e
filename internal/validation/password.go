package validation

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxPasswordLen максимальная длина пароля (ограничение bcrypt — 72 байта)
	MaxPasswordLen = 72
)

const specialChars = "!@#$%^&*()_+-=[]{}|;':\",./<>?"

// ValidatePassword проверяет, что пароль соответствует требованиям:
// длина 8-72, есть строчная и заглавная буквы, цифра и спецсимвол.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters long", MaxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune(specialChars, c):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return fmt.Errorf("password must contain uppercase, lowercase, digit and special character")
	}

	return nil
}
