package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidateEmail проверяет синтаксис email адреса
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address")
	}
	// mail.ParseAddress принимает формы с display name ("A <a@b.c>"),
	// для регистрации нужен голый адрес
	if addr.Address != email {
		return fmt.Errorf("invalid email address")
	}

	return nil
}
