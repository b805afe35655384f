package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

const (
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 64
	// MaxEmailLen максимальная длина email (RFC 5321)
	MaxEmailLen = 254
	// MaxTaskNameLen максимальная длина названия задачи
	MaxTaskNameLen = 200
	// MaxTaskDescriptionLen максимальная длина описания задачи
	MaxTaskDescriptionLen = 4000
)

// FieldError описывает ошибку конкретного поля
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Required проверяет, что поле не пустое
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	}
	return nil
}

// ValidateUsername проверяет, что username не пустой, не длиннее MaxUsernameLen
// и не содержит пробельных или управляющих символов
func ValidateUsername(username string) error {
	if err := Required("username", username); err != nil {
		return err
	}

	if len(username) > MaxUsernameLen {
		return &FieldError{Field: "username", Message: fmt.Sprintf("username must not exceed %d characters", MaxUsernameLen)}
	}

	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return &FieldError{Field: "username", Message: "username must not contain whitespace"}
		}
	}

	return nil
}

// ValidateEmail проверяет, что email является одиночным адресом без display name
func ValidateEmail(email string) error {
	if err := Required("email", email); err != nil {
		return err
	}

	if len(email) > MaxEmailLen {
		return &FieldError{Field: "email", Message: fmt.Sprintf("email must not exceed %d characters", MaxEmailLen)}
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &FieldError{Field: "email", Message: "invalid email address"}
	}

	return nil
}

// ValidatePassword проверяет, что пароль задан.
// Требований к сложности нет.
func ValidatePassword(password string) error {
	if password == "" {
		return &FieldError{Field: "password", Message: "password is required"}
	}
	return nil
}

// ValidateTaskText проверяет обязательное текстовое поле задачи
func ValidateTaskText(field, value string, maxLen int) error {
	if err := Required(field, value); err != nil {
		return err
	}

	if len(value) > maxLen {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must not exceed %d characters", field, maxLen)}
	}

	return nil
}
