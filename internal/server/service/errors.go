package service

import (
	"errors"
	"fmt"
)

// Таксономия ошибок сервисов. Любая другая ошибка считается непредвиденной.
var (
	// ErrValidation обязательное поле отсутствует или некорректно
	ErrValidation = errors.New("validation error")
	// ErrDuplicateIdentity username или email уже заняты
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrInvalidCredentials пользователь не найден или пароль не совпал
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound задача с таким id не существует
	ErrNotFound = errors.New("not found")
	// ErrForbidden задача существует, но принадлежит другому пользователю
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated запрос не удалось связать с пользователем
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError ошибка конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is позволяет errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateIdentityError указывает, какое поле совпало с существующим пользователем
type DuplicateIdentityError struct {
	Field string // "username" или "email"
}

func (e *DuplicateIdentityError) Error() string {
	switch e.Field {
	case FieldUsername:
		return "Username already exists!"
	case FieldEmail:
		return "Email already exists!"
	default:
		return fmt.Sprintf("%s already exists!", e.Field)
	}
}

// Is позволяет errors.Is(err, ErrDuplicateIdentity)
func (e *DuplicateIdentityError) Is(target error) bool {
	return target == ErrDuplicateIdentity
}

// Имена полей, на которые ссылаются ошибки
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldCompleted       = "completed"
)

// IsUnexpected сообщает, что ошибка не входит в таксономию
func IsUnexpected(err error) bool {
	if err == nil {
		return false
	}
	for _, known := range []error{
		ErrValidation,
		ErrDuplicateIdentity,
		ErrInvalidCredentials,
		ErrNotFound,
		ErrForbidden,
		ErrUnauthenticated,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}
