package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tasktracker/internal/crypto"
	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/session"
	"github.com/iudanet/tasktracker/internal/server/storage"
	"github.com/iudanet/tasktracker/internal/server/token"
	"github.com/iudanet/tasktracker/internal/validation"
)

// TokenCodec подписывает и проверяет identity токены
type TokenCodec interface {
	Sign(username string) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

// PasswordHasher хеширует и проверяет пароли
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// RegisterInput данные регистрации.
// ConfirmPassword проверяется только при RequireConfirmation (HTML-форма).
type RegisterInput struct {
	Username            string
	Email               string
	Password            string
	ConfirmPassword     string
	RequireConfirmation bool
}

// Credentials данные входа: username имеет приоритет над email
type Credentials struct {
	Username string
	Email    string
	Password string
}

// LoginResult результат успешного входа
type LoginResult struct {
	User  *models.User
	Token string
}

// AccountService регистрация, вход и разрешение identity
type AccountService struct {
	logger *slog.Logger
	users  storage.UserStorage
	codec  TokenCodec
	hasher PasswordHasher
	now    func() time.Time
}

// NewAccountService создает сервис аккаунтов
func NewAccountService(logger *slog.Logger, users storage.UserStorage, codec TokenCodec, hasher PasswordHasher) *AccountService {
	return &AccountService{
		logger: logger,
		users:  users,
		codec:  codec,
		hasher: hasher,
		now:    time.Now,
	}
}

// Register создает нового пользователя.
// Пароль хешируется здесь для обоих входов (API и форма).
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	// Быстрая проверка в порядке username, затем email.
	// Гонку между проверкой и вставкой закрывают уникальные индексы хранилища
	if err := s.ensureAvailable(ctx, FieldUsername, s.users.GetUserByUsername, in.Username); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, FieldEmail, s.users.GetUserByEmail, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken):
			return nil, &DuplicateIdentityError{Field: FieldUsername}
		case errors.Is(err, storage.ErrEmailTaken):
			return nil, &DuplicateIdentityError{Field: FieldEmail}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	return user, nil
}

func (s *AccountService) ensureAvailable(
	ctx context.Context,
	field string,
	lookup func(context.Context, string) (*models.User, error),
	value string,
) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return &DuplicateIdentityError{Field: field}
	case errors.Is(err, storage.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check %s: %w", field, err)
	}
}

func validateRegistration(in RegisterInput) error {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return fieldError(err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return fieldError(err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return fieldError(err)
	}

	if in.RequireConfirmation {
		if in.ConfirmPassword == "" {
			return &ValidationError{Field: FieldConfirmPassword, Message: "confirm_password is required"}
		}
		if in.Password != in.ConfirmPassword {
			return &ValidationError{Field: FieldConfirmPassword, Message: "Passwords do not match!"}
		}
	}

	return nil
}

// Login проверяет учетные данные и выпускает identity token
func (s *AccountService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if creds.Username == "" && creds.Email == "" {
		return nil, &ValidationError{Field: FieldUsername, Message: "Username or email is required!"}
	}
	if creds.Password == "" {
		return nil, &ValidationError{Field: FieldPassword, Message: "Password is required!"}
	}

	var (
		user *models.User
		err  error
	)
	if creds.Username != "" {
		user, err = s.users.GetUserByUsername(ctx, creds.Username)
	} else {
		user, err = s.users.GetUserByEmail(ctx, creds.Email)
	}
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, creds.Password); err != nil {
		if !errors.Is(err, crypto.ErrPasswordMismatch) {
			// Например, в хранилище лежит не bcrypt хеш
			s.logger.WarnContext(ctx, "login failed: unusable password hash",
				slog.String("user_id", user.ID), slog.Any("error", err))
		} else {
			s.logger.WarnContext(ctx, "login failed: invalid password", slog.String("user_id", user.ID))
		}
		return nil, ErrInvalidCredentials
	}

	tokenString, err := s.codec.Sign(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	return &LoginResult{User: user, Token: tokenString}, nil
}

// ResolveToken связывает identity token с пользователем.
// Отсутствующий, невалидный токен и неизвестный username дают ErrUnauthenticated.
func (s *AccountService) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.users.GetUserByUsername(ctx, claims.Identity.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ResolveCurrentUser возвращает пользователя сессии.
// Работает по принципу fail-open: любая ошибка означает анонимного пользователя.
func (s *AccountService) ResolveCurrentUser(ctx context.Context, sess *session.Session) (*models.User, bool) {
	if sess == nil || sess.Token == "" {
		return nil, false
	}

	user, err := s.ResolveToken(ctx, sess.Token)
	if err != nil {
		if IsUnexpected(err) {
			s.logger.ErrorContext(ctx, "failed to resolve session user", slog.Any("error", err))
		} else {
			s.logger.DebugContext(ctx, "session token rejected", slog.Any("error", err))
		}
		return nil, false
	}

	return user, true
}

// Logout удаляет токен из сессии.
// Отзыва нет: скопированный ранее токен действует до истечения exp.
func (s *AccountService) Logout(sess *session.Session) {
	sess.ClearToken()
}

// fieldError переводит ошибку поля validation в ValidationError
func fieldError(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return &ValidationError{Message: err.Error()}
}
