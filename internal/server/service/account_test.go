package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktracker/internal/crypto"
	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/session"
	"github.com/iudanet/tasktracker/internal/server/storage"
)

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	env.register(t, "alice", "a@x.com")

	tests := []struct {
		wantErr   error
		input     RegisterInput
		name      string
		wantField string
	}{
		{
			name:  "new user",
			input: RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw"},
		},
		{
			name:      "missing username",
			input:     RegisterInput{Email: "c@x.com", Password: "pw"},
			wantErr:   ErrValidation,
			wantField: FieldUsername,
		},
		{
			name:      "missing email",
			input:     RegisterInput{Username: "carol", Password: "pw"},
			wantErr:   ErrValidation,
			wantField: FieldEmail,
		},
		{
			name:      "missing password",
			input:     RegisterInput{Username: "carol", Email: "c@x.com"},
			wantErr:   ErrValidation,
			wantField: FieldPassword,
		},
		{
			name:      "malformed email",
			input:     RegisterInput{Username: "carol", Email: "not-an-email", Password: "pw"},
			wantErr:   ErrValidation,
			wantField: FieldEmail,
		},
		{
			name:      "duplicate username",
			input:     RegisterInput{Username: "alice", Email: "other@x.com", Password: "pw"},
			wantErr:   ErrDuplicateIdentity,
			wantField: FieldUsername,
		},
		{
			name:      "duplicate email",
			input:     RegisterInput{Username: "dave", Email: "a@x.com", Password: "pw"},
			wantErr:   ErrDuplicateIdentity,
			wantField: FieldEmail,
		},
		{
			name:      "username checked before email",
			input:     RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw"},
			wantErr:   ErrDuplicateIdentity,
			wantField: FieldUsername,
		},
		{
			name: "form without confirmation",
			input: RegisterInput{
				Username: "erin", Email: "e@x.com", Password: "pw", RequireConfirmation: true,
			},
			wantErr:   ErrValidation,
			wantField: FieldConfirmPassword,
		},
		{
			name: "form with mismatched confirmation",
			input: RegisterInput{
				Username: "erin", Email: "e@x.com", Password: "pw", ConfirmPassword: "pw2", RequireConfirmation: true,
			},
			wantErr:   ErrValidation,
			wantField: FieldConfirmPassword,
		},
		{
			name: "form with matching confirmation",
			input: RegisterInput{
				Username: "erin", Email: "e@x.com", Password: "pw", ConfirmPassword: "pw", RequireConfirmation: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := env.accounts.Register(ctx, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)

				var ve *ValidationError
				var de *DuplicateIdentityError
				switch {
				case errors.As(err, &ve):
					assert.Equal(t, tt.wantField, ve.Field)
				case errors.As(err, &de):
					assert.Equal(t, tt.wantField, de.Field)
				default:
					t.Fatalf("unexpected error type %T", err)
				}
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, user.ID)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)

			stored, err := env.store.GetUserByUsername(ctx, tt.input.Username)
			require.NoError(t, err)
			assert.Equal(t, user.ID, stored.ID)
			assert.NoError(t, crypto.NewPasswordHasher(0).Verify(stored.PasswordHash, tt.input.Password))
		})
	}
}

func TestAccountService_Register_DuplicateMessages(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	env.register(t, "alice", "a@x.com")

	_, err := env.accounts.Register(ctx, RegisterInput{Username: "alice", Email: "z@x.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Username already exists!", err.Error())

	_, err = env.accounts.Register(ctx, RegisterInput{Username: "zed", Email: "a@x.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Email already exists!", err.Error())
}

func TestAccountService_Register_InsertRace(t *testing.T) {
	// Пред-проверки прошли, но вставка упала на уникальном индексе
	users := &storage.UserStorageMock{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, storage.ErrUserNotFound
		},
		GetUserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, storage.ErrUserNotFound
		},
		CreateUserFunc: func(ctx context.Context, user *models.User) error {
			return storage.ErrEmailTaken
		},
	}
	accounts := NewAccountService(setupTestLogger(), users, setupTestCodec(t), crypto.NewPasswordHasher(4))

	_, err := accounts.Register(context.Background(), RegisterInput{Username: "a", Email: "a@x.com", Password: "pw"})
	require.ErrorIs(t, err, ErrDuplicateIdentity)

	var de *DuplicateIdentityError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, FieldEmail, de.Field)
	assert.Len(t, users.CreateUserCalls(), 1)
}

func TestAccountService_Register_StoreFailure(t *testing.T) {
	users := &storage.UserStorageMock{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	accounts := NewAccountService(setupTestLogger(), users, setupTestCodec(t), crypto.NewPasswordHasher(4))

	_, err := accounts.Register(context.Background(), RegisterInput{Username: "a", Email: "a@x.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, IsUnexpected(err))
	assert.Empty(t, users.CreateUserCalls())
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.com")

	tests := []struct {
		wantErr error
		name    string
		creds   Credentials
	}{
		{name: "by username", creds: Credentials{Username: "alice", Password: "pw"}},
		{name: "by email", creds: Credentials{Email: "a@x.com", Password: "pw"}},
		{name: "username takes precedence", creds: Credentials{Username: "alice", Email: "nobody@x.com", Password: "pw"}},
		{name: "wrong password", creds: Credentials{Username: "alice", Password: "wrong"}, wantErr: ErrInvalidCredentials},
		{name: "unknown user", creds: Credentials{Username: "ghost", Password: "pw"}, wantErr: ErrInvalidCredentials},
		{name: "unknown email", creds: Credentials{Email: "ghost@x.com", Password: "pw"}, wantErr: ErrInvalidCredentials},
		{name: "no identifier", creds: Credentials{Password: "pw"}, wantErr: ErrValidation},
		{name: "no password", creds: Credentials{Username: "alice"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.accounts.Login(ctx, tt.creds)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, alice.ID, result.User.ID)

			claims, err := env.codec.Verify(result.Token)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Identity.Username)
		})
	}
}

func TestAccountService_Login_NonBcryptHash(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	require.NoError(t, env.store.CreateUser(ctx, &models.User{
		ID:           "legacy",
		Username:     "legacy",
		Email:        "legacy@x.com",
		PasswordHash: "plaintext",
	}))

	_, err := env.accounts.Login(ctx, Credentials{Username: "legacy", Password: "plaintext"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_ResolveToken(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.com")

	valid, err := env.codec.Sign("alice")
	require.NoError(t, err)
	orphan, err := env.codec.Sign("ghost")
	require.NoError(t, err)

	user, err := env.accounts.ResolveToken(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	for name, tok := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"unknown user": orphan,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.accounts.ResolveToken(ctx, tok)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestAccountService_ResolveCurrentUser(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	alice := env.register(t, "alice", "a@x.com")

	result, err := env.accounts.Login(ctx, Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	sess := &session.Session{}
	sess.SetToken(result.Token)

	user, ok := env.accounts.ResolveCurrentUser(ctx, sess)
	require.True(t, ok)
	assert.Equal(t, alice.ID, user.ID)

	// После logout сессия анонимна
	env.accounts.Logout(sess)
	assert.Empty(t, sess.Token)
	_, ok = env.accounts.ResolveCurrentUser(ctx, sess)
	assert.False(t, ok)

	// Ранее выданный токен продолжает действовать до exp
	_, err = env.accounts.ResolveToken(ctx, result.Token)
	assert.NoError(t, err)

	sess.SetToken("garbage")
	_, ok = env.accounts.ResolveCurrentUser(ctx, sess)
	assert.False(t, ok)

	_, ok = env.accounts.ResolveCurrentUser(ctx, nil)
	assert.False(t, ok)
}

func TestAccountService_ResolveCurrentUser_StoreFailure(t *testing.T) {
	codec := setupTestCodec(t)
	users := &storage.UserStorageMock{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, errors.New("disk I/O error")
		},
	}
	accounts := NewAccountService(setupTestLogger(), users, codec, crypto.NewPasswordHasher(4))

	tok, err := codec.Sign("alice")
	require.NoError(t, err)

	sess := &session.Session{Token: tok}
	user, ok := accounts.ResolveCurrentUser(context.Background(), sess)
	assert.False(t, ok)
	assert.Nil(t, user)
}
