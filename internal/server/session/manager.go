package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DefaultCookieName имя cookie с идентификатором сессии
const DefaultCookieName = "tasktracker_session"

// Manager связывает Store с HTTP cookie
type Manager struct {
	store      *Store
	cookieName string
	csrfKey    []byte
	secure     bool
}

// NewManager создает менеджер сессий.
// secure выставляет флаг Secure у cookie (для HTTPS), csrfKey подписывает CSRF cookie.
func NewManager(store *Store, cookieName string, secure bool, csrfKey []byte) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{
		store:      store,
		cookieName: cookieName,
		csrfKey:    csrfKey,
		secure:     secure,
	}
}

// Get возвращает сессию запроса или новую, если cookie нет или сессия истекла
func (m *Manager) Get(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err == nil {
		sess, err := m.store.Load(r.Context(), cookie.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	return m.store.New()
}

// Save сохраняет сессию и выставляет cookie.
// Должен вызываться до записи заголовков ответа.
// Новая сессия без token и flash-сообщений не сохраняется.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, sess *Session) error {
	if !sess.dirty() {
		return nil
	}

	if err := m.store.Save(r.Context(), sess); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Renew переносит token и flash-сообщения в сессию с новым ID и удаляет старую запись.
// Вызывается при смене пользователя (login, logout).
func (m *Manager) Renew(ctx context.Context, sess *Session) (*Session, error) {
	fresh, err := m.store.New()
	if err != nil {
		return nil, err
	}
	fresh.Token = sess.Token
	fresh.Flashes = sess.Flashes

	if sess.stored {
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			return nil, err
		}
	}

	return fresh, nil
}
