package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// CSRFFieldName имя поля формы и query-параметра с CSRF токеном
const CSRFFieldName = "csrf_token"

// ErrCSRFTokenInvalid токен отсутствует или не совпадает с cookie
var ErrCSRFTokenInvalid = errors.New("invalid csrf token")

// CSRFToken возвращает токен для форм страницы.
// Токен живет в отдельной подписанной cookie и не требует записи сессии.
func (m *Manager) CSRFToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if token, ok := m.csrfFromCookie(r); ok {
		return token, nil
	}

	token, err := generateID()
	if err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.csrfCookieName(),
		Value:    token + "." + m.signCSRF(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})

	return token, nil
}

// VerifyCSRF сверяет присланный токен с подписанной cookie запроса
func (m *Manager) VerifyCSRF(r *http.Request, token string) error {
	expected, ok := m.csrfFromCookie(r)
	if !ok || token == "" || !hmac.Equal([]byte(expected), []byte(token)) {
		return ErrCSRFTokenInvalid
	}
	return nil
}

func (m *Manager) csrfFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.csrfCookieName())
	if err != nil {
		return "", false
	}

	token, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.signCSRF(token))) {
		return "", false
	}
	return token, true
}

func (m *Manager) signCSRF(token string) string {
	mac := hmac.New(sha256.New, m.csrfKey)
	mac.Write([]byte("csrf:" + token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager) csrfCookieName() string {
	return m.cookieName + "_csrf"
}
