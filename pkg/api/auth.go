package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest представляет запрос на аутентификацию.
// Достаточно username или email; username имеет приоритет.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ на успешный вход
type TokenResponse struct {
	Token    string `json:"token"`    // JWT identity token
	Username string `json:"username"` // username пользователя
	Email    string `json:"email"`    // email пользователя
}

// MessageResponse представляет ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`                // описание ошибки
	Message   string `json:"message,omitempty"`    // дополнительное сообщение
	Field     string `json:"field,omitempty"`      // поле, не прошедшее проверку
	RequestID string `json:"request_id,omitempty"` // id запроса для корреляции с логами
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}
