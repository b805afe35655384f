package session

import "time"

// Категории flash-сообщений
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash одноразовое сообщение пользователю, показываемое на следующей странице
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session серверное состояние одного браузера.
// Хранит identity token и очередь flash-сообщений.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"-"`
	Token     string    `json:"token,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	// stored выставляется после Load или Save
	stored bool
}

// dirty сообщает, нужно ли записывать сессию.
// Пустая анонимная сессия в хранилище не попадает.
func (s *Session) dirty() bool {
	return s.stored || s.Token != "" || len(s.Flashes) > 0
}

// SetToken сохраняет identity token в сессии
func (s *Session) SetToken(token string) {
	s.Token = token
}

// ClearToken удаляет identity token из сессии.
// Сам токен остается валидным до истечения exp.
func (s *Session) ClearToken() {
	s.Token = ""
}

// AddFlash добавляет сообщение для следующего рендера
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes возвращает накопленные сообщения и очищает очередь
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}
