package models

import "time"

// TimestampLayout формат отображения created_at (YYYY-MM-DD HH:MM:SS)
const TimestampLayout = "2006-01-02 15:04:05"

// Строковое представление флага completed в формах и ответах API
const (
	CompletedTrue  = "True"
	CompletedFalse = "False"
)

// Task представляет задачу пользователя.
// OwnerID ссылается на User.ID; обратной ссылки от пользователя нет.
type Task struct {
	CreatedAt   time.Time `json:"created_at" db:"created_at" bson:"created_at"` // время создания или последнего изменения (UTC)
	ID          string    `json:"id" db:"id" bson:"_id"`                        // UUID задачи
	OwnerID     string    `json:"owner_id" db:"owner_id" bson:"owner_id"`       // ID владельца
	Name        string    `json:"name" db:"name" bson:"name"`
	Description string    `json:"description" db:"description" bson:"description"`
	Completed   bool      `json:"completed" db:"completed" bson:"completed"`
}

// CreatedAtString возвращает created_at в формате отображения
func (t *Task) CreatedAtString() string {
	return t.CreatedAt.UTC().Format(TimestampLayout)
}

// CompletedString возвращает "True" или "False"
func (t *Task) CompletedString() string {
	return FormatCompleted(t.Completed)
}

// FormatCompleted переводит bool в "True"/"False"
func FormatCompleted(completed bool) string {
	if completed {
		return CompletedTrue
	}
	return CompletedFalse
}

// ParseCompleted разбирает "True"/"False".
// Второе значение false, если строка не является допустимым значением.
func ParseCompleted(s string) (bool, bool) {
	switch s {
	case CompletedTrue:
		return true, true
	case CompletedFalse:
		return false, true
	default:
		return false, false
	}
}
