package models

import "time"

// User представляет зарегистрированного пользователя
type User struct {
	CreatedAt    time.Time `json:"created_at" db:"created_at" bson:"created_at"` // время регистрации
	ID           string    `json:"id" db:"id" bson:"_id"`                        // UUID пользователя
	Username     string    `json:"username" db:"username" bson:"username"`       // уникальный username
	Email        string    `json:"email" db:"email" bson:"email"`                // уникальный email
	PasswordHash string    `json:"-" db:"password_hash" bson:"password"`         // bcrypt хеш пароля
}
