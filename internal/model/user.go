package model

import "time"

// User is an authentication principal. The bcrypt hash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserInsert is a validated user registration.
type UserInsert struct {
	Username string
	Password string
}

// Session is an issued bearer token.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}
