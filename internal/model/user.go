package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Caller is the authenticated identity a request acts as.
type Caller struct {
	UserID   int64
	Username string
}

func (c Caller) Authenticated() bool {
	return c.UserID != 0
}
