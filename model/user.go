package model

import "time"

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// Password holds the bcrypt hash; it is never serialized in responses.
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
