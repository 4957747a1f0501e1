package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User owns a set of habits
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if strings.ContainsAny(u.Username, " \t\n") {
		return fmt.Errorf("username %q cannot contain whitespace", u.Username)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email %q: %w", u.Email, err)
	}
	return nil
}
