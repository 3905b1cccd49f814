package user

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

// User is the contact record used to address booking mail.
type User struct {
	ID    string
	Name  string
	Email string
}

// Repository reads users. Accounts are managed outside the booking engine.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
