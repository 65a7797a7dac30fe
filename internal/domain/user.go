package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a back-office account. Only the identity fields matter to the
// catalog engine; credentials live elsewhere.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser returns an account with a fresh id.
func NewUser(name, email, role string) *User {
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
}
