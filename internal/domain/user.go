package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

type User struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewUser(name, phone string) *User {
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Phone:     phone,
		Status:    UserStatusActive,
		CreatedAt: time.Now().UTC(),
	}
}
