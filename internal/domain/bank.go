package domain

import "github.com/google/uuid"

type Bank struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

func NewBank(name, code string) *Bank {
	return &Bank{ID: uuid.New(), Name: name, Code: code}
}
