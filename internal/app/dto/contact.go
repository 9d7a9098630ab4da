package dto

import (
	"time"

	"guesthouse/internal/domain/contacts"
)

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapContact(c *contacts.Contact) Contact {
	return Contact{
		ID:        string(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type ContactCollection struct {
	Items []Contact `json:"items"`
}
