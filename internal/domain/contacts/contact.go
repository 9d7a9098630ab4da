package contacts

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrContactNotFound = errors.New("contacts: not found")
	ErrNameRequired    = errors.New("contacts: name required")
)

// UnknownContactName is shown for bookings whose contact no longer resolves.
const UnknownContactName = "—"

type ContactID string

type Contact struct {
	ID        ContactID
	Name      string
	Phone     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	List(ctx context.Context) ([]*Contact, error)
	ByID(ctx context.Context, id ContactID) (*Contact, error)
	Save(ctx context.Context, contact *Contact) error
}

type CreateParams struct {
	ID    ContactID
	Name  string
	Phone string
	Notes string
	Now   time.Time
}

func NewContact(params CreateParams) (*Contact, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := params.Now.UTC()
	return &Contact{
		ID:        params.ID,
		Name:      name,
		Phone:     strings.TrimSpace(params.Phone),
		Notes:     params.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update replaces the editable fields.
func (c *Contact) Update(name, phone, notes string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	c.Name = name
	c.Phone = strings.TrimSpace(phone)
	c.Notes = notes
	c.UpdatedAt = now.UTC()
	return nil
}

// Directory resolves contact ids for display.
type Directory map[ContactID]*Contact

func NewDirectory(list []*Contact) Directory {
	dir := make(Directory, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		dir[c.ID] = c
	}
	return dir
}

// DisplayName never fails: dangling ids resolve to UnknownContactName.
func (d Directory) DisplayName(id ContactID) string {
	if c, ok := d[id]; ok && c != nil && c.Name != "" {
		return c.Name
	}
	return UnknownContactName
}
