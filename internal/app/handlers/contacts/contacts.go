package contacts

import (
	"context"
	"errors"
	"sort"
	"strings"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/queries"
	"guesthouse/internal/app/uow"
	domaincontacts "guesthouse/internal/domain/contacts"
)

const (
	saveContactKey  = "contacts.save"
	listContactsKey = "contacts.list"
)

// SaveContactCommand upserts a contact. An empty ID creates one.
type SaveContactCommand struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (c SaveContactCommand) Key() string { return saveContactKey }

type SaveContactHandler struct {
	UoWFactory uow.UoWFactory
	Clock      support.Clock
	IDs        support.IDs
}

func (h *SaveContactHandler) Handle(ctx context.Context, cmd SaveContactCommand) (*dto.Contact, error) {
	var result *dto.Contact
	err := support.Within(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		now := h.Clock.Now()
		id := domaincontacts.ContactID(cmd.ID)
		var contact *domaincontacts.Contact
		if id != "" {
			existing, err := unit.Contacts().ByID(ctx, id)
			switch {
			case err == nil:
				if err := existing.Update(cmd.Name, cmd.Phone, cmd.Notes, now); err != nil {
					return err
				}
				contact = existing
			case !errors.Is(err, domaincontacts.ErrContactNotFound):
				return err
			}
		} else {
			id = domaincontacts.ContactID(h.IDs.New())
		}
		if contact == nil {
			created, err := domaincontacts.NewContact(domaincontacts.CreateParams{
				ID: id, Name: cmd.Name, Phone: cmd.Phone, Notes: cmd.Notes, Now: now,
			})
			if err != nil {
				return err
			}
			contact = created
		}
		if err := unit.Contacts().Save(ctx, contact); err != nil {
			return err
		}
		mapped := dto.MapContact(contact)
		result = &mapped
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListContactsQuery returns contacts ordered by name. Search matches name or
// phone, case-insensitively.
type ListContactsQuery struct {
	Search string `json:"search"`
}

func (q ListContactsQuery) Key() string { return listContactsKey }

type ListContactsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListContactsHandler) Handle(ctx context.Context, q ListContactsQuery) (*dto.ContactCollection, error) {
	unit, execCtx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()

	list, err := unit.Contacts().List(execCtx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := &dto.ContactCollection{Items: make([]dto.Contact, 0, len(list))}
	for _, c := range list {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) && !strings.Contains(c.Phone, needle) {
			continue
		}
		out.Items = append(out.Items, dto.MapContact(c))
	}
	return out, nil
}

var _ commands.Handler[SaveContactCommand, *dto.Contact] = (*SaveContactHandler)(nil)
var _ queries.Handler[ListContactsQuery, *dto.ContactCollection] = (*ListContactsHandler)(nil)
