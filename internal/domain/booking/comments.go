package booking

import (
	"strings"
	"time"
)

type Comment struct {
	ID   string
	Text string
	At   time.Time
}

// AddComment appends; insertion order is the display order.
func (b *Booking) AddComment(id, text string, now time.Time) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, ErrEmptyComment
	}
	c := Comment{ID: id, Text: text, At: now.UTC()}
	b.Comments = append(b.Comments, c)
	b.UpdatedAt = now.UTC()
	return c, nil
}

func (b *Booking) RemoveComment(id string, now time.Time) error {
	for i, c := range b.Comments {
		if c.ID != id {
			continue
		}
		b.Comments = append(b.Comments[:i:i], b.Comments[i+1:]...)
		b.UpdatedAt = now.UTC()
		return nil
	}
	return ErrCommentNotFound
}
