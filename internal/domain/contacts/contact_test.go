package contacts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c, err := NewContact(CreateParams{ID: "c1", Name: "  Олена ", Phone: " +380 ", Now: now})
	require.NoError(t, err)
	assert.Equal(t, "Олена", c.Name)
	assert.Equal(t, "+380", c.Phone)
	assert.Equal(t, now, c.CreatedAt)

	_, err = NewContact(CreateParams{ID: "c2", Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	assert.ErrorIs(t, c.Update("", "", "", now), ErrNameRequired)
	require.NoError(t, c.Update("Олена П.", "", "repeat guest", now.Add(time.Hour)))
	assert.Equal(t, "repeat guest", c.Notes)
	assert.Equal(t, now.Add(time.Hour), c.UpdatedAt)
}

func TestDirectoryDisplayName(t *testing.T) {
	dir := NewDirectory([]*Contact{{ID: "c1", Name: "Ivan"}, nil, {ID: "c2"}})
	assert.Equal(t, "Ivan", dir.DisplayName("c1"))
	assert.Equal(t, UnknownContactName, dir.DisplayName("c2"))
	assert.Equal(t, UnknownContactName, dir.DisplayName("gone"))
	assert.Equal(t, UnknownContactName, dir.DisplayName(""))

	var empty Directory
	assert.Equal(t, UnknownContactName, empty.DisplayName("c1"))
}
