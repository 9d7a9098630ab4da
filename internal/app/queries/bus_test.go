package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monthQuery struct{ Month string }

func (monthQuery) Key() string { return "test.month" }

type yearQuery struct{}

func (yearQuery) Key() string { return "test.year" }

func TestAsk(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[monthQuery, string](bus, HandlerFunc[monthQuery, string](func(_ context.Context, q monthQuery) (string, error) {
		return "stats " + q.Month, nil
	}))
	ctx := context.Background()

	got, err := Ask[monthQuery, string](ctx, bus, monthQuery{Month: "2024-05"})
	require.NoError(t, err)
	assert.Equal(t, "stats 2024-05", got)

	cases := []struct {
		name    string
		ask     func() error
		wantErr error
		message string
	}{
		{
			name:    "wrong result type",
			ask:     func() error { _, err := Ask[monthQuery, int](ctx, bus, monthQuery{}); return err },
			wantErr: ErrResultType,
			message: "queries: result type mismatch: test.month returned string",
		},
		{
			name:    "unregistered",
			ask:     func() error { _, err := Ask[yearQuery, int](ctx, bus, yearQuery{}); return err },
			wantErr: ErrHandlerNotFound,
			message: "queries: handler not found: test.year",
		},
		{
			name:    "nil bus",
			ask:     func() error { _, err := Ask[monthQuery, string](ctx, nil, monthQuery{}); return err },
			wantErr: ErrNilBus,
			message: "queries: nil bus",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ask()
			assert.ErrorIs(t, err, tc.wantErr)
			assert.EqualError(t, err, tc.message)
		})
	}

	assert.Panics(t, func() {
		RegisterHandler[monthQuery, string](bus, HandlerFunc[monthQuery, string](nil))
	})
}
