package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/handlers/reports"
)

type recordingBus struct {
	got []commands.Command
	err error
}

func (b *recordingBus) Dispatch(_ context.Context, cmd commands.Command) (any, error) {
	b.got = append(b.got, cmd)
	if b.err != nil {
		return nil, b.err
	}
	return &reports.Published{Name: "r.xlsx", URL: "http://s3/r.xlsx", Size: 10}, nil
}

func TestReportYear(t *testing.T) {
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 2025},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ReportYear(tc.now), tc.now.String())
	}
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("not a spec", &recordingBus{}, nil, nil)
	assert.Error(t, err)
	_, err = New("0 3 1 * *", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoCommandBus)
}

func TestRunDispatchesPublish(t *testing.T) {
	bus := &recordingBus{}
	s, err := New("0 3 1 * *", bus, time.UTC, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC) }

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://s3/r.xlsx", res.URL)
	require.Len(t, bus.got, 1)
	assert.Equal(t, reports.PublishReportCommand{Year: 2024}, bus.got[0])

	next := s.Next()
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 1, next.Day())
}

func TestRunWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	s, err := New("@monthly", &recordingBus{err: boom}, nil, nil)
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}
