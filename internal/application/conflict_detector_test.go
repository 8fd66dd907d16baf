package application

import (
	"errors"
	"testing"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictDetectorBoundaries(t *testing.T) {
	f := newFixture()
	f.book(101, 10, 15)

	tests := []struct {
		name     string
		from, to int
		conflict bool
	}{
		{"identical range", 10, 15, true},
		{"fully inside", 11, 14, true},
		{"fully covering", 9, 16, true},
		{"overlapping start", 8, 11, true},
		{"overlapping end", 14, 18, true},
		{"one shared night", 14, 15, true},
		{"checkout day turnover", 15, 18, false},
		{"checkin day turnover", 7, 10, false},
		{"entirely before", 5, 8, false},
		{"entirely after", 20, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.detector.HasConflict(101, day(tt.from), day(tt.to), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.conflict, got)
		})
	}
}

func TestConflictDetectorOtherRoomDoesNotConflict(t *testing.T) {
	f := newFixture()
	f.book(101, 10, 15)

	got, err := f.detector.HasConflict(102, day(10), day(15), 0)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestConflictDetectorIgnoresInactiveStatuses(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	_, err := f.service.Cancel(manager, res.ID, domain.RefundDecision{Choice: domain.RefundNone})
	require.NoError(t, err)

	got, err := f.detector.HasConflict(101, day(10), day(15), 0)
	require.NoError(t, err)
	assert.False(t, got, "cancelled reservations must not block the room")
}

func TestConflictDetectorExcludeSelf(t *testing.T) {
	f := newFixture()
	res := f.book(101, 10, 15)

	got, err := f.detector.HasConflict(101, day(10), day(16), res.ID)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestConflictDetectorInvalidRange(t *testing.T) {
	f := newFixture()

	_, err := f.detector.FindConflicts(101, day(15), day(10), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = f.detector.FindConflicts(101, day(10), day(10), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestConflictDetectorCheckNamesConflicts(t *testing.T) {
	f := newFixture()
	existing := f.book(101, 10, 15)

	err := f.detector.Check(101, day(12), day(20), 0)
	require.Error(t, err)

	var overlap *domain.OverlapError
	require.True(t, errors.As(err, &overlap))
	assert.ErrorIs(t, err, domain.ErrOverlap)
	require.Len(t, overlap.Conflicts, 1)
	assert.Equal(t, existing.ID, overlap.Conflicts[0].ID)
}
