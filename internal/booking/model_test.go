package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNightsBetween(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"one night", date(2026, 3, 10), date(2026, 3, 11), 1},
		{"two nights", date(2026, 3, 10), date(2026, 3, 12), 2},
		{"week stay", date(2026, 3, 1), date(2026, 3, 8), 7},
		{"same day floors to one", date(2026, 3, 10), date(2026, 3, 10), 1},
		{"partial day rounds up", date(2026, 3, 10), date(2026, 3, 11).Add(6 * time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NightsBetween(tt.checkIn, tt.checkOut))
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint", date(2026, 3, 1), date(2026, 3, 5), date(2026, 3, 10), date(2026, 3, 12), false},
		{"contained", date(2026, 3, 1), date(2026, 3, 10), date(2026, 3, 3), date(2026, 3, 5), true},
		{"partial overlap", date(2026, 3, 1), date(2026, 3, 5), date(2026, 3, 4), date(2026, 3, 8), true},
		{"back to back is fine", date(2026, 3, 1), date(2026, 3, 5), date(2026, 3, 5), date(2026, 3, 8), false},
		{"identical", date(2026, 3, 1), date(2026, 3, 5), date(2026, 3, 1), date(2026, 3, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusApproved},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCheckedIn},
		{StatusApproved, StatusCancelled},
		{StatusCheckedIn, StatusCheckedOut},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s should be allowed", pair[0], pair[1])
	}

	denied := [][2]Status{
		{StatusPending, StatusCheckedIn},
		{StatusPending, StatusCheckedOut},
		{StatusApproved, StatusPending},
		{StatusCheckedIn, StatusCancelled},
		{StatusCheckedIn, StatusApproved},
		{StatusCheckedOut, StatusCheckedIn},
		{StatusCheckedOut, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusApproved},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s should be denied", pair[0], pair[1])
	}
}

func TestStatusLive(t *testing.T) {
	assert.True(t, StatusPending.Live())
	assert.True(t, StatusApproved.Live())
	assert.True(t, StatusCheckedIn.Live())
	assert.False(t, StatusCheckedOut.Live())
	assert.False(t, StatusCancelled.Live())
}

func TestCheckInWindowOpen(t *testing.T) {
	checkIn := date(2026, 3, 10)
	checkOut := date(2026, 3, 13)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"two days early", date(2026, 3, 8), false},
		{"day before", date(2026, 3, 9), true},
		{"on check-in day", date(2026, 3, 10), true},
		{"mid stay", date(2026, 3, 12), true},
		{"mid stay with clock time", time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC), true},
		{"on check-out day", date(2026, 3, 13), false},
		{"after stay", date(2026, 3, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckInWindowOpen(tt.now, checkIn, checkOut))
		})
	}
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2026, 3, 10, 23, 45, 12, 999, time.UTC))
	assert.Equal(t, date(2026, 3, 10), got)

	// Non-UTC inputs normalize to the UTC calendar date.
	loc := time.FixedZone("UTC+8", 8*3600)
	got = DateOf(time.Date(2026, 3, 11, 3, 0, 0, 0, loc))
	assert.Equal(t, date(2026, 3, 10), got)
}
