//go:build unit

package booking_test

import (
	"testing"
	"time"

	"taskbridge-server/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlot(t *testing.T) {
	t.Run("every grid slot is accepted", func(t *testing.T) {
		for _, s := range booking.AllTimeSlots() {
			slot, err := booking.NewTimeSlot(s)
			require.NoError(t, err, s)
			assert.Equal(t, s, slot.String())
		}
	})

	t.Run("grid has nine hourly slots", func(t *testing.T) {
		slots := booking.AllTimeSlots()
		assert.Len(t, slots, 9)
		assert.Equal(t, "8:00 AM", slots[0])
		assert.Equal(t, "4:00 PM", slots[len(slots)-1])
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		slot, err := booking.NewTimeSlot("  10:00 AM  ")
		require.NoError(t, err)
		assert.Equal(t, "10:00 AM", slot.String())
	})

	t.Run("off-grid values are rejected", func(t *testing.T) {
		for _, s := range []string{"", "5:00 PM", "10:30 AM", "10:00", "10:00 am"} {
			_, err := booking.NewTimeSlot(s)
			assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot, s)
		}
	})
}

func TestServiceDate(t *testing.T) {
	t.Run("parses ISO date", func(t *testing.T) {
		d, err := booking.NewServiceDate("2026-09-15")
		require.NoError(t, err)
		assert.Equal(t, "2026-09-15", d.String())
	})

	t.Run("rejects other formats", func(t *testing.T) {
		for _, s := range []string{"", "15-09-2026", "2026/09/15", "2026-13-01", "tomorrow"} {
			_, err := booking.NewServiceDate(s)
			assert.ErrorIs(t, err, booking.ErrInvalidDate, s)
		}
	})

	t.Run("from time drops the clock", func(t *testing.T) {
		d := booking.ServiceDateFromTime(time.Date(2026, 9, 15, 17, 42, 3, 0, time.UTC))
		assert.Equal(t, "2026-09-15", d.String())
	})
}

func TestMoney(t *testing.T) {
	t.Run("positive amounts only", func(t *testing.T) {
		m, err := booking.NewMoney(1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), m.Cents())

		_, err = booking.NewMoney(0)
		assert.ErrorIs(t, err, booking.ErrNonPositiveAmount)
		_, err = booking.NewMoney(-100)
		assert.ErrorIs(t, err, booking.ErrNonPositiveAmount)
	})
}

func TestPlatformFeeCents(t *testing.T) {
	cases := []struct {
		total int64
		fee   int64
	}{
		{10000, 500},
		{20000, 1000},
		{9999, 500},
		{150, 8},
		{1, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.fee, booking.PlatformFeeCents(c.total), "total %d", c.total)
	}
}

func TestAddress(t *testing.T) {
	a, err := booking.NewAddress("  123 Main St  ")
	require.NoError(t, err)
	assert.Equal(t, "123 Main St", a.String())

	_, err = booking.NewAddress("   ")
	assert.ErrorIs(t, err, booking.ErrEmptyAddress)
}

func TestNote(t *testing.T) {
	n := booking.NewNote("  hello  ")
	assert.Equal(t, "hello", n.String())
	assert.False(t, n.IsEmpty())
	assert.True(t, booking.NewNote("   ").IsEmpty())
}
