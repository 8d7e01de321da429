package booking

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidTimeSlot   = errors.New("invalid time slot")
	ErrInvalidDate       = errors.New("invalid service date")
	ErrEmptyAddress      = errors.New("address is required")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// FeeRate is the platform's cut of every booking total.
const FeeRate = 0.05

// timeSlots is the fixed bookable grid. Slot labels are stored verbatim so
// availability responses match what customers picked.
var timeSlots = []string{
	"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM",
	"12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
}

type TimeSlot struct {
	value string
}

func NewTimeSlot(value string) (TimeSlot, error) {
	trimmed := strings.TrimSpace(value)
	for _, s := range timeSlots {
		if s == trimmed {
			return TimeSlot{value: trimmed}, nil
		}
	}
	return TimeSlot{}, ErrInvalidTimeSlot
}

func (ts TimeSlot) String() string {
	return ts.value
}

func AllTimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

const serviceDateLayout = "2006-01-02"

// ServiceDate is a calendar day with no time-of-day component.
type ServiceDate struct {
	t time.Time
}

func NewServiceDate(value string) (ServiceDate, error) {
	t, err := time.Parse(serviceDateLayout, strings.TrimSpace(value))
	if err != nil {
		return ServiceDate{}, ErrInvalidDate
	}
	return ServiceDate{t: t}, nil
}

func ServiceDateFromTime(t time.Time) ServiceDate {
	y, m, d := t.Date()
	return ServiceDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d ServiceDate) Time() time.Time {
	return d.t
}

func (d ServiceDate) String() string {
	return d.t.Format(serviceDateLayout)
}

// Money is an amount in minor currency units (cents).
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents <= 0 {
		return Money{}, ErrNonPositiveAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

// PlatformFeeCents derives the fee owed to the platform from a booking total.
func PlatformFeeCents(totalCents int64) int64 {
	return int64(math.Round(float64(totalCents) * FeeRate))
}

type Address struct {
	value string
}

func NewAddress(value string) (Address, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Address{}, ErrEmptyAddress
	}
	return Address{value: trimmed}, nil
}

func (a Address) String() string {
	return a.value
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: strings.TrimSpace(value)}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
