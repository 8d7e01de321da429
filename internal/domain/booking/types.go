package booking

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status still occupies its time slot.
func (s Status) IsActive() bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusInProgress:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status frees the slot and never transitions
// further.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo enforces the monotonic lifecycle:
// pending_payment -> confirmed | cancelled, confirmed -> in_progress |
// cancelled, in_progress -> completed | cancelled. Terminal states never
// transition.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StatusPendingPayment:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// ActiveStatuses is the set of statuses the conflict policy counts as
// occupying a slot.
func ActiveStatuses() []Status {
	return []Status{StatusPendingPayment, StatusConfirmed, StatusInProgress}
}
