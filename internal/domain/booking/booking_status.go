package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// AllStatuses lists every known status in lifecycle order.
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}

// OccupyingStatuses are the statuses whose bookings hold their time slot.
// Rejected and cancelled bookings free the slot.
var OccupyingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted}

// transitionRules maps (current, requested) to the parties allowed to
// request that move. Anything absent is not a legal transition.
var transitionRules = map[BookingStatus]map[BookingStatus]Role{
	StatusPending: {
		StatusConfirmed: RoleHost,
		StatusRejected:  RoleHost,
		StatusCancelled: RoleRenter,
	},
	StatusConfirmed: {
		StatusCancelled: RoleRenter | RoleHost,
		StatusCompleted: RoleHost,
	},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusCompleted: {},
}

// requesters is the union of roles that may ever request each target status.
var requesters = func() map[BookingStatus]Role {
	out := make(map[BookingStatus]Role)
	for _, targets := range transitionRules {
		for target, roles := range targets {
			out[target] |= roles
		}
	}
	return out
}()

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := transitionRules[s]
	return exists
}

// CanTransitionTo returns true if some party may move this status to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	_, ok := transitionRules[s][target]
	return ok
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(transitionRules[s]) == 0
}

// OccupiesSlot reports whether a booking in this status blocks overlapping bookings.
func (s BookingStatus) OccupiesSlot() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// AuthorizeTransition checks whether an actor holding roles may move a
// booking from current to target.
//
// An actor with no relation to the booking is always ErrForbidden, as is one
// whose roles can never request target at all (a renter confirming). A
// target that no party can ever request, or a move the table does not list
// for the actor, is ErrInvalidTransition.
func AuthorizeTransition(current, target BookingStatus, roles Role) error {
	if roles == RoleNone {
		return fmt.Errorf("%w: no relation to this booking", ErrForbidden)
	}
	allowed := requesters[target]
	if allowed == RoleNone {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, target)
	}
	if roles&allowed == RoleNone {
		return fmt.Errorf("%w: %s may not set status %s", ErrForbidden, roles, target)
	}
	rule, ok := transitionRules[current][target]
	if !ok || rule&roles == RoleNone {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, target)
	}
	return nil
}
