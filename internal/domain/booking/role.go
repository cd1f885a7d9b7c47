package booking

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the relationship an actor has to a booking. Roles combine as a
// bit set since a host may also rent their own listing.
type Role uint8

const (
	RoleRenter Role = 1 << iota
	RoleHost
)

// RoleNone means the actor has no relationship to the booking.
const RoleNone Role = 0

// ResolveRoles derives the actor's roles from the booking's renter and the
// listing's owner.
func ResolveRoles(actorID, renterID, hostID uuid.UUID) Role {
	if actorID == uuid.Nil {
		return RoleNone
	}
	r := RoleNone
	if actorID == renterID {
		r |= RoleRenter
	}
	if actorID == hostID {
		r |= RoleHost
	}
	return r
}

// Has reports whether r includes every bit of other.
func (r Role) Has(other Role) bool {
	return other != RoleNone && r&other == other
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	var parts []string
	if r.Has(RoleRenter) {
		parts = append(parts, "renter")
	}
	if r.Has(RoleHost) {
		parts = append(parts, "host")
	}
	return strings.Join(parts, "+")
}
