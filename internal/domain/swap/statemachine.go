package swap

import (
	"fmt"

	"github.com/google/uuid"
)

// Transitions maps each target status to the party allowed to trigger it.
// pending is the only non-terminal state, so every transition starts there.
var transitions = map[Status]role{
	StatusAccepted:  roleRequestedUser,
	StatusDeclined:  roleRequestedUser,
	StatusCancelled: roleRequester,
}

type role int

const (
	roleRequester role = iota
	roleRequestedUser
)

// Authorize validates that actorID may move s to target.
//
// Check order: a non-party always gets ErrNotAuthorized regardless of state;
// a party attempting anything on a terminal swap gets ErrInvalidState; the
// wrong party for an otherwise valid transition gets ErrNotAuthorized.
func Authorize(s *Swap, actorID uuid.UUID, target Status) error {
	allowed, ok := transitions[target]
	if !ok {
		return fmt.Errorf("%w: cannot transition to %q", ErrInvalidInput, target)
	}
	if !s.IsParty(actorID) {
		return fmt.Errorf("%w: user is not a party to this swap", ErrNotAuthorized)
	}
	if s.Status != StatusPending {
		return fmt.Errorf("%w: current status is %q", ErrInvalidState, s.Status)
	}
	switch allowed {
	case roleRequester:
		if actorID != s.RequesterID {
			return fmt.Errorf("%w: only the requester may cancel", ErrNotAuthorized)
		}
	case roleRequestedUser:
		if actorID != s.RequestedUserID {
			return fmt.Errorf("%w: only the requested user may %s", ErrNotAuthorized, verbFor(target))
		}
	}
	return nil
}

func verbFor(target Status) string {
	if target == StatusAccepted {
		return "accept"
	}
	return "decline"
}
