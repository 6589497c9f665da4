package swap

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func pendingSwap() *Swap {
	now := time.Now().UTC()
	return &Swap{
		ID:                 uuid.New(),
		RequesterID:        uuid.New(),
		RequestedUserID:    uuid.New(),
		RequesterListingID: uuid.New(),
		RequestedListingID: uuid.New(),
		StartDate:          now.Add(48 * time.Hour),
		EndDate:            now.Add(7 * 24 * time.Hour),
		Status:             StatusPending,
	}
}

func TestAuthorizeActorRules(t *testing.T) {
	s := pendingSwap()
	stranger := uuid.New()

	cases := []struct {
		name    string
		actor   uuid.UUID
		target  Status
		wantErr error
	}{
		{"requested user accepts", s.RequestedUserID, StatusAccepted, nil},
		{"requested user declines", s.RequestedUserID, StatusDeclined, nil},
		{"requester cancels", s.RequesterID, StatusCancelled, nil},
		{"requester cannot accept own request", s.RequesterID, StatusAccepted, ErrNotAuthorized},
		{"requester cannot decline own request", s.RequesterID, StatusDeclined, ErrNotAuthorized},
		{"requested user cannot cancel", s.RequestedUserID, StatusCancelled, ErrNotAuthorized},
		{"stranger cannot accept", stranger, StatusAccepted, ErrNotAuthorized},
		{"stranger cannot cancel", stranger, StatusCancelled, ErrNotAuthorized},
		{"pending is not a transition target", s.RequestedUserID, StatusPending, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(s, tc.actor, tc.target)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAuthorizeTerminalStates(t *testing.T) {
	// Any transition on a terminal swap fails with ErrInvalidState for
	// either party, no matter how often it is retried.
	for _, terminal := range []Status{StatusAccepted, StatusDeclined, StatusCancelled} {
		t.Run(string(terminal), func(t *testing.T) {
			s := pendingSwap()
			s.Status = terminal
			for _, target := range []Status{StatusAccepted, StatusDeclined, StatusCancelled} {
				for _, actor := range []uuid.UUID{s.RequesterID, s.RequestedUserID} {
					for i := 0; i < 2; i++ {
						if err := Authorize(s, actor, target); !errors.Is(err, ErrInvalidState) {
							t.Fatalf("transition %s -> %s: expected ErrInvalidState, got %v", terminal, target, err)
						}
					}
				}
			}
		})
	}
}

func TestAuthorizeStrangerOnTerminalSwap(t *testing.T) {
	s := pendingSwap()
	s.Status = StatusAccepted
	if err := Authorize(s, uuid.New(), StatusCancelled); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-party, got %v", err)
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	for _, st := range []Status{StatusAccepted, StatusDeclined, StatusCancelled} {
		if !st.Terminal() {
			t.Fatalf("%s must be terminal", st)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if st, err := ParseStatus("ACCEPTED"); err != nil || st != StatusAccepted {
		t.Fatalf("expected accepted, got %v %v", st, err)
	}
	if _, err := ParseStatus("rejected"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
