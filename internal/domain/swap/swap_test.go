package swap

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

func validSwap(now time.Time) *Swap {
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

func TestValidate(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid", func(t *testing.T) {
		if err := validSwap(now).Validate(now); err != nil {
			t.Fatalf("expected valid swap, got %v", err)
		}
	})

	t.Run("self swap", func(t *testing.T) {
		s := validSwap(now)
		s.RequestedUserID = s.RequesterID
		if err := s.Validate(now); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("same listing on both sides", func(t *testing.T) {
		s := validSwap(now)
		s.RequestedListingID = s.RequesterListingID
		if err := s.Validate(now); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		s := validSwap(now)
		s.EndDate = s.StartDate.Add(-time.Hour)
		if err := s.Validate(now); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("under one day", func(t *testing.T) {
		s := validSwap(now)
		s.EndDate = s.StartDate.Add(12 * time.Hour)
		if err := s.Validate(now); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("start date in the past", func(t *testing.T) {
		s := validSwap(now)
		s.StartDate = now.Add(-24 * time.Hour)
		s.EndDate = now.Add(5 * 24 * time.Hour)
		if err := s.Validate(now); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("start date exactly now", func(t *testing.T) {
		s := validSwap(now)
		s.StartDate = now
		if err := s.Validate(now); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("notes too long", func(t *testing.T) {
		s := validSwap(now)
		long := string(make([]byte, MaxNotesLen+1))
		s.Notes = &long
		if err := s.Validate(now); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestOverlapsBoundary(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	cases := []struct {
		name         string
		aStart, aEnd int
		bStart, bEnd int
		want         bool
	}{
		{"disjoint", 1, 5, 6, 10, false},
		{"contained", 1, 10, 3, 5, true},
		{"partial", 1, 10, 5, 15, true},
		{"identical", 1, 10, 1, 10, true},
		{"touching at boundary", 1, 10, 10, 20, false},
		{"touching at boundary reversed", 10, 20, 1, 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(day(tc.aStart), day(tc.aEnd), day(tc.bStart), day(tc.bEnd))
			if got != tc.want {
				t.Fatalf("Overlaps([%d,%d),[%d,%d)) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestConflictsWithSharedListing(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l1, l2, l3, l4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	a := &Swap{RequesterListingID: l1, RequestedListingID: l2, StartDate: base, EndDate: base.AddDate(0, 0, 10)}

	t.Run("shared listing, overlapping window", func(t *testing.T) {
		b := &Swap{RequesterListingID: l2, RequestedListingID: l3, StartDate: base.AddDate(0, 0, 5), EndDate: base.AddDate(0, 0, 15)}
		if !a.ConflictsWith(b) {
			t.Fatal("expected conflict")
		}
	})

	t.Run("no shared listing", func(t *testing.T) {
		b := &Swap{RequesterListingID: l3, RequestedListingID: l4, StartDate: base, EndDate: base.AddDate(0, 0, 10)}
		if a.ConflictsWith(b) {
			t.Fatal("expected no conflict without a shared listing")
		}
	})

	t.Run("shared listing, disjoint windows", func(t *testing.T) {
		b := &Swap{RequesterListingID: l1, RequestedListingID: l4, StartDate: base.AddDate(0, 0, 10), EndDate: base.AddDate(0, 0, 20)}
		if a.ConflictsWith(b) {
			t.Fatal("expected no conflict when windows only touch")
		}
	})
}

func TestConflictsWithSymmetric(t *testing.T) {
	listings := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rapid.Check(t, func(t *rapid.T) {
		gen := func(label string) *Swap {
			start := rapid.IntRange(0, 30).Draw(t, label+"Start")
			length := rapid.IntRange(1, 30).Draw(t, label+"Len")
			return &Swap{
				RequesterListingID: listings[rapid.IntRange(0, 3).Draw(t, label+"L1")],
				RequestedListingID: listings[rapid.IntRange(0, 3).Draw(t, label+"L2")],
				StartDate:          base.AddDate(0, 0, start),
				EndDate:            base.AddDate(0, 0, start+length),
			}
		}
		a, b := gen("a"), gen("b")
		if a.ConflictsWith(b) != b.ConflictsWith(a) {
			t.Fatalf("conflict relation must be symmetric")
		}
	})
}
