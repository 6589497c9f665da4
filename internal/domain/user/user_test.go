package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSubscribed(t *testing.T) {
	cases := []struct {
		status SubscriptionStatus
		want   bool
	}{
		{SubscriptionActive, true},
		{SubscriptionTrialing, true},
		{SubscriptionNone, false},
		{SubscriptionCanceled, false},
	}
	for _, tc := range cases {
		u := &User{SubscriptionStatus: tc.status}
		assert.Equal(t, tc.want, u.Subscribed(), "status %q", tc.status)
	}
}

func TestSummaryProjection(t *testing.T) {
	avatar := "https://example.com/a.png"
	u := &User{ID: uuid.New(), Name: "Ann", AvatarURL: &avatar, SubscriptionStatus: SubscriptionActive}
	s := u.Summary()
	assert.Equal(t, u.ID, s.ID)
	assert.Equal(t, "Ann", s.Name)
	assert.Equal(t, &avatar, s.AvatarURL)
}
