package handbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionStatus(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		handbook Handbook
		want     SubscriptionStatus
	}{
		{
			name:     "inside trial",
			handbook: Handbook{TrialEndsAt: now.Add(10 * 24 * time.Hour)},
			want:     StatusTrialing,
		},
		{
			name:     "trial over, no subscription",
			handbook: Handbook{TrialEndsAt: now.Add(-time.Hour)},
			want:     StatusExpired,
		},
		{
			name:     "trial over, paid subscription",
			handbook: Handbook{TrialEndsAt: now.Add(-time.Hour), SubscriptionActive: true},
			want:     StatusActive,
		},
		{
			name:     "trial ends exactly now counts as expired",
			handbook: Handbook{TrialEndsAt: now},
			want:     StatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.handbook.Status(now))
		})
	}
}

func TestTrialDaysLeft(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	h := Handbook{TrialEndsAt: now.Add(30 * 24 * time.Hour)}
	assert.Equal(t, 30, h.TrialDaysLeft(now))

	h = Handbook{TrialEndsAt: now.Add(36 * time.Hour)}
	assert.Equal(t, 1, h.TrialDaysLeft(now))

	h = Handbook{TrialEndsAt: now.Add(-time.Hour)}
	assert.Equal(t, 0, h.TrialDaysLeft(now))
}

func TestMemberCanEdit(t *testing.T) {
	assert.True(t, (&Member{Role: RoleAdmin}).CanEdit())
	assert.True(t, (&Member{Role: RoleEditor}).CanEdit())
	assert.False(t, (&Member{Role: RoleViewer}).CanEdit())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleEditor))
	assert.True(t, ValidRole(RoleViewer))
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}
