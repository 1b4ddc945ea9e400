package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

func ptr(t time.Time) *time.Time {
	return &t
}

func evaluate(user *models.User, now time.Time) Status {
	return NewEvaluator(TrialPeriod, 0).Evaluate(user, now)
}

func TestEvaluate(t *testing.T) {
	t0 := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	caracas := time.FixedZone("VET", -4*60*60)

	tests := []struct {
		name          string
		user          *models.User
		now           time.Time
		wantState     State
		wantRemaining time.Duration
		wantActive    bool
	}{
		{
			name:      "no user",
			user:      nil,
			now:       t0,
			wantState: NoLicense,
		},
		{
			name:      "inactive user wins over valid license",
			user:      &models.User{IsActive: false, IsTrial: true, LicenseStart: ptr(t0), LicenseEnd: ptr(t0.Add(48 * time.Hour))},
			now:       t0.Add(time.Hour),
			wantState: Inactive,
		},
		{
			name:      "blocked user",
			user:      &models.User{IsActive: true, IsBlocked: true, IsTrial: false, LicenseEnd: ptr(t0.AddDate(1, 0, 0))},
			now:       t0,
			wantState: Blocked,
		},
		{
			name:          "trial active just before end",
			user:          &models.User{IsActive: true, IsTrial: true, LicenseStart: ptr(t0), LicenseEnd: ptr(t0.Add(48 * time.Hour))},
			now:           t0.Add(47*time.Hour + 59*time.Minute),
			wantState:     TrialActive,
			wantRemaining: time.Minute,
			wantActive:    true,
		},
		{
			name:      "trial expired exactly at end",
			user:      &models.User{IsActive: true, IsTrial: true, LicenseStart: ptr(t0), LicenseEnd: ptr(t0.Add(48 * time.Hour))},
			now:       t0.Add(48 * time.Hour),
			wantState: TrialExpired,
		},
		{
			name:          "trial without end and without start starts now",
			user:          &models.User{IsActive: true, IsTrial: true},
			now:           t0,
			wantState:     TrialActive,
			wantRemaining: TrialPeriod,
			wantActive:    true,
		},
		{
			name:          "trial without end counts from start",
			user:          &models.User{IsActive: true, IsTrial: true, LicenseStart: ptr(t0)},
			now:           t0.Add(12 * time.Hour),
			wantState:     TrialActive,
			wantRemaining: 36 * time.Hour,
			wantActive:    true,
		},
		{
			name:      "trial without end expires from start",
			user:      &models.User{IsActive: true, IsTrial: true, LicenseStart: ptr(t0)},
			now:       t0.Add(TrialPeriod),
			wantState: TrialExpired,
		},
		{
			name:      "full license without end is inactive",
			user:      &models.User{IsActive: true, IsTrial: false},
			now:       t0.AddDate(10, 0, 0),
			wantState: Inactive,
		},
		{
			name:          "full license active",
			user:          &models.User{IsActive: true, IsTrial: false, LicenseStart: ptr(t0), LicenseEnd: ptr(t0.Add(FullPeriod))},
			now:           t0.Add(24 * time.Hour),
			wantState:     FullActive,
			wantRemaining: FullPeriod - 24*time.Hour,
			wantActive:    true,
		},
		{
			name:      "full license expired",
			user:      &models.User{IsActive: true, IsTrial: false, LicenseStart: ptr(t0), LicenseEnd: ptr(t0.Add(FullPeriod))},
			now:       t0.Add(FullPeriod + time.Second),
			wantState: FullExpired,
		},
		{
			name:          "end stored with foreign offset is compared as the same instant",
			user:          &models.User{IsActive: true, IsTrial: true, LicenseEnd: ptr(t0.Add(2 * time.Hour).In(caracas))},
			now:           t0.Add(time.Hour),
			wantState:     TrialActive,
			wantRemaining: time.Hour,
			wantActive:    true,
		},
		{
			name:      "now given in foreign offset",
			user:      &models.User{IsActive: true, IsTrial: false, LicenseEnd: ptr(t0)},
			now:       t0.In(caracas),
			wantState: FullExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(tt.user, tt.now)

			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantRemaining, got.Remaining)
			assert.Equal(t, tt.wantActive, got.Active())
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestEvaluator_CustomTrialPeriod(t *testing.T) {
	t0 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	e := NewEvaluator(30*24*time.Hour, 0)
	user := &models.User{IsActive: true, IsTrial: true, LicenseStart: ptr(t0)}

	assert.Equal(t, TrialActive, e.Evaluate(user, t0.Add(29*24*time.Hour)).State)
	assert.Equal(t, TrialExpired, e.Evaluate(user, t0.Add(30*24*time.Hour)).State)
	assert.Equal(t, TrialPeriod, NewEvaluator(0, 0).TrialPeriod)
}

func TestEvaluate_Messages(t *testing.T) {
	t0 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	user := &models.User{IsActive: true, IsTrial: true, LicenseEnd: ptr(t0.Add(25*time.Hour + 30*time.Minute))}

	got := evaluate(user, t0)

	assert.Equal(t, "Trial license active. 1 days, 1 hours and 30 minutes remaining.", got.Message)
	assert.Equal(t, "Full license active.", evaluate(&models.User{IsActive: true, LicenseEnd: ptr(t0.Add(time.Hour))}, t0).Message)
	assert.Equal(t, "License not defined or invalid.", evaluate(&models.User{IsActive: true}, t0).Message)
}

func TestEvaluator_Lockout(t *testing.T) {
	t0 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	e := NewEvaluator(TrialPeriod, 30*time.Minute)
	user := &models.User{
		IsActive:     true,
		IsTrial:      false,
		LicenseStart: ptr(t0),
		LicenseEnd:   ptr(t0.Add(FullPeriod)),
		IsBlocked:    true,
		BlockedAt:    ptr(t0),
	}

	tests := []struct {
		name      string
		blockedAt *time.Time
		now       time.Time
		wantState State
	}{
		{name: "within lockout", blockedAt: ptr(t0), now: t0.Add(29 * time.Minute), wantState: Blocked},
		{name: "lockout boundary is expired", blockedAt: ptr(t0), now: t0.Add(30 * time.Minute), wantState: FullActive},
		{name: "after lockout", blockedAt: ptr(t0), now: t0.Add(31 * time.Minute), wantState: FullActive},
		{name: "block without timestamp never expires", blockedAt: nil, now: t0.Add(24 * time.Hour), wantState: Blocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := *user
			u.BlockedAt = tt.blockedAt
			assert.Equal(t, tt.wantState, e.Evaluate(&u, tt.now).State)
			assert.Equal(t, tt.wantState != Blocked, e.LockoutExpired(&u, tt.now))
		})
	}

	assert.Equal(t, Blocked, NewEvaluator(TrialPeriod, 0).Evaluate(user, t0.Add(24*time.Hour)).State,
		"zero lockout period keeps the block")
}
