package tenantstate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFrozenAt(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name  string
		state BillingState
		want  bool
	}{
		{"active", BillingState{Status: StatusActive}, false},
		{"trialing", BillingState{Status: StatusTrialing}, false},
		{"canceled", BillingState{Status: StatusCanceled}, true},
		{"past due within grace", BillingState{Status: StatusPastDue, GraceUntil: &future}, false},
		{"past due beyond grace", BillingState{Status: StatusPastDue, GraceUntil: &past}, true},
		{"past due without grace deadline", BillingState{Status: StatusPastDue}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FrozenAt(tc.state, now))
		})
	}
}

type stubStateRepo struct {
	state    BillingState
	frozen   int64
	unfrozen int64
}

func (s *stubStateRepo) BillingState(ctx context.Context, tenantID uuid.UUID) (BillingState, error) {
	return s.state, nil
}

func (s *stubStateRepo) SweepFreeze(ctx context.Context) (int64, int64, error) {
	return s.frozen, s.unfrozen, nil
}

func TestStateForDerivesFreshFreeze(t *testing.T) {
	// Sweep has not run yet: frozen column is false but grace elapsed.
	past := time.Now().Add(-time.Hour)
	svc := NewService(&stubStateRepo{state: BillingState{Status: StatusPastDue, GraceUntil: &past}}, nil)

	state, err := svc.StateFor(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	require.True(t, state.Frozen)
	require.False(t, state.Impersonating)
}

func TestStateForCarriesImpersonation(t *testing.T) {
	svc := NewService(&stubStateRepo{state: BillingState{Status: StatusActive}}, nil)

	state, err := svc.StateFor(context.Background(), uuid.New(), true)
	require.NoError(t, err)
	require.False(t, state.Frozen)
	require.True(t, state.Impersonating)
}

func TestSweep(t *testing.T) {
	svc := NewService(&stubStateRepo{frozen: 3, unfrozen: 1}, nil)
	result, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), result.Frozen)
	require.Equal(t, int64(1), result.Unfrozen)
}
