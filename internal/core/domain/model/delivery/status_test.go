package delivery_test

import (
	"testing"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowedTransitions() map[delivery.Status][]delivery.Status {
	return map[delivery.Status][]delivery.Status{
		delivery.Pending:   {delivery.Assigned, delivery.Cancelled},
		delivery.Assigned:  {delivery.PickedUp, delivery.Cancelled, delivery.Emergency},
		delivery.PickedUp:  {delivery.InTransit, delivery.Delivered, delivery.Cancelled, delivery.Emergency},
		delivery.InTransit: {delivery.Delivered, delivery.Cancelled, delivery.Emergency},
		delivery.Emergency: {delivery.Cancelled},
		delivery.Delivered: {},
		delivery.Cancelled: {},
	}
}

func TestStatus_TransitionGrid(t *testing.T) {
	table := allowedTransitions()

	for _, from := range delivery.AllStatuses() {
		for _, to := range delivery.AllStatuses() {
			want := false
			for _, allowed := range table[from] {
				if allowed == to {
					want = true
				}
			}

			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				assert.Equal(t, want, from.CanTransitionTo(to))

				err := from.ValidateTransition(to)
				if want {
					require.NoError(t, err)
					return
				}
				require.ErrorIs(t, err, delivery.ErrInvalidTransition)

				var transitionErr *delivery.InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr)
				assert.Equal(t, from, transitionErr.From)
				assert.Equal(t, to, transitionErr.To)
			})
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range delivery.AllStatuses() {
		parsed, err := delivery.ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := delivery.ParseStatus("lost")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Predicates(t *testing.T) {
	tests := []struct {
		status    delivery.Status
		terminal  bool
		hasDriver bool
		trackable bool
	}{
		{delivery.Pending, false, false, false},
		{delivery.Assigned, false, true, true},
		{delivery.PickedUp, false, true, true},
		{delivery.InTransit, false, true, true},
		{delivery.Emergency, false, true, false},
		{delivery.Delivered, true, false, false},
		{delivery.Cancelled, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.hasDriver, tt.status.HasDriver())
			assert.Equal(t, tt.trackable, tt.status.IsTrackable())
			require.NoError(t, tt.status.ValidateCanHaveDriver(tt.hasDriver))
			require.Error(t, tt.status.ValidateCanHaveDriver(!tt.hasDriver))
		})
	}
}

func TestActiveStatuses_MatchHasDriver(t *testing.T) {
	for _, s := range delivery.ActiveStatuses() {
		assert.True(t, s.HasDriver(), s)
	}
}
