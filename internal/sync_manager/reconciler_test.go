package sync_manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/logger"
)

func TestReconcilerDeletesSoldOut(t *testing.T) {
	fake := &fakeMarket{}
	r := NewReconciler(fake, 0, logger.Nop())
	listings := []models.Listing{
		{ID: "keep", Item: "Serration", Quantity: 2},
		{ID: "o1", Item: "Ammo Drum", Quantity: 1, Price: 1000},
	}

	out, outcome, err := r.Apply(context.Background(), listings, models.MatchCandidate{ListingIndex: 1, ItemCount: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"o1"}, fake.deletes)
	assert.Empty(t, fake.edits)
	require.Len(t, out, 1)
	assert.Equal(t, "keep", out[0].ID)
	assert.Equal(t, models.OutcomeDeleted, outcome.Kind)
	assert.Equal(t, "Ammo Drum: deleted", outcome.String())
	// the caller's slice is not rearranged
	assert.Equal(t, "o1", listings[1].ID)
}

func TestReconcilerEditsRemaining(t *testing.T) {
	fake := &fakeMarket{}
	r := NewReconciler(fake, 0, logger.Nop())
	listings := []models.Listing{{ID: "o1", Item: "Ammo Drum", Quantity: 5, Price: 1000, Rank: intPtr(3), Visible: true}}

	out, outcome, err := r.Apply(context.Background(), listings, models.MatchCandidate{ListingIndex: 0, ItemCount: 2})
	require.NoError(t, err)

	require.Len(t, fake.edits, 1)
	assert.Equal(t, editCall{
		ID:     "o1",
		Fields: models.ListingFields{Price: 1000, Quantity: 3, Rank: intPtr(3), Visible: true},
	}, fake.edits[0])
	assert.Equal(t, 3, out[0].Quantity)
	assert.Equal(t, "Ammo Drum: updated to 3", outcome.String())
}

func TestReconcilerOversoldDeletes(t *testing.T) {
	fake := &fakeMarket{}
	r := NewReconciler(fake, 0, logger.Nop())
	listings := []models.Listing{{ID: "o1", Item: "A", Quantity: 1}}

	out, outcome, err := r.Apply(context.Background(), listings, models.MatchCandidate{ItemCount: 3})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, models.OutcomeDeleted, outcome.Kind)
}

func TestReconcilerMutationError(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeMarket{editErr: boom}
	r := NewReconciler(fake, time.Hour, logger.Nop())
	listings := []models.Listing{{ID: "o1", Item: "A", Quantity: 5}}

	out, _, err := r.Apply(context.Background(), listings, models.MatchCandidate{ItemCount: 1})

	var mutErr *MutationError
	require.True(t, errors.As(err, &mutErr))
	assert.Equal(t, "edit", mutErr.Op)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, out[0].Quantity)
}

func TestReconcilerWaitsAfterMutation(t *testing.T) {
	r := NewReconciler(&fakeMarket{}, 30*time.Millisecond, logger.Nop())
	listings := []models.Listing{{ID: "o1", Item: "A", Quantity: 5}}

	start := time.Now()
	_, _, err := r.Apply(context.Background(), listings, models.MatchCandidate{ItemCount: 1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestReconcilerWaitInterrupted(t *testing.T) {
	fake := &fakeMarket{}
	r := NewReconciler(fake, time.Hour, logger.Nop())
	listings := []models.Listing{{ID: "o1", Item: "A", Quantity: 5}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, outcome, err := r.Apply(ctx, listings, models.MatchCandidate{ItemCount: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, models.OutcomeUpdated, outcome.Kind)
	assert.Len(t, fake.edits, 1)
}
