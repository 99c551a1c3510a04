package sync_manager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfm-sync/internal/models"
)

func TestWatchRunsPassPerSignal(t *testing.T) {
	h := newHarness(t, models.Listing{ID: "o1", Item: "Ammo Drum", Quantity: 5, Price: 10})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan struct{})
	reports := make(chan Summary, 4)
	done := make(chan error, 1)
	go func() {
		done <- h.manager.Watch(ctx, changed, func(s Summary, err error) {
			assert.NoError(t, err)
			reports <- s
		})
	}()

	first := <-reports
	assert.Equal(t, StatusNoTrades, first.Status)

	h.appendLines(t, tradeLines([]string{"Ammo Drum"}, "Platinum x 10")...)
	changed <- struct{}{}

	second := <-reports
	assert.Equal(t, StatusSynced, second.Status)
	assert.NotEqual(t, first.PassID, second.PassID)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchStopsWhenSignalsEnd(t *testing.T) {
	h := newHarness(t)
	changed := make(chan struct{})
	close(changed)

	err := h.manager.Watch(context.Background(), changed, func(Summary, error) {})
	assert.Error(t, err)
}
