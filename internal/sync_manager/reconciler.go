package sync_manager

import (
	"context"
	"time"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/logger"
)

// Reconciler applies a matched trade to the user's listings and paces
// consecutive mutations.
type Reconciler struct {
	writer ListingWriter
	delay  time.Duration
	log    *logger.Logger
}

func NewReconciler(writer ListingWriter, delay time.Duration, log *logger.Logger) *Reconciler {
	return &Reconciler{writer: writer, delay: delay, log: log}
}

// Apply decrements the matched listing by the traded count, deleting it when
// nothing is left. The returned slice is the updated working set. A
// *MutationError leaves listings untouched. After a successful mutation Apply
// waits for the mutation delay; if ctx ends during that wait the outcome is
// still returned together with ctx.Err().
func (r *Reconciler) Apply(ctx context.Context, listings []models.Listing, m models.MatchCandidate) ([]models.Listing, TradeOutcome, error) {
	listing := listings[m.ListingIndex]
	remaining := listing.Quantity - m.ItemCount

	outcome := TradeOutcome{
		Item:        listing.Item,
		ListingID:   listing.ID,
		ItemCount:   m.ItemCount,
		PlatPerItem: m.PlatPerItem,
		Offered:     m.Trade.Offered,
	}

	if remaining <= 0 {
		if err := r.writer.DeleteListing(ctx, listing.ID); err != nil {
			return listings, TradeOutcome{}, &MutationError{Op: "delete", ListingID: listing.ID, Item: listing.Item, Err: err}
		}
		listings = append(listings[:m.ListingIndex:m.ListingIndex], listings[m.ListingIndex+1:]...)
		outcome.Kind = models.OutcomeDeleted

		r.log.Info("Deleted sold out listing",
			"item", listing.Item,
			"listing_id", listing.ID,
			"sold", m.ItemCount)
	} else {
		fields := listing.Fields()
		fields.Quantity = remaining
		if err := r.writer.EditListing(ctx, listing.ID, fields); err != nil {
			return listings, TradeOutcome{}, &MutationError{Op: "edit", ListingID: listing.ID, Item: listing.Item, Err: err}
		}
		listings[m.ListingIndex].Quantity = remaining
		outcome.Kind = models.OutcomeUpdated
		outcome.Quantity = remaining

		r.log.Info("Updated listing quantity",
			"item", listing.Item,
			"listing_id", listing.ID,
			"quantity", remaining)
	}

	return listings, outcome, r.wait(ctx)
}

func (r *Reconciler) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
