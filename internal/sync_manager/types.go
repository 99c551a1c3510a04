package sync_manager

import (
	"context"
	"fmt"
	"strings"

	"wfm-sync/internal/market"
	"wfm-sync/internal/models"
)

// ListingWriter is the mutating half of the marketplace API.
type ListingWriter interface {
	EditListing(ctx context.Context, id string, fields models.ListingFields) error
	DeleteListing(ctx context.Context, id string) error
}

// Marketplace is everything a sync pass needs from the API client.
type Marketplace interface {
	ListingWriter
	Me(ctx context.Context) (string, error)
	Items(ctx context.Context) ([]models.CatalogItem, error)
	UserListings(ctx context.Context, slug string, catalog market.Catalog) ([]models.Listing, error)
}

// PositionStore persists the EE.log read position between passes.
type PositionStore interface {
	Load() (models.ReadPosition, error)
	Save(pos models.ReadPosition) error
}

// Journal records what each pass did.
type Journal interface {
	AddRecord(rec models.SyncRecord) error
}

// Status is the overall result of a pass.
type Status string

const (
	StatusSynced        Status = "synced"
	StatusNoListings    Status = "no_listings"
	StatusNoTrades      Status = "no_trades"
	StatusNothingSynced Status = "nothing_synced"
)

// TradeOutcome describes what happened to one completed trade.
type TradeOutcome struct {
	Kind        string
	Item        string
	ListingID   string
	Quantity    int
	ItemCount   int
	PlatPerItem int
	Offered     []string
}

func (o TradeOutcome) String() string {
	switch o.Kind {
	case models.OutcomeDeleted:
		return fmt.Sprintf("%s: deleted", o.Item)
	case models.OutcomeUpdated:
		return fmt.Sprintf("%s: updated to %d", o.Item, o.Quantity)
	}
	if len(o.Offered) == 0 {
		return "Unmatched trade: nothing offered"
	}
	return fmt.Sprintf("Unmatched trade: %s", strings.Join(o.Offered, ", "))
}

func (o TradeOutcome) record(passID string) models.SyncRecord {
	item := o.Item
	if item == "" {
		item = strings.Join(o.Offered, ", ")
	}
	return models.SyncRecord{
		PassID:      passID,
		Item:        item,
		ListingID:   o.ListingID,
		ItemCount:   o.ItemCount,
		PlatPerItem: o.PlatPerItem,
		Outcome:     o.Kind,
		Quantity:    o.Quantity,
	}
}

// Summary is the report of one sync pass.
type Summary struct {
	PassID   string
	Status   Status
	Outcomes []TradeOutcome
	Position models.ReadPosition
}

// Matched counts trades that changed a listing.
func (s Summary) Matched() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Kind != models.OutcomeUnmatched {
			n++
		}
	}
	return n
}

// Lines renders the summary the way the sync command prints it.
func (s Summary) Lines() []string {
	switch s.Status {
	case StatusNoListings:
		return []string{"No listings found."}
	case StatusNoTrades:
		return []string{"No trades found."}
	}

	lines := make([]string, 0, len(s.Outcomes)+1)
	for _, o := range s.Outcomes {
		lines = append(lines, o.String())
	}
	if s.Status == StatusNothingSynced {
		lines = append(lines, "No listings synced.")
	}
	return lines
}
