package models

import "time"

// ReadPosition is the persisted byte offset into EE.log.
type ReadPosition struct {
	LastByteOffset int64 `json:"last_byte_offset"`
}

// Listing is one of the user's active sell orders.
type Listing struct {
	ID       string
	Item     string
	ItemID   string
	Price    int
	Quantity int
	Rank     *int
	Visible  bool
	Updated  time.Time
}

// Fields returns the mutable part of the listing, as sent on edit.
func (l Listing) Fields() ListingFields {
	return ListingFields{
		Price:    l.Price,
		Quantity: l.Quantity,
		Rank:     l.Rank,
		Visible:  l.Visible,
	}
}

// ListingFields is the payload of a listing edit.
type ListingFields struct {
	Price    int
	Quantity int
	Rank     *int
	Visible  bool
}

// CatalogItem is an entry of the marketplace item catalog.
type CatalogItem struct {
	ID      string
	Slug    string
	Name    string
	MaxRank *int
}

// TradeChunk is one completed trade dialogue, from the confirmation prompt
// through the success line. Start and End are byte offsets into EE.log.
type TradeChunk struct {
	Lines []string
	Start int64
	End   int64
}

// ParsedTrade holds the normalized item names of a trade chunk.
type ParsedTrade struct {
	Offered  []string
	Received []string
	Start    int64
	End      int64
}

// MatchCandidate ties a trade to the listing it most plausibly sold from.
type MatchCandidate struct {
	Trade        ParsedTrade
	ListingIndex int
	Listing      Listing
	ItemCount    int
	PlatPerItem  int
	Candidates   int
}

// Outcome kinds reported per trade.
const (
	OutcomeUpdated   = "updated"
	OutcomeDeleted   = "deleted"
	OutcomeUnmatched = "unmatched"
)

// SyncRecord is one journal row describing what a sync pass did to a trade.
type SyncRecord struct {
	PassID      string
	CreatedAt   time.Time
	Item        string
	ListingID   string
	ItemCount   int
	PlatPerItem int
	Outcome     string
	Quantity    int
}
