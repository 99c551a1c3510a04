package config

import (
	"fmt"
	"sort"
	"strings"
)

// Markers are the exact substrings that identify the parts of a trade
// dialogue in EE.log.
type Markers struct {
	TradeStart     string `json:"trade_start" toml:"trade_start"`
	TradeSuccess   string `json:"trade_success" toml:"trade_success"`
	TradeCancel    string `json:"trade_cancel" toml:"trade_cancel"`
	OfferSection   string `json:"offer_section" toml:"offer_section"`
	ReceiveSection string `json:"receive_section" toml:"receive_section"`
	ItemCancel     string `json:"item_cancel" toml:"item_cancel"`
	Currency       string `json:"currency" toml:"currency"`
}

// DefaultMarkers returns the markers written by the current game client.
func DefaultMarkers() Markers {
	return Markers{
		TradeStart:     "Are you sure you want to accept this trade?",
		TradeSuccess:   "The trade was successful!",
		TradeCancel:    "SendResult_MENU_CANCEL()",
		OfferSection:   "offering",
		ReceiveSection: "receive",
		ItemCancel:     "Confirm_Item_Cancel",
		Currency:       "Platinum",
	}
}

// Validate checks that every marker is set. An empty marker would match
// every line.
func (m Markers) Validate() error {
	var missing []string
	for name, value := range map[string]string{
		"trade_start":     m.TradeStart,
		"trade_success":   m.TradeSuccess,
		"trade_cancel":    m.TradeCancel,
		"offer_section":   m.OfferSection,
		"receive_section": m.ReceiveSection,
		"item_cancel":     m.ItemCancel,
		"currency":        m.Currency,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("markers must not be empty: %s", strings.Join(missing, ", "))
	}
	return nil
}

// withDefaults fills unset markers from DefaultMarkers.
func (m Markers) withDefaults() Markers {
	d := DefaultMarkers()
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&m.TradeStart, d.TradeStart)
	fill(&m.TradeSuccess, d.TradeSuccess)
	fill(&m.TradeCancel, d.TradeCancel)
	fill(&m.OfferSection, d.OfferSection)
	fill(&m.ReceiveSection, d.ReceiveSection)
	fill(&m.ItemCancel, d.ItemCancel)
	fill(&m.Currency, d.Currency)
	return m
}
