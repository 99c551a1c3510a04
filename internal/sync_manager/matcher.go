package sync_manager

import (
	"wfm-sync/internal/models"
	ee_log "wfm-sync/internal/warframe/log"
)

// Match finds the listing a trade most plausibly sold from. It reports false
// when none of the offered items is listed.
func Match(trade models.ParsedTrade, listings []models.Listing, currency string) (models.MatchCandidate, bool) {
	offered := make(map[string]int, len(trade.Offered))
	for _, name := range trade.Offered {
		offered[name]++
	}

	var candidates []int
	for i, l := range listings {
		if offered[l.Item] > 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return models.MatchCandidate{}, false
	}

	plat := 0
	for _, entry := range trade.Received {
		if amount, ok := ee_log.CurrencyAmount(entry, currency); ok {
			plat += amount
		}
	}

	itemCount := offered[listings[candidates[0]].Item]
	if itemCount == 0 {
		return models.MatchCandidate{}, false
	}
	platPerItem := plat / itemCount

	best := candidates[0]
	bestDist := abs(listings[best].Price - platPerItem)
	for _, idx := range candidates[1:] {
		if d := abs(listings[idx].Price - platPerItem); d < bestDist {
			best, bestDist = idx, d
		}
	}

	return models.MatchCandidate{
		Trade:        trade,
		ListingIndex: best,
		Listing:      listings[best],
		ItemCount:    itemCount,
		PlatPerItem:  platPerItem,
		Candidates:   len(candidates),
	}, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
