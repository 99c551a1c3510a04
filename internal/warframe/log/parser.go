package ee_log

import (
	"strconv"
	"strings"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/config"
)

// Rank stars and other item decorations are drawn with glyphs from the
// Unicode Private Use Area.
const (
	rankGlyphFirst = '\uE000'
	rankGlyphLast  = '\uF8FF'
)

// NormalizeItemName cuts a trailing "(...)" annotation, removes rank glyphs
// and trims whitespace.
func NormalizeItemName(raw string) string {
	name := raw
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(stripRankGlyphs(name))
}

func stripRankGlyphs(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= rankGlyphFirst && r <= rankGlyphLast {
			return -1
		}
		return r
	}, s)
}

// ParseTrade splits a chunk into the items the user offered and the items
// and currency received.
func ParseTrade(chunk models.TradeChunk, markers config.Markers) models.ParsedTrade {
	var (
		offered   []string
		received  []string
		inOffer   bool
		inReceive bool
	)

	for _, line := range chunk.Lines {
		switch {
		case strings.Contains(line, markers.OfferSection):
			inOffer, inReceive = true, false
		case strings.Contains(line, markers.ReceiveSection):
			inOffer, inReceive = false, true
		case strings.Contains(line, markers.ItemCancel):
			// the last received item shares its line with the dialogue buttons
			received = append(received, strings.SplitN(line, ",", 2)[0])
			inReceive = false
		case inOffer:
			offered = append(offered, line)
		case inReceive:
			received = append(received, line)
		}
	}

	return models.ParsedTrade{
		Offered:  normalizeAll(offered),
		Received: normalizeAll(received),
		Start:    chunk.Start,
		End:      chunk.End,
	}
}

func normalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if name := NormalizeItemName(item); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// CurrencyAmount returns the amount carried by a received entry such as
// "Platinum x 30" or "1200 Platinum". The trailing token wins; otherwise the
// first integer token is used. ok is false for entries without the currency
// token or without any integer.
func CurrencyAmount(entry string, currency string) (amount int, ok bool) {
	if !strings.Contains(entry, currency) {
		return 0, false
	}
	fields := strings.Fields(entry)
	if len(fields) == 0 {
		return 0, false
	}
	if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
		return n, true
	}
	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			return n, true
		}
	}
	return 0, false
}
