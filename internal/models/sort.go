package models

import (
	"fmt"
	"sort"
	"strings"
)

// Sort keys accepted by SortListings.
const (
	SortByItem       = "item"
	SortByPrice      = "price"
	SortByQuantity   = "quantity"
	SortByRank       = "rank"
	SortByVisibility = "visibility"
	SortByUpdated    = "updated"
)

// DefaultOrders is the order used for each key when none is requested.
var DefaultOrders = map[string]string{
	SortByItem:       "asc",
	SortByPrice:      "desc",
	SortByQuantity:   "desc",
	SortByRank:       "desc",
	SortByVisibility: "desc",
	SortByUpdated:    "desc",
}

// SortListings orders listings in place by key. Listings are first sorted by
// recency so that equal keys stay newest first. A nil rank always sorts last.
func SortListings(listings []Listing, key string, order string) (string, error) {
	if order == "" {
		def, ok := DefaultOrders[key]
		if !ok {
			return "", fmt.Errorf("unknown sort key %q", key)
		}
		order = def
	}
	if order != "asc" && order != "desc" {
		return "", fmt.Errorf("unknown sort order %q", order)
	}
	desc := order == "desc"

	less, err := listingLess(key)
	if err != nil {
		return "", err
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].Updated.After(listings[j].Updated)
	})
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if key == SortByRank && (a.Rank == nil || b.Rank == nil) {
			return a.Rank != nil && b.Rank == nil
		}
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return order, nil
}

func listingLess(key string) (func(a, b Listing) bool, error) {
	switch key {
	case SortByItem:
		return func(a, b Listing) bool { return strings.ToLower(a.Item) < strings.ToLower(b.Item) }, nil
	case SortByPrice:
		return func(a, b Listing) bool { return a.Price < b.Price }, nil
	case SortByQuantity:
		return func(a, b Listing) bool { return a.Quantity < b.Quantity }, nil
	case SortByRank:
		return func(a, b Listing) bool { return *a.Rank < *b.Rank }, nil
	case SortByVisibility:
		// "visible" sorts after "hidden" ascending, as the words do
		return func(a, b Listing) bool { return !a.Visible && b.Visible }, nil
	case SortByUpdated:
		return func(a, b Listing) bool { return a.Updated.Before(b.Updated) }, nil
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
}
