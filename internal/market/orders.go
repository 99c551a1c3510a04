package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wfm-sync/internal/models"
)

type envelope[T any] struct {
	Data T `json:"data"`
}

type profile struct {
	Slug       string `json:"slug"`
	IngameName string `json:"ingameName"`
	Platform   string `json:"platform"`
}

type itemEntry struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	MaxRank *int   `json:"maxRank"`
	I18n    struct {
		En struct {
			Name string `json:"name"`
		} `json:"en"`
	} `json:"i18n"`
}

type order struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ItemID    string `json:"itemId"`
	Platinum  int    `json:"platinum"`
	Quantity  *int   `json:"quantity"`
	Rank      *int   `json:"rank"`
	Visible   bool   `json:"visible"`
	UpdatedAt string `json:"updatedAt"`
}

type editPayload struct {
	Platinum int  `json:"platinum"`
	Quantity int  `json:"quantity"`
	Rank     *int `json:"rank,omitempty"`
	Visible  bool `json:"visible"`
}

// Catalog maps item ids to catalog entries.
type Catalog map[string]models.CatalogItem

func NewCatalog(items []models.CatalogItem) Catalog {
	c := make(Catalog, len(items))
	for _, item := range items {
		c[item.ID] = item
	}
	return c
}

// Name returns the English name for an item id, or the id itself when the
// catalog does not know it.
func (c Catalog) Name(id string) string {
	if item, ok := c[id]; ok && item.Name != "" {
		return item.Name
	}
	return id
}

// Me returns the slug of the signed-in user.
func (c *Client) Me(ctx context.Context) (string, error) {
	if !c.Authenticated() {
		return "", fmt.Errorf("market: me: %w", ErrUnauthorized)
	}

	var resp envelope[profile]
	if err := c.do(ctx, http.MethodGet, "/v2/me", true, nil, &resp); err != nil {
		return "", fmt.Errorf("market: me: %w", err)
	}
	if resp.Data.Slug == "" {
		return "", fmt.Errorf("market: me: %w", ErrUnauthorized)
	}
	return resp.Data.Slug, nil
}

// Items returns the full item catalog.
func (c *Client) Items(ctx context.Context) ([]models.CatalogItem, error) {
	var resp envelope[[]itemEntry]
	if err := c.do(ctx, http.MethodGet, "/v2/items", false, nil, &resp); err != nil {
		return nil, fmt.Errorf("market: items: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(resp.Data))
	for _, e := range resp.Data {
		items = append(items, models.CatalogItem{
			ID:      e.ID,
			Slug:    e.Slug,
			Name:    e.I18n.En.Name,
			MaxRank: e.MaxRank,
		})
	}
	return items, nil
}

// UserListings returns the sell orders of the user with the given slug,
// with item names resolved through catalog.
func (c *Client) UserListings(ctx context.Context, slug string, catalog Catalog) ([]models.Listing, error) {
	var resp envelope[[]order]
	path := "/v2/orders/user/" + url.PathEscape(slug)
	if err := c.do(ctx, http.MethodGet, path, true, nil, &resp); err != nil {
		return nil, fmt.Errorf("market: user listings: %w", err)
	}

	listings := make([]models.Listing, 0, len(resp.Data))
	for _, o := range resp.Data {
		if o.Type != "sell" {
			continue
		}
		if _, ok := catalog[o.ItemID]; !ok {
			c.log.Warn("Listing refers to an item missing from the catalog",
				"listing_id", o.ID,
				"item_id", o.ItemID)
		}
		listings = append(listings, toListing(o, catalog))
	}
	return listings, nil
}

func toListing(o order, catalog Catalog) models.Listing {
	quantity := 1
	if o.Quantity != nil {
		quantity = *o.Quantity
	}
	var updated time.Time
	if o.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, o.UpdatedAt); err == nil {
			updated = t
		}
	}
	return models.Listing{
		ID:       o.ID,
		Item:     catalog.Name(o.ItemID),
		ItemID:   o.ItemID,
		Price:    o.Platinum,
		Quantity: quantity,
		Rank:     o.Rank,
		Visible:  o.Visible,
		Updated:  updated,
	}
}

// EditListing replaces price, quantity, rank and visibility of a listing. A
// nil rank is left out of the payload.
func (c *Client) EditListing(ctx context.Context, id string, fields models.ListingFields) error {
	payload := editPayload{
		Platinum: fields.Price,
		Quantity: fields.Quantity,
		Rank:     fields.Rank,
		Visible:  fields.Visible,
	}
	path := "/v2/order/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, true, payload, nil); err != nil {
		return fmt.Errorf("market: edit listing %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteListing(ctx context.Context, id string) error {
	path := "/v2/order/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, true, nil, nil); err != nil {
		return fmt.Errorf("market: delete listing %s: %w", id, err)
	}
	return nil
}
