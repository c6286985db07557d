// ABOUTME: Material price catalog endpoints (/materialy) with full CRUD.
// ABOUTME: No validity-window business rules are enforced here; the backend owns them.
package client

import (
	"context"
	"net/url"
)

// MaterialFilter narrows a material price listing. Zero value lists everything.
type MaterialFilter struct {
	Grade      string
	Form       string
	ActiveOnly bool
}

// ListMaterialPrices fetches the material price catalog, optionally filtered.
func (c *Client) ListMaterialPrices(ctx context.Context, filter MaterialFilter) ([]MaterialPrice, error) {
	q := url.Values{}
	if filter.Grade != "" {
		q.Set("grade", filter.Grade)
	}
	if filter.Form != "" {
		q.Set("form", filter.Form)
	}
	if filter.ActiveOnly {
		q.Set("is_active", "true")
	}
	path := "/materialy"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var prices []MaterialPrice
	if err := c.getJSON(ctx, path, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// GetMaterialPrice fetches a single catalog entry.
func (c *Client) GetMaterialPrice(ctx context.Context, id string) (*MaterialPrice, error) {
	var price MaterialPrice
	if err := c.getJSON(ctx, "/materialy/"+url.PathEscape(id), &price); err != nil {
		return nil, err
	}
	return &price, nil
}

// CreateMaterialPrice creates a catalog entry and returns the stored record.
func (c *Client) CreateMaterialPrice(ctx context.Context, price MaterialPrice) (*MaterialPrice, error) {
	var created MaterialPrice
	if err := c.postJSON(ctx, "/materialy", price, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMaterialPrice updates a catalog entry and returns the stored record.
func (c *Client) UpdateMaterialPrice(ctx context.Context, price MaterialPrice) (*MaterialPrice, error) {
	var updated MaterialPrice
	if err := c.putJSON(ctx, "/materialy/"+url.PathEscape(price.ID), price, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMaterialPrice removes a catalog entry.
func (c *Client) DeleteMaterialPrice(ctx context.Context, id string) error {
	return c.delete(ctx, "/materialy/"+url.PathEscape(id))
}

// FilterActiveMaterials returns only entries with IsActive set. This is the
// pure predicate behind the dashboard's active-only toggle, kept separate so
// it can be tested without a backend.
func FilterActiveMaterials(prices []MaterialPrice) []MaterialPrice {
	var out []MaterialPrice
	for _, p := range prices {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}
