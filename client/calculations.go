// ABOUTME: Cost calculation endpoints (/kalkulace) including nested line items.
// ABOUTME: Totals and margin come computed from the backend; items are the only editable unit.
package client

import (
	"context"
	"net/url"
)

// ListCalculations fetches calculations, optionally scoped to one order.
func (c *Client) ListCalculations(ctx context.Context, orderID string) ([]Calculation, error) {
	path := "/kalkulace"
	if orderID != "" {
		path += "?order_id=" + url.QueryEscape(orderID)
	}
	var calcs []Calculation
	if err := c.getJSON(ctx, path, &calcs); err != nil {
		return nil, err
	}
	return calcs, nil
}

// GetCalculation fetches a single calculation with its items.
func (c *Client) GetCalculation(ctx context.Context, id string) (*Calculation, error) {
	var calc Calculation
	if err := c.getJSON(ctx, "/kalkulace/"+url.PathEscape(id), &calc); err != nil {
		return nil, err
	}
	return &calc, nil
}

// CreateCalculation creates a calculation shell for an order.
func (c *Client) CreateCalculation(ctx context.Context, calc Calculation) (*Calculation, error) {
	var created Calculation
	if err := c.postJSON(ctx, "/kalkulace", calc, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCalculation removes a calculation and its items.
func (c *Client) DeleteCalculation(ctx context.Context, id string) error {
	return c.delete(ctx, "/kalkulace/"+url.PathEscape(id))
}

// AddCalculationItem appends a line item; the backend recomputes totals.
func (c *Client) AddCalculationItem(ctx context.Context, calcID string, item CalculationItem) (*CalculationItem, error) {
	var created CalculationItem
	path := "/kalkulace/" + url.PathEscape(calcID) + "/items"
	if err := c.postJSON(ctx, path, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCalculationItem updates a line item; the backend recomputes totals.
func (c *Client) UpdateCalculationItem(ctx context.Context, calcID string, item CalculationItem) (*CalculationItem, error) {
	var updated CalculationItem
	path := "/kalkulace/" + url.PathEscape(calcID) + "/items/" + url.PathEscape(item.ID)
	if err := c.putJSON(ctx, path, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCalculationItem removes a line item.
func (c *Client) DeleteCalculationItem(ctx context.Context, calcID, itemID string) error {
	return c.delete(ctx, "/kalkulace/"+url.PathEscape(calcID)+"/items/"+url.PathEscape(itemID))
}
