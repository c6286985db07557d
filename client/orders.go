// ABOUTME: Customer order endpoints (/zakazky) with CRUD operations.
// ABOUTME: Orders are backend-owned; this side edits fields and displays.
package client

import (
	"context"
	"net/url"
)

// ListOrders fetches customer orders, optionally narrowed by status.
func (c *Client) ListOrders(ctx context.Context, status string) ([]Order, error) {
	path := "/zakazky"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var orders []Order
	if err := c.getJSON(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.getJSON(ctx, "/zakazky/"+url.PathEscape(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder creates an order and returns the stored record.
func (c *Client) CreateOrder(ctx context.Context, order Order) (*Order, error) {
	var created Order
	if err := c.postJSON(ctx, "/zakazky", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOrder updates an order and returns the stored record.
func (c *Client) UpdateOrder(ctx context.Context, order Order) (*Order, error) {
	var updated Order
	if err := c.putJSON(ctx, "/zakazky/"+url.PathEscape(order.ID), order, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.delete(ctx, "/zakazky/"+url.PathEscape(id))
}
