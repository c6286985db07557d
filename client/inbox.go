// ABOUTME: Inbox message endpoints for incoming classified email records.
// ABOUTME: Read-only from this side; lifecycle transitions happen in the backend.
package client

import (
	"context"
	"net/url"
)

// ListInboxMessages fetches inbox records, optionally narrowed by lifecycle
// status (new, classified, assigned, archived).
func (c *Client) ListInboxMessages(ctx context.Context, status string) ([]InboxMessage, error) {
	path := "/inbox"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var msgs []InboxMessage
	if err := c.getJSON(ctx, path, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetInboxMessage fetches a single inbox record including its body.
func (c *Client) GetInboxMessage(ctx context.Context, id string) (*InboxMessage, error) {
	var msg InboxMessage
	if err := c.getJSON(ctx, "/inbox/"+url.PathEscape(id), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
