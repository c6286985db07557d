// ABOUTME: Pipeline orchestration endpoints (/orchestrace): stats, tasks, DLQ, and operator actions.
// ABOUTME: Retry policy and re-enqueue semantics are opaque remote calls; nothing is inferred here.
package client

import (
	"context"
	"net/url"
)

// GetPipelineStats fetches the orchestration summary for the dashboard.
func (c *Client) GetPipelineStats(ctx context.Context) (*PipelineStats, error) {
	var stats PipelineStats
	if err := c.getJSON(ctx, "/orchestrace/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListProcessingTasks fetches pipeline execution records, optionally narrowed
// by stage.
func (c *Client) ListProcessingTasks(ctx context.Context, stage string) ([]ProcessingTask, error) {
	path := "/orchestrace/tasks"
	if stage != "" {
		path += "?stage=" + url.QueryEscape(stage)
	}
	var tasks []ProcessingTask
	if err := c.getJSON(ctx, path, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDLQ fetches the dead-letter queue.
func (c *Client) ListDLQ(ctx context.Context) ([]DLQEntry, error) {
	var entries []DLQEntry
	if err := c.getJSON(ctx, "/orchestrace/dlq", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RetryDLQEntry asks the backend to re-enqueue a failed task. Whether the
// original task is replayed verbatim, and with what idempotency guarantee,
// is defined server-side.
func (c *Client) RetryDLQEntry(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/orchestrace/dlq/"+url.PathEscape(id)+"/retry", nil, nil)
}

// ResolveDLQEntry marks a dead-letter entry as handled without re-running it.
func (c *Client) ResolveDLQEntry(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/orchestrace/dlq/"+url.PathEscape(id)+"/resolve", nil, nil)
}

// SubmitTestEmail triggers a pipeline run for a synthetic message and returns
// the created task.
func (c *Client) SubmitTestEmail(ctx context.Context, sender, subject, body string) (*ProcessingTask, error) {
	payload := map[string]string{
		"sender":  sender,
		"subject": subject,
		"body":    body,
	}
	var task ProcessingTask
	if err := c.postJSON(ctx, "/orchestrace/test-email", payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// BatchUpload triggers pipeline runs for many inbox messages at once and
// returns the created tasks.
func (c *Client) BatchUpload(ctx context.Context, messageIDs []string) ([]ProcessingTask, error) {
	payload := map[string][]string{"message_ids": messageIDs}
	var tasks []ProcessingTask
	if err := c.postJSON(ctx, "/orchestrace/batch-upload", payload, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
