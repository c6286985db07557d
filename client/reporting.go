// ABOUTME: Aggregate reporting endpoints (/reporting/*) for dashboard summaries.
// ABOUTME: All aggregation happens in the backend; this side displays.
package client

import (
	"context"
	"net/url"
)

// GetReportSummary fetches the aggregate dashboard report.
func (c *Client) GetReportSummary(ctx context.Context) (*ReportSummary, error) {
	var summary ReportSummary
	if err := c.getJSON(ctx, "/reporting/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetMonthlyReport fetches the report for a given month (YYYY-MM).
func (c *Client) GetMonthlyReport(ctx context.Context, month string) (*ReportSummary, error) {
	var summary ReportSummary
	if err := c.getJSON(ctx, "/reporting/monthly?month="+url.QueryEscape(month), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
