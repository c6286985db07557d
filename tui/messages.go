// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Each type wraps fetched backend data or live events for the tea.Msg interface.
package tui

import (
	"time"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/live"
)

// StatsMsg carries a pipeline stats refresh (or the error that replaced it).
type StatsMsg struct {
	Stats *client.PipelineStats
	Err   error
}

// DLQMsg carries a dead-letter queue refresh.
type DLQMsg struct {
	Entries []client.DLQEntry
	Err     error
}

// InboxMsg carries an inbox list refresh.
type InboxMsg struct {
	Messages []client.InboxMessage
	Err      error
}

// OrdersMsg carries an order list refresh.
type OrdersMsg struct {
	Orders []client.Order
	Err    error
}

// CalculationsMsg carries the calculations fetched for one order.
type CalculationsMsg struct {
	OrderID      string
	Calculations []client.Calculation
	Err          error
}

// MaterialsMsg carries a material price list refresh.
type MaterialsMsg struct {
	Prices []client.MaterialPrice
	Err    error
}

// ActionDoneMsg signals that a mutation (DLQ retry, material save, delete)
// finished. The Entity names which cached lists went stale.
type ActionDoneMsg struct {
	What   string
	Entity string
	Err    error
}

// LiveEventMsg wraps a pipeline progress event from the websocket listener.
type LiveEventMsg struct {
	Entry live.Entry
	Key   string
}

// LiveClosedMsg signals that the websocket connection terminated. There is no
// reconnect; the status bar flips to offline.
type LiveClosedMsg struct{}

// TickMsg is sent periodically to update timers and spinners.
type TickMsg struct {
	Time time.Time
}
