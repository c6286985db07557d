// ABOUTME: Bridge connecting the backend client and websocket listener to the Bubble Tea message loop.
// ABOUTME: Provides EventBridge for live event injection and tea.Cmd factories for fetches and mutations.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/live"
	"github.com/masserfx/kovoterm/query"
)

// fetchTimeout bounds every backend call issued from the message loop.
const fetchTimeout = 10 * time.Second

// EventBridge wraps a tea.Program's Send method for injecting live websocket
// events into the Bubble Tea message loop.
type EventBridge struct {
	send func(msg tea.Msg)
}

// NewEventBridge creates an EventBridge that sends messages via the given
// function. Typically called with program.Send as the argument.
func NewEventBridge(send func(msg tea.Msg)) *EventBridge {
	return &EventBridge{send: send}
}

// HandleEvent implements the live.EventFunc signature. It wraps the entry in
// a LiveEventMsg and sends it to the TUI.
func (b *EventBridge) HandleEvent(inboxMessageID string, entry live.Entry) {
	b.send(LiveEventMsg{Entry: entry, Key: inboxMessageID})
}

// NotifyClosed sends a LiveClosedMsg. Wire it to the listener's Done channel
// so the status bar flips to offline when the connection drops.
func (b *EventBridge) NotifyClosed() {
	b.send(LiveClosedMsg{})
}

// fetchCtx returns a bounded context for one backend call.
func fetchCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fetchTimeout)
}

// LoadStatsCmd fetches pipeline stats through the query cache.
func LoadStatsCmd(api *client.Client, cache *query.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		v, err := cache.Refresh(ctx, query.Key{"orchestrace", "stats"}, func(ctx context.Context) (any, error) {
			return api.GetPipelineStats(ctx)
		})
		if err != nil {
			return StatsMsg{Err: err}
		}
		return StatsMsg{Stats: v.(*client.PipelineStats)}
	}
}

// LoadDLQCmd fetches the dead-letter queue through the query cache.
func LoadDLQCmd(api *client.Client, cache *query.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		v, err := cache.Refresh(ctx, query.Key{"orchestrace", "dlq"}, func(ctx context.Context) (any, error) {
			return api.ListDLQ(ctx)
		})
		if err != nil {
			return DLQMsg{Err: err}
		}
		return DLQMsg{Entries: v.([]client.DLQEntry)}
	}
}

// LoadInboxCmd fetches the inbox list through the query cache.
func LoadInboxCmd(api *client.Client, cache *query.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		v, err := cache.Fetch(ctx, query.Key{"inbox"}, func(ctx context.Context) (any, error) {
			return api.ListInboxMessages(ctx, "")
		})
		if err != nil {
			return InboxMsg{Err: err}
		}
		return InboxMsg{Messages: v.([]client.InboxMessage)}
	}
}

// LoadOrdersCmd fetches the order list through the query cache.
func LoadOrdersCmd(api *client.Client, cache *query.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		v, err := cache.Fetch(ctx, query.Key{"zakazky"}, func(ctx context.Context) (any, error) {
			return api.ListOrders(ctx, "")
		})
		if err != nil {
			return OrdersMsg{Err: err}
		}
		return OrdersMsg{Orders: v.([]client.Order)}
	}
}

// LoadCalculationsCmd fetches the calculations attached to one order.
func LoadCalculationsCmd(api *client.Client, cache *query.Cache, orderID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		v, err := cache.Fetch(ctx, query.Key{"kalkulace", orderID}, func(ctx context.Context) (any, error) {
			return api.ListCalculations(ctx, orderID)
		})
		if err != nil {
			return CalculationsMsg{OrderID: orderID, Err: err}
		}
		return CalculationsMsg{OrderID: orderID, Calculations: v.([]client.Calculation)}
	}
}

// LoadMaterialsCmd fetches the material price list through the query cache.
func LoadMaterialsCmd(api *client.Client, cache *query.Cache, activeOnly bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		key := query.Key{"materialy"}
		if activeOnly {
			key = query.Key{"materialy", "active"}
		}
		v, err := cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
			return api.ListMaterialPrices(ctx, client.MaterialFilter{ActiveOnly: activeOnly})
		})
		if err != nil {
			return MaterialsMsg{Err: err}
		}
		return MaterialsMsg{Prices: v.([]client.MaterialPrice)}
	}
}

// RetryDLQCmd asks the backend to retry a dead-letter entry, then invalidates
// the DLQ and stats caches so the next load refetches.
func RetryDLQCmd(api *client.Client, cache *query.Cache, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		err := api.RetryDLQEntry(ctx, id)
		if err == nil {
			cache.Invalidate(query.Key{"orchestrace"})
		}
		return ActionDoneMsg{What: "retry " + id, Entity: "orchestrace", Err: err}
	}
}

// ResolveDLQCmd marks a dead-letter entry as resolved.
func ResolveDLQCmd(api *client.Client, cache *query.Cache, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		err := api.ResolveDLQEntry(ctx, id)
		if err == nil {
			cache.Invalidate(query.Key{"orchestrace"})
		}
		return ActionDoneMsg{What: "resolve " + id, Entity: "orchestrace", Err: err}
	}
}

// SaveMaterialCmd creates or updates a material price and invalidates the
// material caches on success.
func SaveMaterialCmd(api *client.Client, cache *query.Cache, price client.MaterialPrice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		var err error
		if price.ID == "" {
			_, err = api.CreateMaterialPrice(ctx, price)
		} else {
			_, err = api.UpdateMaterialPrice(ctx, price)
		}
		if err == nil {
			cache.Invalidate(query.Key{"materialy"})
		}
		return ActionDoneMsg{What: "save material " + price.Name, Entity: "materialy", Err: err}
	}
}

// DeleteMaterialCmd removes a material price and invalidates the caches.
func DeleteMaterialCmd(api *client.Client, cache *query.Cache, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		err := api.DeleteMaterialPrice(ctx, id)
		if err == nil {
			cache.Invalidate(query.Key{"materialy"})
		}
		return ActionDoneMsg{What: "delete material " + id, Entity: "materialy", Err: err}
	}
}

// TickCmd returns a tea.Cmd that sends a TickMsg after the given interval.
// Used for spinner animation and periodic UI refreshes.
func TickCmd(interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(interval)
		return TickMsg{Time: time.Now()}
	}
}

// PollCmd delays a load command by the given interval. Rearming happens in
// the Update handler of the message the load produces.
func PollCmd(interval time.Duration, load tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(interval)
		return load()
	}
}
