// ABOUTME: Top-level Bubble Tea AppModel that orchestrates all TUI sub-panels into a tabbed layout.
// ABOUTME: Implements tea.Model (Init, Update, View) and routes messages to pipeline, inbox, orders, and materials views.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/live"
	"github.com/masserfx/kovoterm/query"
)

// Tab identifies one of the top-level views.
type Tab int

const (
	TabPipeline Tab = iota
	TabInbox
	TabOrders
	TabMaterials
)

// tabNames are the display names in tab order.
var tabNames = []string{"1 pipeline", "2 inbox", "3 zakázky", "4 materiály"}

// spinnerInterval drives the running-stage animation.
const spinnerInterval = 100 * time.Millisecond

// AppModel is the top-level Bubble Tea model that composes all sub-panels
// and routes messages between them.
type AppModel struct {
	pipeline  PipelinePanelModel
	livePanel LivePanelModel
	inbox     InboxPanelModel
	orders    OrdersPanelModel
	materials MaterialsPanelModel
	statusBar StatusBarModel

	api      *client.Client
	cache    *query.Cache
	eventLog *live.Log

	tab    Tab
	width  int
	height int
}

// NewAppModel creates an AppModel with all sub-models initialized. eventLog
// may be nil when the websocket is unavailable; live history is then empty.
func NewAppModel(api *client.Client, cache *query.Cache, eventLog *live.Log) AppModel {
	return AppModel{
		pipeline:  NewPipelinePanelModel(),
		livePanel: NewLivePanelModel(live.DefaultMaxHistory * 2),
		inbox:     NewInboxPanelModel(),
		orders:    NewOrdersPanelModel(),
		materials: NewMaterialsPanelModel(),
		statusBar: NewStatusBarModel(api.BaseURL()),
		api:       api,
		cache:     cache,
		eventLog:  eventLog,
		tab:       TabPipeline,
	}
}

// Init implements tea.Model. Loads every view once and starts the tick loop;
// stats and DLQ polls rearm themselves from their own result messages.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		LoadStatsCmd(m.api, m.cache),
		LoadDLQCmd(m.api, m.cache),
		LoadInboxCmd(m.api, m.cache),
		LoadOrdersCmd(m.api, m.cache),
		LoadMaterialsCmd(m.api, m.cache, m.materials.ActiveOnly()),
		TickCmd(spinnerInterval),
	)
}

// Update implements tea.Model. Routes incoming messages to the appropriate
// sub-panel and returns the updated model with any follow-up commands.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StatsMsg:
		if msg.Err != nil {
			m.statusBar.SetNotice(fmt.Sprintf("stats: %v", msg.Err), true)
		} else {
			m.pipeline.SetStats(msg.Stats)
			m.statusBar.MarkRefreshed()
		}
		return m, PollCmd(query.StatsPollInterval, LoadStatsCmd(m.api, m.cache))

	case DLQMsg:
		if msg.Err != nil {
			m.statusBar.SetNotice(fmt.Sprintf("dlq: %v", msg.Err), true)
		} else {
			m.pipeline.SetDLQ(msg.Entries)
			m.statusBar.MarkRefreshed()
		}
		return m, PollCmd(query.DLQPollInterval, LoadDLQCmd(m.api, m.cache))

	case InboxMsg:
		if msg.Err != nil {
			m.statusBar.SetNotice(fmt.Sprintf("inbox: %v", msg.Err), true)
		} else {
			m.inbox.SetMessages(msg.Messages)
			m.refreshInboxHistory()
			m.statusBar.MarkRefreshed()
		}
		return m, nil

	case OrdersMsg:
		if msg.Err != nil {
			m.statusBar.SetNotice(fmt.Sprintf("zakázky: %v", msg.Err), true)
		} else {
			m.orders.SetOrders(msg.Orders)
			m.statusBar.MarkRefreshed()
		}
		return m, nil

	case CalculationsMsg:
		if msg.Err != nil {
			m.statusBar.SetNotice(fmt.Sprintf("kalkulace: %v", msg.Err), true)
		} else {
			m.orders.SetCalculations(msg.OrderID, msg.Calculations)
		}
		return m, nil

	case MaterialsMsg:
		if msg.Err != nil {
			m.statusBar.SetNotice(fmt.Sprintf("materiály: %v", msg.Err), true)
		} else {
			m.materials.SetPrices(msg.Prices)
			m.statusBar.MarkRefreshed()
		}
		return m, nil

	case ActionDoneMsg:
		return m.handleActionDone(msg)

	case LiveEventMsg:
		m.statusBar.SetLive(true)
		m.livePanel.Append(msg.Key, msg.Entry)
		if sel := m.inbox.SelectedMessage(); sel != nil && sel.ID == msg.Key {
			m.refreshInboxHistory()
		}
		return m, nil

	case LiveClosedMsg:
		m.statusBar.SetLive(false)
		return m, nil

	case TickMsg:
		m.pipeline.AdvanceSpinner()
		return m, TickCmd(spinnerInterval)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleActionDone reports the outcome of a mutation and reloads stale views.
func (m AppModel) handleActionDone(msg ActionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if m.materials.FormOpen() && msg.Entity == "materialy" {
			m.materials.SetFormError("Chyba: " + errorMessage(msg.Err))
			return m, nil
		}
		m.statusBar.SetNotice(fmt.Sprintf("%s: %v", msg.What, msg.Err), true)
		return m, nil
	}

	m.statusBar.SetNotice(msg.What+" ok", false)

	switch msg.Entity {
	case "orchestrace":
		return m, tea.Batch(LoadStatsCmd(m.api, m.cache), LoadDLQCmd(m.api, m.cache))
	case "materialy":
		m.materials.CloseForm()
		return m, LoadMaterialsCmd(m.api, m.cache, m.materials.ActiveOnly())
	}
	return m, nil
}

// handleKeyMsg processes keyboard input, routing to the form or the active view.
func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// When the material form is open it swallows everything except its own keys.
	if m.materials.FormOpen() {
		switch msg.String() {
		case "esc":
			m.materials.CloseForm()
			return m, nil
		case "enter":
			price, ok := m.materials.BuildPrice()
			if !ok {
				return m, nil
			}
			return m, SaveMaterialCmd(m.api, m.cache, price)
		case "tab":
			m.materials.FocusNext()
			return m, nil
		case "shift+tab":
			m.materials.FocusPrev()
			return m, nil
		}
		var cmd tea.Cmd
		m.materials, cmd = m.materials.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil
	case "1":
		m.tab = TabPipeline
		return m, nil
	case "2":
		m.tab = TabInbox
		return m, nil
	case "3":
		m.tab = TabOrders
		return m, nil
	case "4":
		m.tab = TabMaterials
		return m, nil
	}

	return m.handleViewKey(msg)
}

// handleViewKey routes remaining keys to the active view.
func (m AppModel) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabPipeline:
		switch msg.String() {
		case "up", "k":
			m.pipeline.CursorUp()
		case "down", "j":
			m.pipeline.CursorDown()
		case "r":
			if entry := m.pipeline.SelectedEntry(); entry != nil {
				return m, RetryDLQCmd(m.api, m.cache, entry.ID)
			}
		case "x":
			if entry := m.pipeline.SelectedEntry(); entry != nil {
				return m, ResolveDLQCmd(m.api, m.cache, entry.ID)
			}
		default:
			m.livePanel = m.livePanel.Update(msg)
		}
		return m, nil

	case TabInbox:
		m.inbox = m.inbox.Update(msg)
		m.refreshInboxHistory()
		return m, nil

	case TabOrders:
		if msg.String() == "enter" {
			if order := m.orders.SelectedOrder(); order != nil {
				return m, LoadCalculationsCmd(m.api, m.cache, order.ID)
			}
			return m, nil
		}
		m.orders = m.orders.Update(msg)
		return m, nil

	case TabMaterials:
		switch msg.String() {
		case "n":
			m.materials.OpenForm(nil)
		case "e":
			if price := m.materials.SelectedPrice(); price != nil {
				m.materials.OpenForm(price)
			}
		case "d":
			if price := m.materials.SelectedPrice(); price != nil {
				return m, DeleteMaterialCmd(m.api, m.cache, price.ID)
			}
		case "a":
			m.materials.ToggleActiveOnly()
			return m, LoadMaterialsCmd(m.api, m.cache, m.materials.ActiveOnly())
		default:
			var cmd tea.Cmd
			m.materials, cmd = m.materials.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// refreshInboxHistory pushes the live history of the selected message into
// the inbox detail pane.
func (m *AppModel) refreshInboxHistory() {
	if m.eventLog == nil {
		return
	}
	if sel := m.inbox.SelectedMessage(); sel != nil {
		m.inbox.SetHistory(m.eventLog.History(sel.ID))
	} else {
		m.inbox.SetHistory(nil)
	}
}

// View implements tea.Model. Renders the tab bar, the active view, and the
// status bar.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 60 || m.height < 12 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 60x12.", m.width, m.height)
	}

	tabBarHeight := 1
	statusBarHeight := 1
	bodyHeight := m.height - tabBarHeight - statusBarHeight

	var body string
	switch m.tab {
	case TabPipeline:
		leftWidth := m.width * 55 / 100
		rightWidth := m.width - leftWidth
		m.pipeline.SetWidth(leftWidth)
		m.livePanel.SetSize(rightWidth, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.pipeline.View(), m.livePanel.View())
	case TabInbox:
		m.inbox.SetSize(m.width, bodyHeight)
		body = m.inbox.View()
	case TabOrders:
		m.orders.SetSize(m.width, bodyHeight)
		body = m.orders.View()
	case TabMaterials:
		m.materials.SetSize(m.width, bodyHeight)
		body = m.materials.View()
	}

	m.statusBar.SetWidth(m.width)

	var b strings.Builder
	b.WriteString(m.viewTabBar())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}

// viewTabBar renders the tab labels with the active one highlighted.
func (m AppModel) viewTabBar() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			parts[i] = TabActiveStyle.Render(name)
		} else {
			parts[i] = TabStyle.Render(name)
		}
	}
	return strings.Join(parts, " ")
}

// errorMessage unwraps an APIError's message, falling back to err.Error().
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
