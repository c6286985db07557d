// ABOUTME: Bubble Tea sub-model for the orders view: order table plus calculations for the selection.
// ABOUTME: Calculations show server-computed totals and margins; nothing is derived locally.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/masserfx/kovoterm/client"
)

// OrdersPanelModel displays orders and the calculations of the selected order.
type OrdersPanelModel struct {
	orders       []client.Order
	table        table.Model
	calculations []client.Calculation
	calcsFor     string
	width        int
	height       int
}

// NewOrdersPanelModel creates an orders panel with an empty table.
func NewOrdersPanelModel() OrdersPanelModel {
	columns := []table.Column{
		{Title: "číslo", Width: 12},
		{Title: "zákazník", Width: 28},
		{Title: "stav", Width: 10},
		{Title: "poznámka", Width: 30},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(8))

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(TitleStyle.GetForeground())
	styles.Selected = styles.Selected.Foreground(RunningStyle.GetForeground()).Bold(true)
	t.SetStyles(styles)

	return OrdersPanelModel{table: t}
}

// SetOrders replaces the table contents.
func (m *OrdersPanelModel) SetOrders(orders []client.Order) {
	m.orders = orders
	rows := make([]table.Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, table.Row{o.Number, o.Customer, o.Status, o.Note})
	}
	m.table.SetRows(rows)
}

// SetCalculations stores the calculations fetched for one order.
func (m *OrdersPanelModel) SetCalculations(orderID string, calcs []client.Calculation) {
	m.calcsFor = orderID
	m.calculations = calcs
}

// SelectedOrder returns the order under the cursor, or nil when empty.
func (m OrdersPanelModel) SelectedOrder() *client.Order {
	if len(m.orders) == 0 {
		return nil
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.orders) {
		return nil
	}
	o := m.orders[i]
	return &o
}

// SetSize sets the available dimensions.
func (m *OrdersPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	tableHeight := h / 2
	if tableHeight < 4 {
		tableHeight = 4
	}
	m.table.SetHeight(tableHeight)
	m.table.SetWidth(w - 4)
}

// Update forwards key messages to the embedded table for cursor movement.
func (m OrdersPanelModel) Update(msg tea.Msg) OrdersPanelModel {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	_ = cmd
	return m
}

// View renders the orders panel: table on top, calculations below.
func (m OrdersPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("=== ZAKÁZKY (enter: kalkulace) ==="))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	selected := m.SelectedOrder()
	switch {
	case selected == nil:
		b.WriteString(PendingStyle.Render("žádné zakázky"))

	case m.calcsFor != selected.ID:
		b.WriteString(PendingStyle.Render("enter načte kalkulace zakázky " + selected.Number))

	case len(m.calculations) == 0:
		b.WriteString(ValueStyle.Render("zakázka nemá kalkulace"))

	default:
		b.WriteString(TitleStyle.Render("Kalkulace"))
		b.WriteString("\n")
		for _, c := range m.calculations {
			line := fmt.Sprintf("  %-24s %-10s cena=%.2f marže=%.1f%%", c.Name, c.Status, c.TotalPrice, c.Margin)
			b.WriteString(ValueStyle.Render(line))
			b.WriteString("\n")
			for _, item := range c.Items {
				itemLine := fmt.Sprintf("    - [%s] %s %g %s x %.2f = %.2f",
					item.CostType, item.Description, item.Quantity, item.Unit, item.UnitPrice, item.LineTotal)
				b.WriteString(PendingStyle.Render(itemLine))
				b.WriteString("\n")
			}
		}
	}

	content := strings.TrimRight(b.String(), "\n")
	if m.width > 0 {
		return BorderStyle.Width(m.width - 2).Render(content)
	}
	return BorderStyle.Render(content)
}
