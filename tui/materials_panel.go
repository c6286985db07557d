// ABOUTME: Bubble Tea sub-model for the material price list: table, create/edit form, and active filter.
// ABOUTME: Form validation reports inline Czech errors; saving goes through the backend, never locally.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/masserfx/kovoterm/client"
)

// Form field indexes, in focus order.
const (
	fieldName = iota
	fieldGrade
	fieldForm
	fieldDimension
	fieldPrice
	fieldCurrency
	fieldCount
)

// MaterialsPanelModel displays the material price table and an optional
// create/edit form overlay.
type MaterialsPanelModel struct {
	prices     []client.MaterialPrice
	table      table.Model
	activeOnly bool

	formOpen  bool
	editingID string
	editBase  client.MaterialPrice
	inputs    []textinput.Model
	focusIdx  int
	formErr   string

	width  int
	height int
}

// NewMaterialsPanelModel creates a materials panel with an empty table.
func NewMaterialsPanelModel() MaterialsPanelModel {
	columns := []table.Column{
		{Title: "název", Width: 24},
		{Title: "jakost", Width: 8},
		{Title: "forma", Width: 10},
		{Title: "rozměr", Width: 10},
		{Title: "cena", Width: 12},
		{Title: "aktivní", Width: 8},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(10))

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(TitleStyle.GetForeground())
	styles.Selected = styles.Selected.Foreground(RunningStyle.GetForeground()).Bold(true)
	t.SetStyles(styles)

	return MaterialsPanelModel{table: t, activeOnly: true}
}

// SetPrices replaces the table contents.
func (m *MaterialsPanelModel) SetPrices(prices []client.MaterialPrice) {
	m.prices = prices
	rows := make([]table.Row, 0, len(prices))
	for _, p := range prices {
		active := "ne"
		if p.IsActive {
			active = "ano"
		}
		rows = append(rows, table.Row{
			p.Name, p.Grade, p.Form, p.Dimension,
			fmt.Sprintf("%.2f %s", p.UnitPrice, p.Currency), active,
		})
	}
	m.table.SetRows(rows)
}

// SelectedPrice returns the entry under the cursor, or nil when empty.
func (m MaterialsPanelModel) SelectedPrice() *client.MaterialPrice {
	if len(m.prices) == 0 {
		return nil
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.prices) {
		return nil
	}
	p := m.prices[i]
	return &p
}

// ActiveOnly reports whether the table is filtered to active entries.
func (m MaterialsPanelModel) ActiveOnly() bool {
	return m.activeOnly
}

// ToggleActiveOnly flips the active filter. The caller reloads the list.
func (m *MaterialsPanelModel) ToggleActiveOnly() {
	m.activeOnly = !m.activeOnly
}

// FormOpen reports whether the create/edit form is visible.
func (m MaterialsPanelModel) FormOpen() bool {
	return m.formOpen
}

// OpenForm opens the form. A nil price starts a new entry; otherwise the
// fields are prefilled for editing.
func (m *MaterialsPanelModel) OpenForm(price *client.MaterialPrice) {
	labels := []string{"název", "jakost", "forma", "rozměr", "cena/kg", "měna"}
	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = labels[i]
		ti.CharLimit = 64
		ti.Width = 28
		m.inputs[i] = ti
	}

	m.editingID = ""
	m.editBase = client.MaterialPrice{IsActive: true}
	if price != nil {
		m.editingID = price.ID
		m.editBase = *price
		m.inputs[fieldName].SetValue(price.Name)
		m.inputs[fieldGrade].SetValue(price.Grade)
		m.inputs[fieldForm].SetValue(price.Form)
		m.inputs[fieldDimension].SetValue(price.Dimension)
		m.inputs[fieldPrice].SetValue(strconv.FormatFloat(price.UnitPrice, 'f', -1, 64))
		m.inputs[fieldCurrency].SetValue(price.Currency)
	} else {
		m.inputs[fieldCurrency].SetValue("CZK")
	}

	m.formErr = ""
	m.focusIdx = fieldName
	m.inputs[fieldName].Focus()
	m.formOpen = true
}

// CloseForm hides the form without saving.
func (m *MaterialsPanelModel) CloseForm() {
	m.formOpen = false
	m.formErr = ""
}

// FocusNext and FocusPrev cycle the focused form field.
func (m *MaterialsPanelModel) FocusNext() { m.setFocus((m.focusIdx + 1) % fieldCount) }
func (m *MaterialsPanelModel) FocusPrev() { m.setFocus((m.focusIdx + fieldCount - 1) % fieldCount) }

func (m *MaterialsPanelModel) setFocus(idx int) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	m.inputs[m.focusIdx].Focus()
}

// SetFormError displays a backend error inline in the form.
func (m *MaterialsPanelModel) SetFormError(msg string) {
	m.formErr = msg
}

// FormError returns the currently displayed inline error.
func (m MaterialsPanelModel) FormError() string {
	return m.formErr
}

// BuildPrice validates the form and returns the resulting entry. On a
// validation failure the inline error is set and ok is false.
func (m *MaterialsPanelModel) BuildPrice() (client.MaterialPrice, bool) {
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	if name == "" {
		m.formErr = "Chyba: název je povinný"
		return client.MaterialPrice{}, false
	}

	priceStr := strings.TrimSpace(m.inputs[fieldPrice].Value())
	priceStr = strings.ReplaceAll(priceStr, ",", ".")
	unitPrice, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		m.formErr = "Chyba: cena musí být číslo"
		return client.MaterialPrice{}, false
	}
	if unitPrice <= 0 {
		m.formErr = "Chyba: cena musí být kladná"
		return client.MaterialPrice{}, false
	}

	currency := strings.TrimSpace(m.inputs[fieldCurrency].Value())
	if currency == "" {
		currency = "CZK"
	}

	m.formErr = ""
	// Start from the entry the form was opened with so fields without a form
	// input (validity window, active flag) survive the full-entity PUT.
	price := m.editBase
	price.ID = m.editingID
	price.Name = name
	price.Grade = strings.TrimSpace(m.inputs[fieldGrade].Value())
	price.Form = strings.TrimSpace(m.inputs[fieldForm].Value())
	price.Dimension = strings.TrimSpace(m.inputs[fieldDimension].Value())
	price.UnitPrice = unitPrice
	price.Currency = currency
	return price, true
}

// SetSize sets the available dimensions.
func (m *MaterialsPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	tableHeight := h - 6
	if tableHeight < 4 {
		tableHeight = 4
	}
	m.table.SetHeight(tableHeight)
	m.table.SetWidth(w - 4)
}

// Update forwards messages to the focused form field or the table and
// returns any command the component produced (cursor blink and the like).
func (m MaterialsPanelModel) Update(msg tea.Msg) (MaterialsPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.formOpen {
		m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// View renders the materials panel, or the form when it is open.
func (m MaterialsPanelModel) View() string {
	if m.formOpen {
		return m.viewForm()
	}

	filter := "aktivní"
	if !m.activeOnly {
		filter = "všechny"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("=== MATERIÁLY [%s] (n nový, e upravit, d smazat, a filtr) ===", filter)))
	b.WriteString("\n")
	b.WriteString(m.table.View())

	content := strings.TrimRight(b.String(), "\n")
	if m.width > 0 {
		return BorderStyle.Width(m.width - 2).Render(content)
	}
	return BorderStyle.Render(content)
}

// viewForm renders the create/edit dialog with any inline error.
func (m MaterialsPanelModel) viewForm() string {
	title := "Nový materiál"
	if m.editingID != "" {
		title = "Upravit materiál"
	}

	labels := []string{"Název:", "Jakost:", "Forma:", "Rozměr:", "Cena/kg:", "Měna:"}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")
	for i, input := range m.inputs {
		b.WriteString(LabelStyle.Render(labels[i]))
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(FormErrorStyle.Render(m.formErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(PendingStyle.Render("tab: další pole, enter: uložit, esc: zpět"))

	return FormStyle.Render(b.String())
}
