package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// fallbackRowCount is the size under which the interactive browser adds
// nothing over a plain table.
const fallbackRowCount = 10

// TUI implements UI using Bubble Tea for interactive history browsing. Status
// and report output stay plain; only DisplayHistory goes interactive.
type TUI struct {
	*SimpleUI
	output io.Writer
}

// NewTUI creates a new TUI on top of the plain UI.
func NewTUI(simple *SimpleUI, output io.Writer) *TUI {
	return &TUI{SimpleUI: simple, output: output}
}

// DisplayHistory browses the history ledger interactively. Small ledgers are
// printed directly, like the plain UI would.
func (t *TUI) DisplayHistory(ctx context.Context, rows []HistoryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(rows) <= fallbackRowCount {
		return t.SimpleUI.DisplayHistory(ctx, rows)
	}

	model := newHistoryModel(rows)

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run history browser: %w", err)
	}

	return nil
}

var (
	historyBaseStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	historyHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				MarginTop(1)

	historyDetailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				MarginTop(1)
)

// detailDepth is how many recent measurements the detail pane shows.
const detailDepth = 5

// historyModel is the Bubble Tea model for the ledger browser: one table row
// per label, a detail pane with the selected label's recent measurements.
type historyModel struct {
	table    table.Model
	rows     []HistoryRow
	quitting bool
}

func newHistoryModel(rows []HistoryRow) historyModel {
	columns := []table.Column{
		{Title: "Report", Width: 24},
		{Title: "Coverage", Width: 10},
		{Title: "Trend", Width: 8},
		{Title: "Runs", Width: 6},
	}

	tableRows := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, table.Row{
			row.Name,
			fmt.Sprintf("%.3f%%", row.Latest.Coverage),
			row.Trend.String(),
			fmt.Sprintf("%d", len(row.Series)),
		})
	}

	inner := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(len(rows)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	inner.SetStyles(styles)

	return historyModel{table: inner, rows: rows}
}

func (h historyModel) Init() tea.Cmd {
	return nil
}

func (h historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 8
		if height < 3 {
			height = 3
		}

		if height > len(h.rows) {
			height = len(h.rows)
		}

		h.table.SetHeight(height)

		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			h.quitting = true
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.table, cmd = h.table.Update(msg)

	return h, cmd
}

func (h historyModel) View() string {
	if h.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(historyBaseStyle.Render(h.table.View()))
	b.WriteString(h.renderDetail())
	b.WriteString(historyHelpStyle.Render("↑/↓ select · q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderDetail shows the recent measurements of the selected label.
func (h historyModel) renderDetail() string {
	cursor := h.table.Cursor()
	if cursor < 0 || cursor >= len(h.rows) {
		return ""
	}

	row := h.rows[cursor]

	var b strings.Builder

	fmt.Fprintf(&b, "\n%s: last %d measurements\n", row.Name, detailDepth)

	series := row.Series
	if len(series) > detailDepth {
		series = series[len(series)-detailDepth:]
	}

	for _, measurement := range series {
		fmt.Fprintf(&b, "  %s  %.3f%%\n", measurement.Time.Format("2006-01-02 15:04"), measurement.Coverage)
	}

	return historyDetailStyle.Render(b.String())
}
