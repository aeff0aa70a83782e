package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/porg-project/porg-deps/pkg/plan"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PlanReviewModel - Interactive plan browser
// =============================================================================

// PlanReviewModel is the bubbletea model for browsing an upgrade plan.
// Rows follow the build order; "r" narrows the view to packages that
// need a rebuild.
type PlanReviewModel struct {
	Result      *plan.Result
	Cursor      int
	Height      int
	Offset      int
	RebuildOnly bool
}

// NewPlanReviewModel creates a plan browser over res.
func NewPlanReviewModel(res *plan.Result) PlanReviewModel {
	return PlanReviewModel{
		Result: res,
		Height: 15,
	}
}

// visible returns the package names currently shown, in build order.
func (m PlanReviewModel) visible() []string {
	if !m.RebuildOnly {
		return m.Result.Order
	}
	var names []string
	for _, name := range m.Result.Order {
		if m.Result.Packages[name].NeedsRebuild {
			names = append(names, name)
		}
	}
	return names
}

func (m PlanReviewModel) Init() tea.Cmd {
	return nil
}

func (m PlanReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "r":
			m.RebuildOnly = !m.RebuildOnly
			m.Cursor = 0
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PlanReviewModel) View() string {
	var b strings.Builder

	title := "Upgrade Plan"
	if m.RebuildOnly {
		title = "Upgrade Plan (rebuilds only)"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  r toggle rebuilds  q quit"))
	b.WriteString("\n\n")

	names := m.visible()
	if len(names) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(names) {
		end = len(names)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		name := names[i]
		info := m.Result.Packages[name]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		installed := "—"
		if info.Installed {
			installed = info.InstalledVersion
			if installed == "" {
				installed = "yes"
			}
		}

		status := "ok"
		if info.NeedsRebuild {
			status = "rebuild"
		}

		rows = append(rows, []string{cursor, name, info.Version, string(info.Tier), installed, status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "Tier", "Installed", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(names) {
				return lipgloss.NewStyle()
			}
			info := m.Result.Packages[names[actualIdx]]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				base = base.Bold(true)
			}
			if col == 5 {
				if info.NeedsRebuild {
					return base.Foreground(colorYellow)
				}
				return base.Foreground(colorGreen)
			}
			if col == 3 {
				return base.Foreground(tierColor(info.Tier))
			}
			if !isCurrent && !info.NeedsRebuild {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if info := m.Result.Packages[names[m.Cursor]]; info.NeedsRebuild && info.Reason != "" {
		b.WriteString(listDimStyle.Render("  reason: ") + StyleWarning.Render(info.Reason))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("  [%d/%d] · %d need rebuild", m.Cursor+1, len(names), len(m.Result.NeedsRebuild))
	if n := len(m.Result.Cycles); n > 0 {
		footer += fmt.Sprintf(" · %d cycle(s)", n)
	}
	b.WriteString(listDimStyle.Render(footer))

	return b.String()
}

// runPlanReview opens the interactive browser and blocks until it exits.
func runPlanReview(res *plan.Result) error {
	p := tea.NewProgram(NewPlanReviewModel(res))
	_, err := p.Run()
	return err
}
