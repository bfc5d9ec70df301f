package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/game"
	"github.com/vovakirdan/tui-zombies/internal/storage"
)

var statusColor = core.ColorLightGrey

func (m Model) style() lipgloss.Style {
	return m.painter.Renderer().NewStyle()
}

func (m Model) titleStyle() lipgloss.Style {
	return m.style().Bold(true).Foreground(lipgloss.Color("#c03020")).MarginBottom(1)
}

func (m Model) dimStyle() lipgloss.Style {
	return m.style().Foreground(lipgloss.Color("241"))
}

// place centers content on the full screen.
func (m Model) place(content string) string {
	return m.painter.Renderer().Place(m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH,
		lipgloss.Center, lipgloss.Center, content)
}

func (m Model) startView() string {
	var b strings.Builder

	b.WriteString(m.titleStyle().Render("Z O M B I E S"))
	b.WriteString("\n")
	b.WriteString("Press any key")
	b.WriteString("\n\n")

	if len(m.results) > 0 {
		b.WriteString(m.style().Bold(true).Render("Best runs"))
		b.WriteString("\n")
		b.WriteString(m.resultsTable().View())
		b.WriteString("\n\n")
	}

	h := m.help
	h.ShowAll = true
	b.WriteString(h.View(m.keys))

	return m.place(b.String())
}

func (m Model) mapSelectView() string {
	var b strings.Builder

	b.WriteString(m.titleStyle().Render("Choose a map"))
	b.WriteString("\n")

	maps := m.opts.Catalog.List()
	if len(maps) == 0 {
		b.WriteString(m.dimStyle().Render("No maps found."))
		b.WriteString("\n")
	}
	for i, info := range maps {
		if i >= 9 {
			break
		}
		line := fmt.Sprintf("%d  %-20s %3d zombies", i+1, info.Title, info.Zombies)
		if !info.Builtin {
			line += m.dimStyle().Render("  (custom)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.dimStyle().Render("1-9: pick map  |  esc: quit"))

	return m.place(b.String())
}

func (m Model) gameOverView() string {
	var b strings.Builder

	outcome := m.machine.Outcome()
	title := m.titleStyle()
	if outcome == game.OutcomeWin {
		b.WriteString(title.Foreground(lipgloss.Color("#20c040")).Render("YOU SURVIVED"))
	} else {
		b.WriteString(title.Render("YOU WERE OVERRUN"))
	}
	b.WriteString("\n")

	if m.session != nil {
		st := m.session.Stats()
		fmt.Fprintf(&b, "Map      %s\n", m.session.Map().Name())
		fmt.Fprintf(&b, "Kills    %d\n", st.Kills)
		fmt.Fprintf(&b, "Health   %d\n", st.Health)
		fmt.Fprintf(&b, "Time     %s\n", formatDuration(st.Elapsed))
	}

	b.WriteString("\n")
	b.WriteString(m.dimStyle().Render("Press any key"))

	return m.place(b.String())
}

// drawStatus writes the bottom row while playing.
func (m Model) drawStatus() {
	y := m.screen.Height() - 1
	if y < 0 {
		return
	}
	if m.session == nil {
		return
	}

	st := m.session.Stats()
	left := fmt.Sprintf(" %s  HP %d  kills %d  %s",
		m.session.Map().Name(), st.Health, st.Kills, formatDuration(st.Elapsed))
	if m.session.Night() {
		left += "  night"
	}
	if m.session.Debug() {
		left += "  debug"
	}
	m.screen.DrawText(0, y, left, statusColor)

	var keys []string
	for _, kb := range m.keys.ShortHelp() {
		keys = append(keys, kb.Help().Key+" "+kb.Help().Desc)
	}
	right := strings.Join(keys, "  ") + " "
	x := m.screen.Width() - len(right)
	if x > len(left)+1 {
		m.screen.DrawText(x, y, right, statusColor)
	}
}

func (m Model) resultsTable() table.Model {
	columns := []table.Column{
		{Title: "Map", Width: 12},
		{Title: "Result", Width: 6},
		{Title: "Kills", Width: 5},
		{Title: "Time", Width: 6},
		{Title: "Player", Width: 10},
	}

	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			r.MapID,
			r.Outcome,
			fmt.Sprintf("%d", r.Kills),
			formatDuration(r.Duration),
			r.Player,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)

	return t
}

// ResultRows formats results for a plain-text listing.
func ResultRows(results []storage.Result) [][]string {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			r.MapID,
			r.Outcome,
			fmt.Sprintf("%d", r.Kills),
			formatDuration(r.Duration),
			r.Player,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
	}
	return rows
}

// formatDuration renders d as m:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
