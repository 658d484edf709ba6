package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
	"github.com/vovakirdan/pawn-school/internal/storage"
)

// Progress screen layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the profile sidebar
	sidebarWidth       = 20 // Width of profile sidebar
	recentWinsLimit    = 5
)

// ProgressKeyMap defines the key bindings for the progress screen.
type ProgressKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextProfile key.Binding
	PrevProfile key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ProgressKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextProfile, k.PrevProfile, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ProgressKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextProfile, k.PrevProfile, k.Quit},
	}
}

// DefaultProgressKeyMap returns default key bindings.
func DefaultProgressKeyMap() ProgressKeyMap {
	return ProgressKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextProfile: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next profile"),
		),
		PrevProfile: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev profile"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ProgressModel is the Bubble Tea model for the progress screen.
type ProgressModel struct {
	catalog       *levels.Catalog
	store         *storage.Store
	profiles      []string
	profileCursor int
	progress      engine.Progress
	stats         *storage.ProfileStats
	recent        []storage.WinRecord
	loadErr       error
	table         table.Model
	help          help.Model
	keys          ProgressKeyMap
	width         int
	height        int
	quitting      bool
	showSidebar   bool
}

// NewProgressModel creates a progress screen starting at profile. The
// profile is listed even when nothing was saved for it yet.
func NewProgressModel(store *storage.Store, catalog *levels.Catalog, profile string, width, height int) ProgressModel {
	if catalog == nil {
		catalog = levels.Default()
	}

	m := ProgressModel{
		catalog:     catalog,
		store:       store,
		keys:        DefaultProgressKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	if store != nil {
		if profiles, err := store.Profiles(); err == nil {
			m.profiles = profiles
		} else {
			m.loadErr = err
		}
	}
	m.profileCursor = -1
	for i, p := range m.profiles {
		if p == profile {
			m.profileCursor = i
		}
	}
	if m.profileCursor < 0 {
		m.profiles = append([]string{profile}, m.profiles...)
		m.profileCursor = 0
	}

	m.table = m.createTable()
	m.loadProgress()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ProgressModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Level", Width: 22},
		{Title: "Kind", Width: 9},
		{Title: "Wins", Width: 6},
		{Title: "Status", Width: 9},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if tableWidth < 55 {
		columns[1].Width = max(tableWidth-33, 10)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(min(m.catalog.Len()+3, m.height-12), 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadProgress reads the selected profile from the store.
func (m *ProgressModel) loadProgress() {
	profile := m.profiles[m.profileCursor]
	m.progress = engine.Progress{
		Wins:     make([]int, m.catalog.Len()),
		Unlocked: make([]bool, m.catalog.Len()),
	}
	m.progress.Unlocked[0] = true
	m.stats = nil
	m.recent = nil

	if m.store != nil {
		p, found, err := m.store.LoadProgress(profile, m.catalog.Len())
		if err != nil {
			m.loadErr = err
		} else if found {
			m.progress = p
			m.progress.Unlocked[0] = true
		}
		if stats, err := m.store.Stats(profile); err == nil {
			m.stats = stats
		}
		if recent, err := m.store.RecentWins(profile, recentWinsLimit); err == nil {
			m.recent = recent
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the current progress.
func (m *ProgressModel) updateTableRows() {
	rows := make([]table.Row, 0, m.catalog.Len())
	for i, l := range m.catalog.All() {
		status := "locked"
		switch {
		case m.progress.Wins[i] >= engine.MasteryThreshold:
			status = "mastered"
		case m.progress.Unlocked[i]:
			status = "open"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			l.Name,
			string(l.Kind()),
			fmt.Sprintf("%d/%d", min(m.progress.Wins[i], engine.MasteryThreshold), engine.MasteryThreshold),
			status,
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the progress model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the progress screen.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextProfile):
			m.profileCursor = (m.profileCursor + 1) % len(m.profiles)
			m.loadProgress()
			return m, nil

		case key.Matches(msg, m.keys.PrevProfile):
			m.profileCursor--
			if m.profileCursor < 0 {
				m.profileCursor = len(m.profiles) - 1
			}
			m.loadProgress()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the progress screen.
func (m ProgressModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("PROGRESS - %s", m.profiles[m.profileCursor])
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tablePanel := panelStyle.Render(m.table.View())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tablePanel))
	} else {
		b.WriteString(tablePanel)
	}
	b.WriteString("\n")
	b.WriteString(m.renderSummary())

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar renders the profile list.
func (m ProgressModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Profiles\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, p := range m.profiles {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.profileCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := p
		maxLen := sidebarWidth - 6
		if len([]rune(name)) > maxLen {
			name = string([]rune(name)[:maxLen-1]) + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderSummary renders totals and the latest wins.
func (m ProgressModel) renderSummary() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	if m.loadErr != nil {
		return dim.Render("Could not read progress: " + m.loadErr.Error())
	}
	if m.stats == nil || m.stats.TotalWins == 0 {
		return dim.Render("No wins recorded yet. Play a level to get started!")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wins: %d   Gems: %d   Last played: %s\n",
		m.stats.TotalWins, m.stats.Gems, m.stats.LastPlayed.Format("Jan 02 15:04"))
	for _, w := range m.recent {
		name := fmt.Sprintf("level %d", w.Level+1)
		if l, ok := m.catalog.At(w.Level); ok {
			name = l.Name
		}
		b.WriteString(dim.Render(fmt.Sprintf("  %s  %s", w.CreatedAt.Format("Jan 02 15:04"), name)))
		b.WriteString("\n")
	}
	return b.String()
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}

// RunProgress runs the progress screen.
func RunProgress(store *storage.Store, catalog *levels.Catalog, profile string, width, height int) error {
	model := NewProgressModel(store, catalog, profile, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
