package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hyperwave/internal/config"
	"github.com/vovakirdan/hyperwave/internal/storage"
)

const (
	minWidthForDetail = 84  // narrower terminals drop the run detail pane
	detailWidth       = 26
	maxScores         = 100
)

// boardTab is one difficulty shown on the scoreboard. An empty key lists
// every run.
type boardTab struct {
	Key   string
	Title string
}

// scoreboardTabs returns the tabs in display order.
func scoreboardTabs() []boardTab {
	tabs := []boardTab{{Key: "", Title: "All"}}
	for _, p := range config.Presets {
		name := string(p)
		tabs = append(tabs, boardTab{Key: name, Title: strings.ToUpper(name[:1]) + name[1:]})
	}
	return append(tabs, boardTab{Key: "custom", Title: "Custom"})
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "prev run")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "next run")),
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next difficulty")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev difficulty")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	boardPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
	boardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	tabs       []boardTab
	tabCursor  int
	store      *storage.Store
	runs       []storage.Run
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
	showDetail bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		tabs:  scoreboardTabs(),
		store: store,
		keys:  DefaultScoreboardKeyMap(),
		help:  help.New(),
	}
	m.resize(width, height)
	m.loadRuns()
	return m
}

// resize rebuilds the table for a width x height terminal.
func (m *ScoreboardModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.showDetail = width >= minWidthForDetail
	m.help.Width = width

	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 7},
		{Title: "Waves", Width: 6},
		{Title: "Time", Width: 6},
		{Title: "Date", Width: 12},
	}
	if m.tabs != nil && m.tabs[m.tabCursor].Key == "" {
		columns = append(columns, table.Column{Title: "Difficulty", Width: 10})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-9, 3)),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)
	m.table = t
}

// loadRuns loads the best runs of the selected difficulty.
func (m *ScoreboardModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		if runs, err := m.store.TopRuns(m.tabs[m.tabCursor].Key, maxScores); err == nil {
			m.runs = runs
		}
	}

	allTab := m.tabs[m.tabCursor].Key == ""
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.WavesCleared),
			clock(r.Duration),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
		if allTab {
			row = append(row, r.Difficulty)
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// moveTab selects the difficulty delta tabs away, wrapping around.
func (m *ScoreboardModel) moveTab(delta int) {
	m.tabCursor = (m.tabCursor + delta + len(m.tabs)) % len(m.tabs)
	// The All tab has an extra column.
	m.resize(m.width, m.height)
	m.loadRuns()
}

// SelectedRun returns the highlighted run, if any.
func (m ScoreboardModel) SelectedRun() (storage.Run, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return storage.Run{}, false
	}
	return m.runs[i], true
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.moveTab(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.moveTab(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		cursor := m.table.Cursor()
		m.resize(msg.Width, msg.Height)
		m.loadRuns()
		m.table.SetCursor(cursor)
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render(centerText("BEST RUNS", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	runs := boardPanelStyle.Render(m.renderTableContent())
	if m.showDetail {
		runs = lipgloss.JoinHorizontal(lipgloss.Top, runs, "  ", m.renderDetail())
	}
	b.WriteString(runs)

	b.WriteString("\n")
	b.WriteString(boardLabelStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTabs draws the difficulty strip, or just the current one with
// arrows when the strip does not fit.
func (m ScoreboardModel) renderTabs() string {
	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tabCursor {
			tabs[i] = boardActiveTab.Render(t.Title)
		} else {
			tabs[i] = boardTabStyle.Render(t.Title)
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		return fmt.Sprintf("< %s >", m.tabs[m.tabCursor].Title)
	}
	return line
}

// renderDetail describes the highlighted run, seed included so it can be
// replayed.
func (m ScoreboardModel) renderDetail() string {
	r, ok := m.SelectedRun()
	if !ok {
		return boardPanelStyle.Width(detailWidth).Render(boardLabelStyle.Render("No run selected"))
	}

	seed := "random"
	if r.Seed != nil {
		seed = fmt.Sprintf("%d", *r.Seed)
	}
	lines := [][2]string{
		{"Difficulty", r.Difficulty},
		{"Score", fmt.Sprintf("%d", r.Score)},
		{"Waves", fmt.Sprintf("%d", r.WavesCleared)},
		{"Lives left", fmt.Sprintf("%d", r.Lives)},
		{"Steps", fmt.Sprintf("%d", r.Steps)},
		{"Time", clock(r.Duration)},
		{"Seed", seed},
		{"Played", r.CreatedAt.Format("2006-01-02 15:04")},
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render("Run"))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(boardLabelStyle.Render(fmt.Sprintf("%-11s", l[0])))
		b.WriteString(l[1])
		b.WriteString("\n")
	}
	return boardPanelStyle.Width(detailWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		return boardEmptyStyle.Render("No runs recorded yet.\nFinish a run to set a high score!")
	}
	return m.table.View()
}

// clock formats d as m:ss.
func clock(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
