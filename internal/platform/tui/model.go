package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hyperwave/internal/core"
	"github.com/vovakirdan/hyperwave/internal/play"
	"github.com/vovakirdan/hyperwave/internal/storage"
)

const controlsHint = "move: wasd/arrows/mouse  loot: space/click  p: pause  r: restart  q: quit"

// Model is the Bubble Tea model for running one session.
type Model struct {
	session    *play.Session
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	log        *log.Logger
	quitting   bool
	back       bool // Left for the menu rather than quitting
	runSaved   bool // Whether the finished run has been stored
}

// NewModel creates a new Bubble Tea model driving the given session.
func NewModel(session *play.Session, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Default()
	}
	return Model{
		session:    session,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		log:        logger.WithPrefix("tui"),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(); err != nil {
			m.log.Warn("screenshot failed", "err", err)
		} else {
			m.log.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionBack) {
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// handleMouse moves the pointer to the cell under the mouse. A left click
// also drops loot.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.session.PointAt(m.screen, msg.X, msg.Y)
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.inputFrame.Set(core.ActionLoot)
	}
	return m, nil
}

// handleResize keeps the run going and only resizes the screen buffer;
// the viewport scales the playfield to the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	return m, nil
}

// handleTick applies the frame's input and advances the simulation.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	applyInput(m.session, m.inputFrame)
	if m.inputFrame.Has(core.ActionRestart) && m.session.Finished() {
		m.session.Restart()
		m.runSaved = false
	}
	m.inputFrame.Clear()

	if !m.session.Finished() {
		m.session.Tick(now)
	}

	if m.session.Finished() && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// applyInput turns one frame of actions into session calls.
func applyInput(s *play.Session, frame core.InputFrame) {
	if frame.Has(core.ActionPause) {
		s.Pause()
	}
	if dx, dy := frame.Direction(); dx != 0 || dy != 0 {
		s.Pointer().Nudge(dx, dy)
	}
	if frame.Has(core.ActionLoot) {
		s.DropLoot()
	}
}

// saveRun stores the finished run. Runs that scored nothing are skipped.
func (m *Model) saveRun() {
	run := m.session.Result()
	if m.store == nil || run.Score <= 0 {
		return
	}
	id, err := m.store.SaveRun(run)
	if err != nil {
		m.log.Error("failed to save run", "err", err)
		return
	}
	m.log.Info("run saved", "id", id, "score", run.Score, "difficulty", run.Difficulty)
}

// saveScreenshot writes the current screen as text under
// ~/.hyperwave/screenshots and returns the file path.
func (m *Model) saveScreenshot() (string, error) {
	m.session.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	dir := filepath.Join(home, ".hyperwave", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("hyperwave_%s_%s.txt", m.session.Mode(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.session.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + renderStatus(controlsHint, m.screen.Width())
}

// Session returns the session the model drives.
func (m Model) Session() *play.Session { return m.session }

// WantsMenu reports whether the player left with back rather than quit.
func (m Model) WantsMenu() bool { return m.back }

// Run starts the Bubble Tea program for the session.
func Run(session *play.Session, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(session, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
