package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hyperwave/internal/config"
	"github.com/vovakirdan/hyperwave/internal/core"
	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/play"
	"github.com/vovakirdan/hyperwave/internal/registry"
	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/sim"
	"github.com/vovakirdan/hyperwave/internal/storage"
	"github.com/vovakirdan/hyperwave/internal/wave"
)

var quiet = log.New(io.Discard)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 32, ScreenH: 14, TickRate: 60}
}

func testFactory(t *testing.T) SessionFactory {
	t.Helper()
	return func(mode string, preset config.DifficultyPreset) (*play.Session, error) {
		cfg := config.DefaultHyperwaveConfig()
		cfg.Waves.Count = 2
		return play.New(play.Options{
			Config: cfg,
			Preset: preset,
			Mode:   mode,
			Seed:   rng.Seed(9),
			Logger: quiet,
		})
	}
}

func newTestSession(t *testing.T) *play.Session {
	t.Helper()
	s, err := testFactory(t)(registry.Campaign, "")
	if err != nil {
		t.Fatalf("play.New() error = %v", err)
	}
	return s
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// endRun gives the run a score and then loses its only remaining life.
func endRun(t *testing.T, s *play.Session) {
	t.Helper()
	w := s.Game().World()
	gs := ecs.MustResource[sim.GameState](w)
	gs.Score = 5
	gs.Lives = 1
	cfg := s.Config()
	s.Game().Actions().SpawnEnemy(sim.Position{X: cfg.Player.StartX, Y: cfg.Player.StartY}, wave.Enemy1, &sim.Velocity{})
	s.Game().Step(1000.0 / 60)
	if !s.Over() {
		t.Fatal("run should be over")
	}
}

func update(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next
}

func TestModelNudgesPointerOnTick(t *testing.T) {
	s := newTestSession(t)
	var m tea.Model = NewModel(s, nil, testRuntime(), quiet)

	m = update(t, m, runeKey('d'))
	m = update(t, m, TickMsg(time.Now()))

	x, y := s.Pointer().Pointer()
	cfg := s.Config()
	if x != cfg.Player.StartX+play.PointerStep || y != cfg.Player.StartY {
		t.Errorf("pointer = (%v, %v), want (%v, %v)", x, y, cfg.Player.StartX+play.PointerStep, cfg.Player.StartY)
	}
	if !strings.Contains(m.View(), "SCORE") {
		t.Error("view should contain the HUD")
	}
}

func TestModelPauseToggles(t *testing.T) {
	s := newTestSession(t)
	var m tea.Model = NewModel(s, nil, testRuntime(), quiet)

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg(time.Now()))
	if !s.Paused() {
		t.Fatal("expected paused")
	}
	m = update(t, m, runeKey('p'))
	update(t, m, TickMsg(time.Now()))
	if s.Paused() {
		t.Error("expected unpaused")
	}
}

func TestModelBackAndQuit(t *testing.T) {
	s := newTestSession(t)
	m := update(t, NewModel(s, nil, testRuntime(), quiet), tea.KeyMsg{Type: tea.KeyEsc}).(Model)
	if !m.WantsMenu() {
		t.Error("esc should leave for the menu")
	}

	_, cmd := NewModel(s, nil, testRuntime(), quiet).Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelSavesFinishedRunOnce(t *testing.T) {
	store := openTestStore(t)
	s := newTestSession(t)
	endRun(t, s)

	var m tea.Model = NewModel(s, store, testRuntime(), quiet)
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, TickMsg(time.Now()))

	runs, err := store.TopRuns("custom", 10)
	if err != nil {
		t.Fatalf("TopRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Score != 5 || runs[0].Lives != 0 {
		t.Errorf("saved run = %+v", runs[0])
	}
	if runs[0].Seed == nil || *runs[0].Seed != 9 {
		t.Errorf("saved seed = %v, want 9", runs[0].Seed)
	}

	// Restart starts a fresh run.
	m = update(t, m, runeKey('r'))
	update(t, m, TickMsg(time.Now()))
	if s.Finished() {
		t.Error("restart should start a new run")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	s := newTestSession(t)
	s.DropLoot()
	m := update(t, NewModel(s, nil, testRuntime(), quiet), tea.WindowSizeMsg{Width: 64, Height: 30}).(Model)

	if m.screen.Width() != 64 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d, want 64x29", m.screen.Width(), m.screen.Height())
	}
	if got := ecs.Len[sim.Loot](s.Game().World()); got != 1 {
		t.Errorf("loot = %d, resize should not reset the run", got)
	}
}

func TestMenuPicksModeAndDifficulty(t *testing.T) {
	var m tea.Model = NewMenuModel(nil, testRuntime(), config.DifficultyHard)
	if got := m.(MenuModel).Preset(); got != config.DifficultyHard {
		t.Fatalf("Preset() = %q, want hard", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.(MenuModel).Preset(); got != config.DifficultyEasy {
		t.Errorf("Preset() after wrap = %q, want easy", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.(MenuModel).Selected()
	if sel == nil || sel.ModeID != registry.Endless {
		t.Errorf("Selected() = %+v, want endless", sel)
	}
}

func TestMenuScoreboardKey(t *testing.T) {
	m := update(t, NewMenuModel(nil, testRuntime(), ""), tea.KeyMsg{Type: tea.KeyTab}).(MenuModel)
	if !m.WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}
	if m.Preset() != config.DifficultyNormal {
		t.Errorf("default preset = %q, want normal", m.Preset())
	}
}

func TestScoreboardTabs(t *testing.T) {
	store := openTestStore(t)
	for _, r := range []storage.Run{
		{Difficulty: "easy", Score: 10},
		{Difficulty: "hard", Score: 30},
		{Difficulty: "hard", Score: 20},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if len(m.runs) != 3 {
		t.Fatalf("All tab runs = %d, want 3", len(m.runs))
	}

	// All -> Easy -> Normal -> Hard
	for range 3 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(ScoreboardModel)
	}
	if m.tabs[m.tabCursor].Key != "hard" || len(m.runs) != 2 || m.runs[0].Score != 30 {
		t.Errorf("hard tab = %q with %d runs", m.tabs[m.tabCursor].Key, len(m.runs))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown}).(ScoreboardModel)
	if r, ok := m.SelectedRun(); !ok || r.Score != 20 {
		t.Errorf("SelectedRun() = %+v, %v; want the score 20 run", r, ok)
	}
	if view := m.View(); !strings.Contains(view, "Lives left") || !strings.Contains(view, "random") {
		t.Error("wide scoreboard should show the run detail")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}).(ScoreboardModel)
	if m.tabs[m.tabCursor].Key != "normal" || len(m.runs) != 0 {
		t.Errorf("normal tab = %q with %d runs", m.tabs[m.tabCursor].Key, len(m.runs))
	}
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Error("empty tab should say so")
	}
}

func TestSessionModelFlow(t *testing.T) {
	var m tea.Model = NewSessionModel(nil, testRuntime(), config.DifficultyEasy, testFactory(t), quiet, "alice")
	if m.(SessionModel).ID() == "" {
		t.Fatal("session id should be set")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sm := m.(SessionModel)
	if sm.view != viewGame || sm.game == nil {
		t.Fatal("enter should start a run")
	}
	if got := sm.game.Session().Difficulty(); got != "easy" {
		t.Errorf("run difficulty = %q, want easy", got)
	}
	if sm.game.Session().Mode() != registry.Campaign {
		t.Errorf("run mode = %q, want campaign", sm.game.Session().Mode())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.(SessionModel).view != viewMenu {
		t.Fatal("esc should return to the menu")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.(SessionModel).view != viewScoreboard {
		t.Fatal("tab should open the scoreboard")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.(SessionModel).view != viewMenu {
		t.Fatal("esc should leave the scoreboard")
	}

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should quit the session")
	}
}
