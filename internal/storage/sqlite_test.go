package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveRun(Run{Difficulty: "normal", Score: score}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(Run{Difficulty: "hard", Score: 500}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err := store.TopRuns("normal", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}

	// Should be sorted descending
	want := []int{200, 100, 50}
	for i, r := range runs {
		if r.Score != want[i] {
			t.Errorf("runs[%d].Score = %d, want %d", i, r.Score, want[i])
		}
	}

	all, err := store.TopRuns("", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(all) != 4 || all[0].Score != 500 {
		t.Errorf("Expected 4 runs led by 500, got %d runs", len(all))
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		if _, err := store.SaveRun(Run{Difficulty: "easy", Score: i * 10}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns("easy", 5)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("Expected 5 runs, got %d", len(runs))
	}
	if runs[0].Score != 190 {
		t.Errorf("Expected top score 190, got %d", runs[0].Score)
	}

	runs, err = store.TopRuns("easy", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(runs))
	}
}

func TestStoreRunFieldsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	seed := uint32(4000000000)
	in := Run{
		Seed:         &seed,
		Difficulty:   "hard",
		Score:        42,
		Lives:        1,
		WavesCleared: 7,
		Steps:        3600,
		Duration:     61500 * time.Millisecond,
	}
	id, err := store.SaveRun(in)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRun() returned an empty id")
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() found nothing")
	}
	if got.Seed == nil || *got.Seed != seed {
		t.Errorf("Seed = %v, want %d", got.Seed, seed)
	}
	if got.Score != 42 || got.Lives != 1 || got.WavesCleared != 7 || got.Steps != 3600 {
		t.Errorf("unexpected run %+v", got)
	}
	if got.Duration != in.Duration {
		t.Errorf("Duration = %v, want %v", got.Duration, in.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestStoreUnseededAndMissing(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{ID: "fixed-id", Difficulty: "fixed", Score: 1})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("id = %q, want fixed-id", id)
	}

	got, err := store.RunByID(id)
	if err != nil || got == nil {
		t.Fatalf("RunByID() = %v, %v", got, err)
	}
	if got.Seed != nil {
		t.Errorf("Seed = %d, want nil", *got.Seed)
	}

	missing, err := store.RunByID("nope")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown id")
	}

	if _, err := store.SaveRun(Run{ID: "fixed-id", Difficulty: "fixed"}); err == nil {
		t.Error("Expected duplicate id to fail")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for no runs, got %d", high)
	}

	for _, score := range []int{30, 90, 60} {
		if _, err := store.SaveRun(Run{Difficulty: "normal", Score: score}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	high, err = store.HighScore("normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 90 {
		t.Errorf("Expected 90, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Difficulty: "easy", Score: 10})
	store.SaveRun(Run{Difficulty: "hard", Score: 20})

	if err := store.ClearRuns("easy"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, _ := store.TopRuns("easy", 10)
	if len(runs) != 0 {
		t.Errorf("Expected no easy runs, got %d", len(runs))
	}
	runs, _ = store.TopRuns("hard", 10)
	if len(runs) != 1 {
		t.Errorf("Expected hard runs untouched, got %d", len(runs))
	}
}

func TestStoreAllStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Difficulty: "normal", Score: 10})
	store.SaveRun(Run{Difficulty: "normal", Score: 30})
	store.SaveRun(Run{Difficulty: "hard", Score: 5})

	stats, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 difficulties, got %d", len(stats))
	}

	n := stats["normal"]
	if n.Runs != 2 || n.HighScore != 30 || n.TotalScore != 40 || n.AvgScore != 20 {
		t.Errorf("unexpected normal stats %+v", n)
	}
}
