package store_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/HendryAvila/samvaad/internal/store"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir(), MaxHistory: 10})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func completed(t *testing.T, userID string, answers scoring.Answers) *session.Record {
	t.Helper()
	rec := session.NewRecord(userID, bank.English)
	if err := rec.SetAnswers(bank.Default(), answers); err != nil {
		t.Fatalf("SetAnswers: %v", err)
	}
	rec.Complete(scoring.Default())
	return rec
}

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_CreatesDBFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(dir, store.DBFile)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestNew_WALMode(t *testing.T) {
	s := newTestStore(t)
	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestNew_IdempotentReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.Save(ctx, completed(t, "u1", scoring.Answers{"family_01": scoring.AnswerA})); err != nil {
		t.Fatalf("save: %v", err)
	}
	s1.Close()

	s2, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	rec, err := s2.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !rec.AssessmentComplete {
		t.Error("record should survive reopen")
	}
}

// ─── Load / Save ────────────────────────────────────────────────────────────

func TestLoad_UnknownUserReturnsDefaults(t *testing.T) {
	s, err := store.New(store.Config{DataDir: t.TempDir(), DefaultLanguage: bank.Hindi})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	rec, err := s.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.UserID != "nobody" || rec.Language != bank.Hindi {
		t.Errorf("got user %q lang %q", rec.UserID, rec.Language)
	}
	if rec.Profile() != nil || rec.AssessmentComplete || rec.Premium {
		t.Error("unknown user should have default state")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := completed(t, "u1", scoring.Answers{
		"family_01":   scoring.AnswerA,
		"career_01":   scoring.AnswerC,
		"values_03":   scoring.AnswerB,
		"intimacy_01": scoring.AnswerD,
	})
	if err := rec.SetBasicInfo(session.BasicInfo{Gender: "male", AgeRange: "29-32", FirstMeeting: true, Timeline: "thisWeek"}); err != nil {
		t.Fatal(err)
	}
	rec.SetLanguage(bank.Hindi)
	if _, err := rec.ToggleSaved(selector.Default(), "family_out_01"); err != nil {
		t.Fatal(err)
	}
	if _, err := rec.ToggleSaved(selector.Default(), "family_out_02"); err != nil {
		t.Fatal(err)
	}
	if err := rec.SetGuideSummary("परिवार आपके लिए सबसे ज़रूरी है।"); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(rec, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoad_DanglingRunIsNotComplete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := completed(t, "u1", scoring.Answers{"family_01": scoring.AnswerA})
	_ = rec.SetGuideSummary("Family comes first for you.")
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.DB().Exec(`DELETE FROM profile_runs WHERE user_id = ?`, "u1"); err != nil {
		t.Fatalf("delete run: %v", err)
	}

	got, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Run != nil || got.AssessmentComplete {
		t.Errorf("Run = %v, AssessmentComplete = %v; want no run and not complete", got.Run, got.AssessmentComplete)
	}
	if got.GuideSummary != "" {
		t.Errorf("GuideSummary = %q, want empty without a profile", got.GuideSummary)
	}
	if len(got.Answers) != 1 {
		t.Errorf("answers should survive, got %v", got.Answers)
	}
}

func TestNew_AddsGuideSummaryColumn(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, store.DBFile))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		language TEXT NOT NULL DEFAULT 'en',
		basic_info TEXT,
		current_run_id TEXT,
		assessment_complete INTEGER NOT NULL DEFAULT 0,
		retake_count INTEGER NOT NULL DEFAULT 0,
		premium INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	); INSERT INTO users (id) VALUES ('old')`); err != nil {
		t.Fatalf("create old schema: %v", err)
	}
	db.Close()

	s, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("New on old schema: %v", err)
	}
	defer s.Close()

	rec, err := s.Load(context.Background(), "old")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.GuideSummary != "" {
		t.Errorf("GuideSummary = %q, want empty", rec.GuideSummary)
	}
}

func TestSave_ReplacesAnswersAndBookmarks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := completed(t, "u1", scoring.Answers{"family_01": scoring.AnswerA})
	if _, err := rec.ToggleSaved(selector.Default(), "family_out_01"); err != nil {
		t.Fatal(err)
	}
	_ = rec.SetGuideSummary("Family comes first for you.")
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}

	if _, err := rec.ToggleSaved(selector.Default(), "family_out_01"); err != nil {
		t.Fatal(err)
	}
	rec.Retake()
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Answers) != 0 {
		t.Errorf("answers = %v, want empty after retake", got.Answers)
	}
	if len(got.SavedGuide) != 0 {
		t.Errorf("saved guide = %v, want empty", got.SavedGuide)
	}
	if got.Profile() != nil {
		t.Error("profile should be cleared")
	}
	if got.RetakeCount != 1 {
		t.Errorf("RetakeCount = %d, want 1", got.RetakeCount)
	}
	if got.GuideSummary != "" {
		t.Errorf("GuideSummary = %q, want empty after retake", got.GuideSummary)
	}
}

func TestSave_RejectsEmptyUserID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(context.Background(), &session.Record{}); err == nil {
		t.Error("expected error for empty user id")
	}
}

// ─── Delete ─────────────────────────────────────────────────────────────────

func TestDelete_RemovesEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := completed(t, "u1", scoring.Answers{"family_01": scoring.AnswerA})
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, table := range []string{"users", "answers", "profile_runs", "saved_guide"} {
		var n int
		if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s has %d rows after delete", table, n)
		}
	}

	got, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.AssessmentComplete {
		t.Error("deleted user should load as fresh")
	}
}

func TestDelete_UnknownUser(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete(context.Background(), "ghost"); err != nil {
		t.Errorf("Delete(unknown) = %v, want nil", err)
	}
}

// ─── History / Stats ────────────────────────────────────────────────────────

func TestHistory_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := completed(t, "u1", scoring.Answers{"family_01": scoring.AnswerA})
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	first := rec.Run.ID

	rec.Retake()
	_ = rec.SetAnswer(bank.Default(), "family_01", scoring.AnswerD)
	rec.Complete(scoring.Default())
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	second := rec.Run.ID

	runs, err := s.History(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("order = [%s %s], want [%s %s]", runs[0].ID, runs[1].ID, second, first)
	}
	if runs[0].Profile.Family != scoring.Flexible || runs[1].Profile.Family != scoring.High {
		t.Errorf("profiles = %s, %s", runs[0].Profile.Family, runs[1].Profile.Family)
	}

	limited, err := s.History(ctx, "u1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d runs", len(limited))
	}
}

func TestHistory_SaveIsIdempotentPerRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := completed(t, "u1", scoring.Answers{})
	for range 3 {
		if err := s.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.History(ctx, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs, want 1", len(runs))
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := completed(t, "a", scoring.Answers{})
	a.SetPremium(true)
	b := session.NewRecord("b", bank.English)
	for _, rec := range []*session.Record{a, b} {
		if err := s.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := store.Stats{TotalUsers: 2, CompletedUsers: 1, PremiumUsers: 1, TotalRuns: 1}
	if diff := cmp.Diff(want, *st); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}
