// Package store persists Samvaad user records in SQLite.
//
// One database file holds every user: onboarding basics, answers, the
// history of scoring runs, and guide bookmarks. It implements
// session.Repository; the engine packages never touch it directly.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/session"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DBFile is the database filename inside the data directory.
const DBFile = "samvaad.db"

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir string
	// DefaultLanguage is assigned to users seen for the first time.
	DefaultLanguage bank.Language
	// MaxHistory caps History results when the caller passes limit <= 0.
	MaxHistory int
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:         filepath.Join(home, ".samvaad"),
		DefaultLanguage: bank.English,
		MaxHistory:      20,
	}
}

// Stats holds aggregate store statistics.
type Stats struct {
	TotalUsers     int `json:"total_users"`
	CompletedUsers int `json:"completed_users"`
	PremiumUsers   int `json:"premium_users"`
	TotalRuns      int `json:"total_runs"`
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed user repository.
type Store struct {
	db  *sql.DB
	cfg Config
}

var _ session.Repository = (*Store)(nil)

// New creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = bank.English
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 20
	}

	db, err := openDB("sqlite", filepath.Join(cfg.DataDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id                  TEXT PRIMARY KEY,
			language            TEXT    NOT NULL DEFAULT 'en',
			basic_info          TEXT,
			current_run_id      TEXT,
			assessment_complete INTEGER NOT NULL DEFAULT 0,
			retake_count        INTEGER NOT NULL DEFAULT 0,
			premium             INTEGER NOT NULL DEFAULT 0,
			guide_summary       TEXT    NOT NULL DEFAULT '',
			created_at          TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at          TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS answers (
			user_id     TEXT NOT NULL,
			question_id TEXT NOT NULL,
			answer      TEXT NOT NULL CHECK (answer IN ('A', 'B', 'C', 'D')),
			PRIMARY KEY (user_id, question_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS profile_runs (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			profile    TEXT NOT NULL,
			scores     TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_runs_user ON profile_runs(user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS saved_guide (
			user_id     TEXT    NOT NULL,
			question_id TEXT    NOT NULL,
			position    INTEGER NOT NULL,
			PRIMARY KEY (user_id, question_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addColumn("users", "guide_summary", "TEXT NOT NULL DEFAULT ''")
}

// addColumn adds a column missing from a table created by an older schema.
func (s *Store) addColumn(table, column, decl string) error {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)); err != nil {
		return fmt.Errorf("adding %s.%s: %w", table, column, err)
	}
	return nil
}

// ─── Records ─────────────────────────────────────────────────────────────────

// Load returns the stored record for userID, or a fresh default record if
// the user has never been saved.
func (s *Store) Load(ctx context.Context, userID string) (*session.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT language, basic_info, current_run_id, assessment_complete,
		       retake_count, premium, guide_summary, created_at, updated_at
		FROM users WHERE id = ?`, userID)

	var (
		rec       = &session.Record{UserID: userID}
		lang      string
		basicInfo sql.NullString
		runID     sql.NullString
	)
	err := row.Scan(&lang, &basicInfo, &runID, &rec.AssessmentComplete,
		&rec.RetakeCount, &rec.Premium, &rec.GuideSummary, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.NewRecord(userID, s.cfg.DefaultLanguage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %q: %w", userID, err)
	}
	rec.Language = bank.ParseLanguage(lang)

	if basicInfo.Valid && basicInfo.String != "" {
		var info session.BasicInfo
		if err := json.Unmarshal([]byte(basicInfo.String), &info); err != nil {
			return nil, fmt.Errorf("parsing basic info for %q: %w", userID, err)
		}
		rec.BasicInfo = &info
	}

	if rec.Answers, err = s.loadAnswers(ctx, userID); err != nil {
		return nil, err
	}
	if rec.SavedGuide, err = s.loadSaved(ctx, userID); err != nil {
		return nil, err
	}
	if runID.Valid && runID.String != "" {
		run, err := s.loadRun(ctx, runID.String)
		if err != nil {
			return nil, err
		}
		rec.Run = run
	}
	// A dangling run reference leaves no profile to complete against.
	if rec.Run == nil {
		rec.AssessmentComplete = false
		rec.GuideSummary = ""
	}
	return rec, nil
}

func (s *Store) loadAnswers(ctx context.Context, userID string) (scoring.Answers, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, answer FROM answers WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	defer rows.Close()

	answers := scoring.Answers{}
	for rows.Next() {
		var id, a string
		if err := rows.Scan(&id, &a); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		answers[id] = scoring.Answer(a)
	}
	return answers, rows.Err()
}

func (s *Store) loadSaved(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id FROM saved_guide WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("loading saved guide: %w", err)
	}
	defer rows.Close()

	saved := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning saved guide: %w", err)
		}
		saved = append(saved, id)
	}
	return saved, rows.Err()
}

func (s *Store) loadRun(ctx context.Context, runID string) (*session.ProfileRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile, scores, created_at FROM profile_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %q: %w", runID, err)
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*session.ProfileRun, error) {
	var (
		run             session.ProfileRun
		profile, scores string
	)
	if err := sc.Scan(&run.ID, &profile, &scores, &run.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(profile), &run.Profile); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &run.Scores); err != nil {
		return nil, fmt.Errorf("parsing scores: %w", err)
	}
	return &run, nil
}

// Save writes the whole record in one transaction. The current run is
// inserted if new; earlier runs are never modified.
func (s *Store) Save(ctx context.Context, rec *session.Record) error {
	if rec.UserID == "" {
		return errors.New("saving record: empty user id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var basicInfo any
	if rec.BasicInfo != nil {
		raw, err := json.Marshal(rec.BasicInfo)
		if err != nil {
			return fmt.Errorf("encoding basic info: %w", err)
		}
		basicInfo = string(raw)
	}

	var runID any
	if rec.Run != nil {
		runID = rec.Run.ID
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, language, basic_info, current_run_id, assessment_complete,
		                   retake_count, premium, guide_summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, datetime('now')), COALESCE(?, datetime('now')))
		ON CONFLICT(id) DO UPDATE SET
			language            = excluded.language,
			basic_info          = excluded.basic_info,
			current_run_id      = excluded.current_run_id,
			assessment_complete = excluded.assessment_complete,
			retake_count        = excluded.retake_count,
			premium             = excluded.premium,
			guide_summary       = excluded.guide_summary,
			updated_at          = excluded.updated_at`,
		rec.UserID, string(rec.Language), basicInfo, runID, rec.AssessmentComplete,
		rec.RetakeCount, rec.Premium, rec.GuideSummary, nonEmpty(rec.CreatedAt), nonEmpty(rec.UpdatedAt),
	); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	if rec.Run != nil {
		profile, err := json.Marshal(rec.Run.Profile)
		if err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
		scores, err := json.Marshal(rec.Run.Scores)
		if err != nil {
			return fmt.Errorf("encoding scores: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO profile_runs (id, user_id, profile, scores, created_at)
			VALUES (?, ?, ?, ?, COALESCE(?, datetime('now')))`,
			rec.Run.ID, rec.UserID, string(profile), string(scores), nonEmpty(rec.Run.CreatedAt),
		); err != nil {
			return fmt.Errorf("inserting profile run: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE user_id = ?`, rec.UserID); err != nil {
		return fmt.Errorf("clearing answers: %w", err)
	}
	for id, a := range rec.Answers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO answers (user_id, question_id, answer) VALUES (?, ?, ?)`,
			rec.UserID, id, string(a),
		); err != nil {
			return fmt.Errorf("inserting answer %q: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_guide WHERE user_id = ?`, rec.UserID); err != nil {
		return fmt.Errorf("clearing saved guide: %w", err)
	}
	for i, id := range rec.SavedGuide {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO saved_guide (user_id, question_id, position) VALUES (?, ?, ?)`,
			rec.UserID, id, i,
		); err != nil {
			return fmt.Errorf("inserting saved guide %q: %w", id, err)
		}
	}

	return tx.Commit()
}

// Delete removes every row belonging to userID. Deleting an unknown user
// is not an error.
func (s *Store) Delete(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Child tables first; foreign_keys is per connection and cannot be
	// relied on for cascades across the pool.
	for _, q := range []string{
		`DELETE FROM answers WHERE user_id = ?`,
		`DELETE FROM saved_guide WHERE user_id = ?`,
		`DELETE FROM profile_runs WHERE user_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return fmt.Errorf("deleting user %q: %w", userID, err)
		}
	}
	return tx.Commit()
}

// History lists the user's scoring runs, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]session.ProfileRun, error) {
	if limit <= 0 || limit > s.cfg.MaxHistory {
		limit = s.cfg.MaxHistory
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile, scores, created_at FROM profile_runs
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []session.ProfileRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Stats returns aggregate counts across all users.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(assessment_complete), 0),
		       COALESCE(SUM(premium), 0)
		FROM users`).Scan(&st.TotalUsers, &st.CompletedUsers, &st.PremiumUsers)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profile_runs`).Scan(&st.TotalRuns); err != nil {
		return nil, fmt.Errorf("counting runs: %w", err)
	}
	return &st, nil
}

// nonEmpty maps "" to NULL so the column default applies.
func nonEmpty(ts string) any {
	if ts == "" {
		return sql.NullString{}
	}
	return ts
}
