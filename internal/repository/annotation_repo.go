package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/pipeline"
	"telephony-insights-go/internal/types"
)

// AnnotationRow is one annotator's verdict on one item. Error is set
// instead of the result fields when the annotator failed.
type AnnotationRow struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	ItemID      string    `json:"item_id"`
	Annotator   string    `json:"annotator"`
	Kind        string    `json:"kind,omitempty"`
	Label       string    `json:"label,omitempty"`
	Score       float64   `json:"score"`
	SummaryText string    `json:"summary_text,omitempty"`
	Error       string    `json:"error,omitempty"`
	AnnotatedAt time.Time `json:"annotated_at"`
}

type Run struct {
	ID        string    `json:"id"`
	Items     int       `json:"items"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}

type AnnotationRepository struct {
	db  *sql.DB
	log *logger.Logger
}

func NewAnnotationRepository(dbPath string, log *logger.Logger) (*AnnotationRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	repo := &AnnotationRepository{db: db, log: log.Component("repository")}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	repo.log.WithField("db_path", dbPath).Info("annotation repository initialized")
	return repo, nil
}

func (r *AnnotationRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		items INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS annotations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		item_id TEXT NOT NULL,
		annotator TEXT NOT NULL,
		kind TEXT,
		label TEXT,
		score REAL,
		summary_text TEXT,
		error TEXT,
		annotated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_annotations_run ON annotations(run_id);
	CREATE INDEX IF NOT EXISTS idx_annotations_label ON annotations(annotator, label);
	`
	_, err := r.db.Exec(schema)
	return err
}

// SaveRun stores a whole batch in one transaction and returns its run id.
func (r *AnnotationRepository) SaveRun(outcomes []pipeline.ItemOutcome) (string, error) {
	runID := uuid.New().String()
	now := time.Now().UTC()

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	if _, err := tx.Exec(`INSERT INTO runs (id, items, failed, created_at) VALUES (?, ?, ?, ?)`,
		runID, len(outcomes), failed, now); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO annotations (
			run_id, item_id, annotator, kind, label, score, summary_text, error, annotated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		for _, name := range sortedKeys(o.Results) {
			res := o.Results[name]
			if _, err := stmt.Exec(runID, o.ID, name, string(res.Kind), res.Label, res.Score, res.SummaryText, "", now); err != nil {
				return "", fmt.Errorf("failed to save annotation: %w", err)
			}
		}
		for _, name := range sortedKeys(o.Errors) {
			if _, err := stmt.Exec(runID, o.ID, name, "", "", 0.0, "", o.Errors[name], now); err != nil {
				return "", fmt.Errorf("failed to save annotation error: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	r.log.WithField("run_id", runID).WithField("items", len(outcomes)).WithField("failed", failed).Info("annotation run saved")
	return runID, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *AnnotationRepository) GetRun(runID string) (*Run, error) {
	run := &Run{}
	err := r.db.QueryRow(`SELECT id, items, failed, created_at FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Items, &run.Failed, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListByRun returns a run's rows ordered by item then annotator.
func (r *AnnotationRepository) ListByRun(runID string) ([]AnnotationRow, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, item_id, annotator, kind, label, score, summary_text, error, annotated_at
		FROM annotations
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	var out []AnnotationRow
	for rows.Next() {
		var a AnnotationRow
		if err := rows.Scan(&a.ID, &a.RunID, &a.ItemID, &a.Annotator, &a.Kind, &a.Label,
			&a.Score, &a.SummaryText, &a.Error, &a.AnnotatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Result converts a stored row back to the annotation it came from.
func (a AnnotationRow) Result() (types.AnnotationResult, bool) {
	if a.Error != "" {
		return types.AnnotationResult{}, false
	}
	return types.AnnotationResult{
		Kind:        types.AnnotationKind(a.Kind),
		Label:       a.Label,
		Score:       a.Score,
		SummaryText: a.SummaryText,
	}, true
}

// LabelCounts returns annotator -> label -> count across all runs.
func (r *AnnotationRepository) LabelCounts() (map[string]map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT annotator, label, COUNT(*)
		FROM annotations
		WHERE error = '' AND label != ''
		GROUP BY annotator, label
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query label counts: %w", err)
	}
	defer rows.Close()

	out := map[string]map[string]int{}
	for rows.Next() {
		var annotator, label string
		var n int
		if err := rows.Scan(&annotator, &label, &n); err != nil {
			return nil, fmt.Errorf("failed to scan label count: %w", err)
		}
		if out[annotator] == nil {
			out[annotator] = map[string]int{}
		}
		out[annotator][label] = n
	}
	return out, rows.Err()
}

func (r *AnnotationRepository) Close() error {
	return r.db.Close()
}
