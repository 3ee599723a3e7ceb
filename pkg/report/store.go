package report

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS benchmark_runs (
	run_id     TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS database_results (
	run_id           TEXT NOT NULL REFERENCES benchmark_runs(run_id),
	database_name    TEXT NOT NULL,
	ingestion_rate   REAL NOT NULL,
	query_latency_ms REAL NOT NULL,
	storage_bytes    INTEGER NOT NULL,
	index_efficiency REAL NOT NULL,
	ingestion_score  REAL NOT NULL,
	query_score      REAL NOT NULL,
	storage_score    REAL NOT NULL,
	index_score      REAL NOT NULL,
	security_score   REAL NOT NULL,
	overall          REAL NOT NULL,
	rank             INTEGER NOT NULL,
	PRIMARY KEY (run_id, database_name)
);
CREATE TABLE IF NOT EXISTS comparisons (
	run_id     TEXT NOT NULL REFERENCES benchmark_runs(run_id),
	winner     TEXT NOT NULL,
	runner_up  TEXT,
	margin     REAL NOT NULL,
	PRIMARY KEY (run_id)
);`

// Store keeps the scored results of past runs in a local SQLite file so
// successive benchmark runs can be compared over time.
type Store struct {
	db *sqlx.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open results store %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "cannot initialize results store")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a scored run. The winner margin is the overall score gap
// between the first and second ranked databases.
func (s *Store) SaveRun(runID string, results []ScoredResult) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO benchmark_runs (run_id, created_at) VALUES (?, ?)",
		runID, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "cannot record run %s", runID)
	}

	for _, r := range results {
		if _, err := tx.Exec(`INSERT INTO database_results
			(run_id, database_name, ingestion_rate, query_latency_ms, storage_bytes, index_efficiency,
			 ingestion_score, query_score, storage_score, index_score, security_score, overall, rank)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Database,
			r.Metrics.IngestionRate, r.Metrics.QueryLatencyMs, r.Metrics.StorageBytes, r.Metrics.IndexEfficiency,
			r.IngestionScore, r.QueryScore, r.StorageScore, r.IndexScore, r.SecurityScore,
			r.Overall, r.Rank); err != nil {
			return errors.Wrapf(err, "cannot record result for %s", r.Database)
		}
	}

	if len(results) > 0 {
		winner := results[0]
		runnerUp := ""
		margin := winner.Overall
		if len(results) > 1 {
			runnerUp = results[1].Database
			margin = winner.Overall - results[1].Overall
		}
		if _, err := tx.Exec("INSERT INTO comparisons (run_id, winner, runner_up, margin) VALUES (?, ?, ?, ?)",
			runID, winner.Database, runnerUp, margin); err != nil {
			return errors.Wrap(err, "cannot record comparison")
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run history.
type RunSummary struct {
	RunID     string    `db:"run_id"`
	CreatedAt time.Time `db:"created_at"`
	Winner    string    `db:"winner"`
	Margin    float64   `db:"margin"`
}

// History returns the most recent runs, newest first.
func (s *Store) History(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := s.db.Select(&runs, `SELECT r.run_id, r.created_at, c.winner, c.margin
		FROM benchmark_runs r JOIN comparisons c ON c.run_id = r.run_id
		ORDER BY r.created_at DESC LIMIT ?`, limit)
	return runs, errors.Wrap(err, "cannot read run history")
}

// Prune deletes all but the newest keep runs.
func (s *Store) Prune(keep int) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM benchmark_runs WHERE run_id NOT IN
		(SELECT run_id FROM benchmark_runs ORDER BY created_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, errors.Wrap(err, "cannot prune runs")
	}
	if _, err := s.db.Exec("DELETE FROM database_results WHERE run_id NOT IN (SELECT run_id FROM benchmark_runs)"); err != nil {
		return 0, errors.Wrap(err, "cannot prune results")
	}
	if _, err := s.db.Exec("DELETE FROM comparisons WHERE run_id NOT IN (SELECT run_id FROM benchmark_runs)"); err != nil {
		return 0, errors.Wrap(err, "cannot prune comparisons")
	}
	return res.RowsAffected()
}
