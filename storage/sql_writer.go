package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"hygiene-analyzer/models"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// storedTimeLayout is fixed width so generated_at sorts correctly as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunSummary is one stored row of analysis_runs.
type RunSummary struct {
	ID                   string
	GeneratedAt          time.Time
	Sources              []string
	TotalBusinesses      int
	AverageRating        models.Average
	MostImproved         string
	MostImprovedIncrease int
}

// SQLStore persists run summaries and per-authority insights to
// PostgreSQL or SQLite.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLStore connects, waits for the database to answer and migrates
// the schema. For sqlite the dsn is a file path.
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("sqlite: create db dir: %w", err)
		}
		dsn += "?mode=rwc"
	default:
		return nil, fmt.Errorf("sql: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil || driver == DriverSQLite || ctx.Err() != nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping failed after retries: %w", driver, err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", driver, err)
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	ts := "TIMESTAMPTZ"
	if s.driver == DriverSQLite {
		ts = "TEXT"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                     TEXT PRIMARY KEY,
			generated_at           ` + ts + ` NOT NULL,
			sources                TEXT NOT NULL DEFAULT '',
			total_businesses       INTEGER NOT NULL,
			average_rating         DOUBLE PRECISION,
			most_improved          TEXT NOT NULL DEFAULT '',
			most_improved_increase INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS authority_insights (
			run_id               TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			authority            TEXT NOT NULL,
			average_rating       DOUBLE PRECISION,
			total_businesses     INTEGER NOT NULL,
			five_star_percentage DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, authority)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_generated_at ON analysis_runs(generated_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveRun stores the run header and its authority rows in one transaction.
func (s *SQLStore) SaveRun(ctx context.Context, run *models.Run) (err error) {
	if run == nil || run.Report == nil {
		return errors.New("sql: nothing to save")
	}
	r := run.Report

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", s.driver, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var increase sql.NullInt64
	if r.MostImprovedAuthority.HasData() {
		increase = sql.NullInt64{Int64: int64(r.MostImprovedAuthority.IncreaseInFiveStarCount), Valid: true}
	}
	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO analysis_runs
			(id, generated_at, sources, total_businesses, average_rating, most_improved, most_improved_increase)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.GeneratedAt.UTC().Format(storedTimeLayout), strings.Join(run.Sources, "\n"),
		r.TotalBusinesses, nullAverage(r.AverageRating), r.MostImprovedAuthority.Name, increase,
	)
	if err != nil {
		return fmt.Errorf("%s: insert run: %w", s.driver, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO authority_insights
			(run_id, authority, average_rating, total_businesses, five_star_percentage)
		VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("%s: prepare insight insert: %w", s.driver, err)
	}
	defer stmt.Close()

	for _, in := range r.AuthorityInsights {
		if _, err = stmt.ExecContext(ctx, run.ID, in.Authority, nullAverage(in.AverageRating),
			in.TotalBusinesses, in.FiveStarPercentage); err != nil {
			return fmt.Errorf("%s: insert insight %q: %w", s.driver, in.Authority, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", s.driver, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, generated_at, sources, total_businesses, average_rating, most_improved, most_improved_increase
		FROM analysis_runs
		ORDER BY generated_at DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("%s: list runs: %w", s.driver, err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			rs        RunSummary
			generated string
			sources   string
			avg       sql.NullFloat64
			increase  sql.NullInt64
		)
		if err := rows.Scan(&rs.ID, &generated, &sources, &rs.TotalBusinesses, &avg,
			&rs.MostImproved, &increase); err != nil {
			return nil, fmt.Errorf("%s: scan run: %w", s.driver, err)
		}
		if rs.GeneratedAt, err = time.Parse(time.RFC3339Nano, generated); err != nil {
			return nil, fmt.Errorf("%s: parse generated_at %q: %w", s.driver, generated, err)
		}
		if sources != "" {
			rs.Sources = strings.Split(sources, "\n")
		}
		rs.AverageRating = averageOf(avg)
		rs.MostImprovedIncrease = models.NoIncrease
		if increase.Valid {
			rs.MostImprovedIncrease = int(increase.Int64)
		}
		runs = append(runs, rs)
	}
	return runs, rows.Err()
}

// LoadInsights returns the stored authority rows of one run in authority order.
func (s *SQLStore) LoadInsights(ctx context.Context, runID string) ([]models.AuthorityInsight, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT authority, average_rating, total_businesses, five_star_percentage
		FROM authority_insights
		WHERE run_id = ?
		ORDER BY authority`), runID)
	if err != nil {
		return nil, fmt.Errorf("%s: load insights: %w", s.driver, err)
	}
	defer rows.Close()

	var out []models.AuthorityInsight
	for rows.Next() {
		var (
			in  models.AuthorityInsight
			avg sql.NullFloat64
		)
		if err := rows.Scan(&in.Authority, &avg, &in.TotalBusinesses, &in.FiveStarPercentage); err != nil {
			return nil, fmt.Errorf("%s: scan insight: %w", s.driver, err)
		}
		in.AverageRating = averageOf(avg)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullAverage(a models.Average) sql.NullFloat64 {
	return sql.NullFloat64{Float64: float64(a), Valid: a.Valid()}
}

func averageOf(v sql.NullFloat64) models.Average {
	if !v.Valid {
		return models.NoAverage
	}
	return models.Average(v.Float64)
}
