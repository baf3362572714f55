package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

const (
	bundlesTable = "insight_bundles"
	runsTable    = "pipeline_runs"
	markerRowID  = 1
)

const schema = `
CREATE TABLE IF NOT EXISTS insight_bundles (
    date       TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS pipeline_runs (
    id             INTEGER PRIMARY KEY,
    last_execution TEXT NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists bundles as JSONB rows keyed by date.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.InsightStore = (*PostgresStore)(nil)

// OpenPostgres connects with lib/pq and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables if they are missing.
func (r *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate insight store: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *PostgresStore) Close() error {
	return r.db.Close()
}

// Save upserts the bundle for its date; the previous payload is replaced.
func (r *PostgresStore) Save(ctx context.Context, bundle domain.InsightBundle) error {
	query, args, err := saveBundleQuery(bundle)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert bundle %s: %w", bundle.Date, err)
	}
	return nil
}

// Load returns domain.ErrNotFound when no row exists for the date.
func (r *PostgresStore) Load(ctx context.Context, date string) (domain.InsightBundle, error) {
	query, args, err := loadBundleQuery(date)
	if err != nil {
		return domain.InsightBundle{}, err
	}

	var payload []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InsightBundle{}, fmt.Errorf("bundle %s: %w", date, domain.ErrNotFound)
	}
	if err != nil {
		return domain.InsightBundle{}, fmt.Errorf("query bundle %s: %w", date, err)
	}

	var bundle domain.InsightBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return domain.InsightBundle{}, fmt.Errorf("decode bundle %s: %w", date, err)
	}
	return bundle, nil
}

// ListDates returns stored keys ordered ascending.
func (r *PostgresStore) ListDates(ctx context.Context) ([]string, error) {
	query, args, err := listDatesQuery()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}

	dates := []string{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, date)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return dates, nil
}

// MarkRun upserts the singleton marker row.
func (r *PostgresStore) MarkRun(ctx context.Context, date string) error {
	query, args, err := markRunQuery(date)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert marker: %w", err)
	}
	return nil
}

// LastRun reports false when the marker row does not exist.
func (r *PostgresStore) LastRun(ctx context.Context) (string, bool, error) {
	query, args, err := psql.Select("last_execution").
		From(runsTable).
		Where(sq.Eq{"id": markerRowID}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build marker query: %w", err)
	}

	var date string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query marker: %w", err)
	}
	return date, true, nil
}

func saveBundleQuery(bundle domain.InsightBundle) (string, []interface{}, error) {
	if _, err := domain.ParseDate(bundle.Date); err != nil {
		return "", nil, err
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		return "", nil, fmt.Errorf("marshal bundle %s: %w", bundle.Date, err)
	}

	query, args, err := psql.Insert(bundlesTable).
		Columns("date", "payload").
		Values(bundle.Date, payload).
		Suffix("ON CONFLICT (date) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build save query: %w", err)
	}
	return query, args, nil
}

func loadBundleQuery(date string) (string, []interface{}, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return "", nil, err
	}
	query, args, err := psql.Select("payload").
		From(bundlesTable).
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build load query: %w", err)
	}
	return query, args, nil
}

func listDatesQuery() (string, []interface{}, error) {
	query, args, err := psql.Select("date").
		From(bundlesTable).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build list query: %w", err)
	}
	return query, args, nil
}

func markRunQuery(date string) (string, []interface{}, error) {
	query, args, err := psql.Insert(runsTable).
		Columns("id", "last_execution").
		Values(markerRowID, date).
		Suffix("ON CONFLICT (id) DO UPDATE SET last_execution = EXCLUDED.last_execution, updated_at = NOW()").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build marker query: %w", err)
	}
	return query, args, nil
}
