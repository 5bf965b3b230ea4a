package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/ports"
)

const runsTable = "runs"

var runColumns = []string{
	"id", "url", "title", "success", "error_type", "error_message",
	"elapsed_ms", "iteration_count", "chunks_processed", "quality_score",
	"chapter_count", "created_at",
}

var schema = []string{`CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	url              TEXT NOT NULL,
	title            TEXT NOT NULL DEFAULT '',
	success          INTEGER NOT NULL,
	error_type       TEXT NOT NULL DEFAULT '',
	error_message    TEXT NOT NULL DEFAULT '',
	elapsed_ms       INTEGER NOT NULL,
	iteration_count  INTEGER NOT NULL,
	chunks_processed INTEGER NOT NULL,
	quality_score    REAL,
	chapter_count    INTEGER NOT NULL,
	created_at       INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at DESC)`,
}

// SQLiteRepository persists finished runs into a local SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*SQLiteRepository)(nil)

// Open opens path with WAL and a busy timeout applied to every pooled connection.
func Open(path string, busyTimeout time.Duration) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// NewSQLiteRepository wires a sql.DB implementation.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Migrate creates the runs table when missing.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate runs: %w", err)
		}
	}
	return nil
}

// SaveRun upserts the run snapshot by id.
func (r *SQLiteRepository) SaveRun(ctx context.Context, record domain.RunRecord) error {
	if r.db == nil {
		return nil
	}

	var score sql.NullFloat64
	if record.QualityScore != nil {
		score = sql.NullFloat64{Float64: *record.QualityScore, Valid: true}
	}

	query, args, err := r.builder.
		Insert(runsTable).
		Columns(runColumns...).
		Values(
			record.ID,
			record.URL,
			record.Title,
			record.Success,
			string(record.ErrorType),
			record.ErrorMessage,
			record.Elapsed.Milliseconds(),
			record.IterationCount,
			record.ChunksProcessed,
			score,
			record.ChapterCount,
			record.CreatedAt.UnixMilli(),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			success = excluded.success,
			error_type = excluded.error_type,
			error_message = excluded.error_message,
			elapsed_ms = excluded.elapsed_ms,
			iteration_count = excluded.iteration_count,
			chunks_processed = excluded.chunks_processed,
			quality_score = excluded.quality_score,
			chapter_count = excluded.chapter_count,
			created_at = excluded.created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRepository) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.builder.
		Select(runColumns...).
		From(runsTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var records []domain.RunRecord
	for rows.Next() {
		var (
			rec       domain.RunRecord
			errorType string
			elapsedMS int64
			score     sql.NullFloat64
			createdAt int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.URL, &rec.Title, &rec.Success, &errorType, &rec.ErrorMessage,
			&elapsedMS, &rec.IterationCount, &rec.ChunksProcessed, &score,
			&rec.ChapterCount, &createdAt,
		); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.ErrorType = domain.ErrorType(errorType)
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()
		if score.Valid {
			v := score.Float64
			rec.QualityScore = &v
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return records, nil
}
