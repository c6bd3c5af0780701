package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed-width so lexical order in sqlite matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path and applies the embedded migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) RecordBreak(ctx context.Context, in Break) error {
	if strings.TrimSpace(in.ID) == "" {
		in.ID = NewID()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO breaks (id, started_at, ended_at, countdown, outcome, eye_color, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, mustTime(in.StartedAt), mustTime(in.EndedAt), in.Countdown, in.Outcome, in.EyeColor, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetBreak(ctx context.Context, id string) (Break, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, started_at, ended_at, countdown, outcome, eye_color, created_at
		FROM breaks WHERE id = ?`, id)
	out, err := scanBreak(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Break{}, ErrNotFound
		}
		return Break{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) ListBreaks(ctx context.Context, filter BreakListFilter) ([]Break, error) {
	query := `SELECT id, started_at, ended_at, countdown, outcome, eye_color, created_at FROM breaks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, mustTime(*filter.Since))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY ended_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Break, 0)
	for rows.Next() {
		b, scanErr := scanBreak(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) BreakStats(ctx context.Context, since time.Time) (BreakStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*), MAX(ended_at)
		FROM breaks WHERE ended_at >= ?
		GROUP BY outcome`, mustTime(since))
	if err != nil {
		return BreakStats{}, err
	}
	defer rows.Close()

	var stats BreakStats
	for rows.Next() {
		var (
			outcome string
			count   int
			last    sql.NullString
		)
		if err := rows.Scan(&outcome, &count, &last); err != nil {
			return BreakStats{}, err
		}
		switch outcome {
		case "completed":
			stats.Completed = count
		case "cancelled":
			stats.Cancelled = count
		}
		lastAt, err := parseNullableTime(last)
		if err != nil {
			return BreakStats{}, err
		}
		if lastAt != nil && (stats.LastEnded == nil || lastAt.After(*stats.LastEnded)) {
			stats.LastEnded = lastAt
		}
	}
	return stats, rows.Err()
}

func (r *SQLiteRepository) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM breaks WHERE ended_at < ?`, mustTime(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBreak(s scanner) (Break, error) {
	var out Break
	var started, ended, created string
	if err := s.Scan(&out.ID, &started, &ended, &out.Countdown, &out.Outcome, &out.EyeColor, &created); err != nil {
		return Break{}, err
	}
	startedAt, err := parseRequiredTime(started)
	if err != nil {
		return Break{}, err
	}
	endedAt, err := parseRequiredTime(ended)
	if err != nil {
		return Break{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Break{}, err
	}
	out.StartedAt = startedAt
	out.EndedAt = endedAt
	out.CreatedAt = createdAt
	return out, nil
}
