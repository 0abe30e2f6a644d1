package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

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

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
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

func (r *SQLiteRepository) CreateEvent(ctx context.Context, in model.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, title, start_at, start_unix, end_at, all_day, notes, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, mustTime(in.StartAt), in.StartAt.Unix(),
		nullTime(in.EndAt), boolInt(in.AllDay), in.Notes, in.Source,
	)
	return err
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, id string) (model.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, start_at, end_at, all_day, notes, source
		FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Event{}, ErrNotFound
		}
		return model.Event{}, err
	}
	return ev, nil
}

func (r *SQLiteRepository) UpsertEvent(ctx context.Context, in model.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, title, start_at, start_unix, end_at, all_day, notes, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			start_at = excluded.start_at,
			start_unix = excluded.start_unix,
			end_at = excluded.end_at,
			all_day = excluded.all_day,
			notes = excluded.notes,
			source = excluded.source`,
		in.ID, in.Title, mustTime(in.StartAt), in.StartAt.Unix(),
		nullTime(in.EndAt), boolInt(in.AllDay), in.Notes, in.Source,
	)
	return err
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, filter EventListFilter) ([]model.Event, error) {
	query := `SELECT id, title, start_at, end_at, all_day, notes, source FROM events`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.From != nil {
		clauses = append(clauses, "start_unix >= ?")
		args = append(args, filter.From.Unix())
	}
	if filter.To != nil {
		clauses = append(clauses, "start_unix < ?")
		args = append(args, filter.To.Unix())
	}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, filter.Source)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY start_unix ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Event, 0)
	for rows.Next() {
		ev, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateImport(ctx context.Context, in ImportRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO imports (id, course, item_count, imported_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Course, in.ItemCount, mustTime(in.ImportedAt),
	)
	return err
}

func (r *SQLiteRepository) ListImports(ctx context.Context, filter ImportListFilter) ([]ImportRecord, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, course, item_count, imported_at FROM imports ORDER BY imported_at DESC` +
		applyPagination(&args, filter.Limit, filter.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ImportRecord, 0)
	for rows.Next() {
		rec, scanErr := scanImport(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Event times are stored as RFC3339Nano text keeping their original offset,
// so an all-day event round-trips as midnight in its own zone. Range filters
// and ordering use the start_unix column instead of the text.

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.Format(sqliteTimeLayout)
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

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
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

func scanEvent(s scanner) (model.Event, error) {
	var out model.Event
	var start string
	var end sql.NullString
	var allDay int
	var source string
	if err := s.Scan(&out.ID, &out.Title, &start, &end, &allDay, &out.Notes, &source); err != nil {
		return model.Event{}, err
	}
	startAt, err := parseRequiredTime(start)
	if err != nil {
		return model.Event{}, err
	}
	endAt, err := parseNullableTime(end)
	if err != nil {
		return model.Event{}, err
	}
	out.StartAt = startAt
	out.EndAt = endAt
	out.AllDay = allDay == 1
	out.Source = model.Source(source)
	return out, nil
}

func scanImport(s scanner) (ImportRecord, error) {
	var out ImportRecord
	var imported string
	if err := s.Scan(&out.ID, &out.Course, &out.ItemCount, &imported); err != nil {
		return ImportRecord{}, err
	}
	importedAt, err := parseRequiredTime(imported)
	if err != nil {
		return ImportRecord{}, err
	}
	out.ImportedAt = importedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
