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

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
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

// Open opens the database at path and applies the up migrations.
func Open(path string) (*SQLiteRepository, error) {
	repo, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(repo.db); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (Setting, error) {
	if err := validateKey(key); err != nil {
		return Setting{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT key, value, updated_at
		FROM settings WHERE key = ?`, key)
	setting, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Setting{}, ErrNotFound
		}
		return Setting{}, err
	}
	return setting, nil
}

func (r *SQLiteRepository) PutSetting(ctx context.Context, in Setting) error {
	if err := validateKey(in.Key); err != nil {
		return err
	}
	updated := in.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		in.Key, in.Value, mustTime(updated),
	)
	return err
}

func (r *SQLiteRepository) DeleteSetting(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListSettings(ctx context.Context, filter SettingListFilter) ([]Setting, error) {
	query := `SELECT key, value, updated_at FROM settings`
	args := make([]any, 0, 3)
	if filter.Prefix != "" {
		query += ` WHERE key LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(filter.Prefix)+"%")
	}
	query += ` ORDER BY key ASC`
	query, args = withPagination(query, args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Setting, 0)
	for rows.Next() {
		setting, scanErr := scanSetting(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, setting)
	}
	return out, rows.Err()
}

func withPagination(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}
	return query, args
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func mustTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(value string) (time.Time, error) {
	parsed, err := time.Parse(sqliteTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return parsed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSetting(s scanner) (Setting, error) {
	var out Setting
	var updated string
	if err := s.Scan(&out.Key, &out.Value, &updated); err != nil {
		return Setting{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Setting{}, err
	}
	out.UpdatedAt = updatedAt
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
