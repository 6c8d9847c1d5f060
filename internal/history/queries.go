package history

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/wisp/internal/errors"
)

// Statuses that count as failed for the --failed filter. Matches the
// runner's status strings.
const (
	statusFailedNonZero = "failed_nonzero"
	statusFailedToStart = "failed_to_start"
)

// List limits.
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// Record is one audited round. Command and the outcome fields are nil when
// the round never reached that stage (prose-only responses are not recorded
// at all; a skipped command has no status).
type Record struct {
	ID         string  `json:"id"`
	CreatedAt  int64   `json:"created_at"`
	Mode       string  `json:"mode"`
	Model      string  `json:"model"`
	Prompt     string  `json:"prompt"`
	Command    *string `json:"command,omitempty"`
	Decision   *string `json:"decision,omitempty"`
	Status     *string `json:"status,omitempty"`
	ExitCode   *int    `json:"exit_code,omitempty"`
	DurationMs *int64  `json:"duration_ms,omitempty"`
}

// Insert stores a new round record.
func Insert(db *sql.DB, r *Record) error {
	query := `
		INSERT INTO rounds (
			id, created_at, mode, model, prompt,
			command, decision, status, exit_code, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query,
		r.ID, r.CreatedAt, r.Mode, r.Model, r.Prompt,
		toNullString(r.Command), toNullString(r.Decision), toNullString(r.Status),
		toNullInt(r.ExitCode), toNullInt64(r.DurationMs),
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// List returns the most recent records, newest first. When failedOnly is
// set, only rounds whose command failed are returned.
func List(db *sql.DB, limit int, failedOnly bool) ([]Record, error) {
	limit = clampLimit(limit)

	query := `
		SELECT id, created_at, mode, model, prompt,
			command, decision, status, exit_code, duration_ms
		FROM rounds
	`
	args := []any{}
	if failedOnly {
		query += " WHERE status IN (?, ?)"
		args = append(args, statusFailedNonZero, statusFailedToStart)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	return queryRecords(db, query, args...)
}

// Search returns records whose prompt or command contains term,
// case-insensitive, newest first.
func Search(db *sql.DB, term string, limit int) ([]Record, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.NewInvalidInput("search term is required")
	}
	limit = clampLimit(limit)

	pattern := "%" + escapeLike(term) + "%"
	query := `
		SELECT id, created_at, mode, model, prompt,
			command, decision, status, exit_code, duration_ms
		FROM rounds
		WHERE prompt LIKE ? ESCAPE '\' OR command LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC LIMIT ?
	`
	return queryRecords(db, query, pattern, pattern, limit)
}

// Purge hard-deletes records older than the given number of days and
// returns how many were removed. olderThanDays of 0 deletes everything.
func Purge(db *sql.DB, olderThanDays int) (int64, error) {
	if olderThanDays < 0 {
		return 0, errors.NewInvalidInput("older-than days cannot be negative")
	}
	query := "DELETE FROM rounds"
	args := []any{}
	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays).Unix()
		query += " WHERE created_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

func queryRecords(db *sql.DB, query string, args ...any) ([]Record, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			r          Record
			command    sql.NullString
			decision   sql.NullString
			status     sql.NullString
			exitCode   sql.NullInt64
			durationMs sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Mode, &r.Model, &r.Prompt,
			&command, &decision, &status, &exitCode, &durationMs); err != nil {
			return nil, errors.NewInternal(err)
		}
		r.Command = fromNullString(command)
		r.Decision = fromNullString(decision)
		r.Status = fromNullString(status)
		if exitCode.Valid {
			code := int(exitCode.Int64)
			r.ExitCode = &code
		}
		if durationMs.Valid {
			ms := durationMs.Int64
			r.DurationMs = &ms
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func toNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
