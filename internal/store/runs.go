package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// Delivery statuses for a run record.
const (
	StatusPending          = "pending"
	StatusSent             = "sent"
	StatusSkippedDuplicate = "skipped_duplicate"
	StatusFailed           = "failed"
	StatusNotDelivered     = "not_delivered"
)

// RunRecord is one prompt execution: what was asked, what came back,
// and whether it went out.
type RunRecord struct {
	ID               int64
	PromptName       string
	Fingerprint      string
	Model            string
	ResponseText     string
	DeliveryStatus   string
	DeliveryDetail   string
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
}

// Fingerprint computes the content identity of a rendered prompt.
// Two runs with the same rendered text share a fingerprint regardless
// of when they executed.
func Fingerprint(renderedPrompt string) string {
	sum := sha256.Sum256([]byte(renderedPrompt))
	return hex.EncodeToString(sum[:])
}

// Record inserts a new run and returns it with ID and CreatedAt set.
func (s *Store) Record(ctx context.Context, rec *RunRecord) (*RunRecord, error) {
	if rec == nil {
		return nil, &StoreError{Op: "record", Err: fmt.Errorf("nil record")}
	}
	if rec.PromptName == "" || rec.Fingerprint == "" {
		return nil, &StoreError{Op: "record", Err: fmt.Errorf("prompt name and fingerprint are required")}
	}
	if rec.DeliveryStatus == "" {
		rec.DeliveryStatus = StatusPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO runs (prompt_name, fingerprint, model, response_text, delivery_status, delivery_detail, prompt_tokens, completion_tokens, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PromptName, rec.Fingerprint, rec.Model, rec.ResponseText,
		rec.DeliveryStatus, rec.DeliveryDetail,
		rec.PromptTokens, rec.CompletionTokens,
		rec.CreatedAt.Unix())
	if err != nil {
		return nil, &StoreError{Op: "record", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, &StoreError{Op: "record", Err: err}
	}
	rec.ID = id
	return rec, nil
}

// FindByFingerprint returns the newest run with the given fingerprint,
// or (nil, nil) when no run matches.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, prompt_name, fingerprint, model, response_text, delivery_status, delivery_detail, prompt_tokens, completion_tokens, created_at
FROM runs
WHERE fingerprint = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`, fingerprint)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	return rec, nil
}

// FindDeliveredByFingerprint returns the newest run with the given
// fingerprint that actually went out (status "sent"), or (nil, nil) when
// no such run exists. Later runs of the same content carry
// skipped_duplicate or failed statuses, so duplicate detection must not
// stop at the newest match of any status.
func (s *Store) FindDeliveredByFingerprint(ctx context.Context, fingerprint string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, prompt_name, fingerprint, model, response_text, delivery_status, delivery_detail, prompt_tokens, completion_tokens, created_at
FROM runs
WHERE fingerprint = ? AND delivery_status = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`, fingerprint, StatusSent)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	return rec, nil
}

// RecordDeliveryOutcome updates the delivery status and detail of a run.
func (s *Store) RecordDeliveryOutcome(ctx context.Context, id int64, status, detail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET delivery_status = ?, delivery_detail = ? WHERE id = ?`,
		status, detail, id)
	if err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	if n == 0 {
		return &StoreError{Op: "update", Err: fmt.Errorf("run %d not found", id)}
	}
	return nil
}

// History returns runs newest first, optionally filtered by prompt name.
// limit <= 0 means no limit.
func (s *Store) History(ctx context.Context, promptName string, limit int) ([]*RunRecord, error) {
	query := `
SELECT id, prompt_name, fingerprint, model, response_text, delivery_status, delivery_detail, prompt_tokens, completion_tokens, created_at
FROM runs`
	args := []interface{}{}
	if promptName != "" {
		query += ` WHERE prompt_name = ?`
		args = append(args, promptName)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StoreError{Op: "history", Err: err}
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, &StoreError{Op: "history", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "history", Err: err}
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var createdAt int64
	err := row.Scan(&rec.ID, &rec.PromptName, &rec.Fingerprint, &rec.Model,
		&rec.ResponseText, &rec.DeliveryStatus, &rec.DeliveryDetail,
		&rec.PromptTokens, &rec.CompletionTokens, &createdAt)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}
