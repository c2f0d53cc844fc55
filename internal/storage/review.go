/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"renvox/internal/choices"
	applog "renvox/internal/log"
	"log/slog"
)

// Take statuses. Every synthesized file starts pending and is approved or
// rejected by a reviewer; a regenerated file resets to pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ErrNoPending is returned when the review queue is empty.
var ErrNoPending = errors.New("no pending takes")

// Take is one synthesized audio file under review.
type Take struct {
	ID         int64
	ChoiceHash string
	FilePath   string
	FileHash   string
	Status     string
}

// ReviewItem joins a pending take with the choice it voices.
type ReviewItem struct {
	Take
	ChoiceText    string
	CleanText     string
	Path          string
	Label         string
	ContextBefore []choices.Context
	ContextAfter  []choices.Context
}

// Stats summarizes the review queue.
type Stats struct {
	Choices  int
	Takes    int
	Pending  int
	Approved int
	Rejected int
}

// ImportChoices upserts annotated, spoken choices keyed by their content
// hash. Re-importing after a script update refreshes context and provenance
// without touching review state.
func (s *Store) ImportChoices(ctx context.Context, results []choices.Result) error {
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO choices
		(choice_hash, choice_text, clean_text, path, current_label, context_before, context_after, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (choice_hash) DO UPDATE SET
			choice_text    = EXCLUDED.choice_text,
			clean_text     = EXCLUDED.clean_text,
			path           = EXCLUDED.path,
			current_label  = EXCLUDED.current_label,
			context_before = EXCLUDED.context_before,
			context_after  = EXCLUDED.context_after,
			updated_at     = EXCLUDED.updated_at`

	for _, r := range results {
		if !r.Spoken() {
			continue
		}
		before, err := json.Marshal(r.Previous)
		if err != nil {
			return fmt.Errorf("marshal context: %w", err)
		}
		after, err := json.Marshal(r.Subsequent)
		if err != nil {
			return fmt.Errorf("marshal context: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsert,
			r.Hash, r.Choice, r.Clean, r.Path, r.Label, string(before), string(after), now, now); err != nil {
			return fmt.Errorf("upsert choice %s: %w", r.Hash, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// ScanTakes walks the synthesis output directory and registers every audio
// file whose stem matches an imported choice hash. A file whose content
// changed since the last scan drops back to pending; files without a
// matching choice are logged and skipped.
func (s *Store) ScanTakes(ctx context.Context, dir string) error {
	l := applog.WithOperation(applog.WithComponent("storage"), "scan_takes").With(
		slog.String("dir", dir),
	)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read takes dir: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), choices.AudioExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		hash := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))

		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM choices WHERE choice_hash=$1`, hash).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			l.Warn("audio file without matching choice", slog.String("file", e.Name()))
			continue
		}
		if err != nil {
			return fmt.Errorf("look up choice %s: %w", hash, err)
		}

		fileHash, err := hashFile(path)
		if err != nil {
			return err
		}

		var id int64
		var storedHash string
		err = s.db.QueryRowContext(ctx,
			`SELECT id, file_hash FROM takes WHERE choice_hash=$1 AND file_path=$2`,
			hash, path).Scan(&id, &storedHash)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO takes (choice_hash, file_path, file_hash, status, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				hash, path, fileHash, StatusPending, now, now); err != nil {
				return fmt.Errorf("insert take: %w", err)
			}
		case err != nil:
			return fmt.Errorf("look up take: %w", err)
		case storedHash != fileHash:
			if _, err := s.db.ExecContext(ctx,
				`UPDATE takes SET file_hash=$1, status=$2, updated_at=$3 WHERE id=$4`,
				fileHash, StatusPending, now, id); err != nil {
				return fmt.Errorf("reset take: %w", err)
			}
		}
	}
	return nil
}

// SetTakeStatus records a review decision.
func (s *Store) SetTakeStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return fmt.Errorf("invalid status %q", status)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE takes SET status=$1, updated_at=$2 WHERE id=$3`, status, now, id)
	if err != nil {
		return fmt.Errorf("update take %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("take %d not found", id)
	}
	return nil
}

// NextPending returns the oldest pending take joined with its choice, or
// ErrNoPending when the queue is empty.
func (s *Store) NextPending(ctx context.Context) (*ReviewItem, error) {
	const q = `SELECT t.id, t.choice_hash, t.file_path, t.file_hash, t.status,
			c.choice_text, c.clean_text, c.path, c.current_label, c.context_before, c.context_after
		FROM takes t
		JOIN choices c ON c.choice_hash = t.choice_hash
		WHERE t.status = $1
		ORDER BY t.updated_at, t.id
		LIMIT 1`
	item, err := s.scanReviewItem(s.db.QueryRowContext(ctx, q, StatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPending
	}
	return item, err
}

// TakeByID returns one take with its choice context.
func (s *Store) TakeByID(ctx context.Context, id int64) (*ReviewItem, error) {
	const q = `SELECT t.id, t.choice_hash, t.file_path, t.file_hash, t.status,
			c.choice_text, c.clean_text, c.path, c.current_label, c.context_before, c.context_after
		FROM takes t
		JOIN choices c ON c.choice_hash = t.choice_hash
		WHERE t.id = $1`
	item, err := s.scanReviewItem(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("take %d not found", id)
	}
	return item, err
}

func (s *Store) scanReviewItem(row *sql.Row) (*ReviewItem, error) {
	var it ReviewItem
	var before, after string
	err := row.Scan(&it.ID, &it.ChoiceHash, &it.FilePath, &it.FileHash, &it.Status,
		&it.ChoiceText, &it.CleanText, &it.Path, &it.Label, &before, &after)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(before), &it.ContextBefore); err != nil {
		return nil, fmt.Errorf("decode context_before: %w", err)
	}
	if err := json.Unmarshal([]byte(after), &it.ContextAfter); err != nil {
		return nil, fmt.Errorf("decode context_after: %w", err)
	}
	return &it, nil
}

// ReviewStats counts choices and takes per status.
func (s *Store) ReviewStats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM choices`).Scan(&st.Choices); err != nil {
		return st, fmt.Errorf("count choices: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM takes GROUP BY status`)
	if err != nil {
		return st, fmt.Errorf("count takes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return st, fmt.Errorf("scan take count: %w", err)
		}
		st.Takes += n
		switch status {
		case StatusPending:
			st.Pending = n
		case StatusApproved:
			st.Approved = n
		case StatusRejected:
			st.Rejected = n
		}
	}
	return st, rows.Err()
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
