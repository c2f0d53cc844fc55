/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists extracted choices and the review state of their
// synthesized takes. SQLite is the default embedded backend; Postgres is
// available for shared review setups. Both speak the same SQL apart from a
// small dialect-specific DDL block.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "renvox/internal/log"
	"renvox/internal/version"
	"log/slog"

	// database/sql drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	// schemaVersion tracks the review database schema. Bump on breaking
	// changes and add a migration.
	schemaVersion = 1

	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

// Store wraps the review database.
type Store struct {
	db      *sql.DB
	dialect string
}

// OpenSQLite opens (creating if necessary) the embedded review database at
// path, enables WAL mode and ensures the schema exists.
func OpenSQLite(path string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create db dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	s := &Store{db: db, dialect: dialectSQLite}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("review db ready")
	return s, nil
}

// OpenPostgres connects to a shared review database.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open_pg")
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		l.Error("postgres ping failed", slog.Any("err", err))
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{db: db, dialect: dialectPostgres}
	if err := s.ensureSchema(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	l.Info("review db ready")
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema(ctx context.Context) error {
	takesID := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == dialectPostgres {
		takesID = "id BIGSERIAL PRIMARY KEY"
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS choices (
			choice_hash    TEXT PRIMARY KEY,
			choice_text    TEXT NOT NULL,
			clean_text     TEXT NOT NULL,
			path           TEXT NOT NULL,
			current_label  TEXT NOT NULL DEFAULT '',
			context_before TEXT NOT NULL DEFAULT '[]',
			context_after  TEXT NOT NULL DEFAULT '[]',
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_choices_path ON choices(path);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS takes (
			%s,
			choice_hash TEXT NOT NULL REFERENCES choices(choice_hash),
			file_path   TEXT NOT NULL,
			file_hash   TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'pending',
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`, takesID),
		`CREATE INDEX IF NOT EXISTS idx_takes_choice ON takes(choice_hash);`,
		`CREATE INDEX IF NOT EXISTS idx_takes_status ON takes(status);`,
	}
	for _, q := range ddl {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return s.seedVersion(ctx)
}

func (s *Store) seedVersion(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()

	var curSchema int
	err := s.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, $1, $2, $3, $4)`,
			schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if curSchema > schemaVersion {
			return fmt.Errorf("database schema %d is newer than supported %d", curSchema, schemaVersion)
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE version SET app=$1, updated_at=$2 WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// SchemaVersion reads the stored schema number.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
