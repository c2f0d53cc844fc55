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
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "review.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	s := openTestStore(t)
	v, err := s.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != schemaVersion {
		t.Fatalf("schema = %d, want %d", v, schemaVersion)
	}
}

func TestOpenSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.sqlite")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.SchemaVersion(context.Background()); err != nil {
		t.Fatalf("schema after reopen: %v", err)
	}
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
