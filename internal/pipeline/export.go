/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"renvox/internal/choices"
	"renvox/internal/version"
)

// Export is the serialized form of a corpus run, consumed by the review
// tooling and external integrations.
type Export struct {
	App         string           `json:"app"`
	GeneratedAt string           `json:"generated_at"`
	Count       int              `json:"count"`
	Summary     Summary          `json:"summary"`
	Choices     []choices.Result `json:"choices"`
}

// ExportJSON writes the run result to path as indented JSON, via temp file
// and rename so readers never observe a partial export.
func ExportJSON(path string, res *Result) error {
	exp := Export{
		App:         version.String(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Count:       len(res.Choices),
		Summary:     res.Summary,
		Choices:     res.Choices,
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp export: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}

// WriteReport prints a human-readable run summary.
func WriteReport(w io.Writer, s Summary) error {
	fmt.Fprintf(w, "files processed: %d (%d ok, %d failed)\n", s.Files, s.FilesOK, s.FilesFailed)
	fmt.Fprintf(w, "choices found:   %d (%d spoken after dedup)\n", s.Choices, s.Spoken)
	fmt.Fprintf(w, "orphan voices:   %d\n", s.OrphanVoices)
	for _, f := range s.Failures {
		fmt.Fprintf(w, "failed: %s: %s\n", f.Path, f.Err)
	}
	return nil
}
