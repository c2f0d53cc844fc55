/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"renvox/internal/choices"
)

// Audit reconciles the synthesis output directory against a set of expected
// takes.
type Audit struct {
	Existing   []string // expected and present
	Missing    []string // expected but absent
	Unexpected []string // present but not expected (stale hashes)
}

// AuditOutputs compares the audio files under dir with the output paths of
// the given choices. A missing directory is an empty directory: everything
// expected is missing. Slices come back sorted.
func AuditOutputs(dir string, results []choices.Result) (*Audit, error) {
	expected := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Output != "" {
			expected[r.Output] = true
		}
	}

	present := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), choices.AudioExt) {
			continue
		}
		present[filepath.Join(dir, e.Name())] = true
	}

	a := &Audit{}
	for path := range expected {
		if present[path] {
			a.Existing = append(a.Existing, path)
		} else {
			a.Missing = append(a.Missing, path)
		}
	}
	for path := range present {
		if !expected[path] {
			a.Unexpected = append(a.Unexpected, path)
		}
	}
	sort.Strings(a.Existing)
	sort.Strings(a.Missing)
	sort.Strings(a.Unexpected)
	return a, nil
}

// RemoveUnexpected deletes stale takes found by an audit.
func (a *Audit) RemoveUnexpected() error {
	for _, path := range a.Unexpected {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}
