/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package game locates a visual-novel installation on disk: its script
// corpus and the character roster defined in those scripts.
package game

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// WalkScriptFiles returns every script file under root with the given
// extension (e.g. ".rpy"), sorted lexically so corpus-wide processing is
// deterministic across runs and platforms.
func WalkScriptFiles(root, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk scripts under %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
