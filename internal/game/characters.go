/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package game

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Character definitions take the form
//
//	define n = Character("Narrator")
//	define stranger = Character(_("???"))
//
// with optional translation wrapping around the display name.
var characterRe = regexp.MustCompile(`^define (\S+) = Character\(_?\(?"([^"]*)"\)?`)

// Character is one speaker defined by the scripts.
type Character struct {
	ID   string
	Name string
}

// DisplayName returns the human-readable name, falling back to the script
// identifier when the display name is empty or a mystery placeholder.
func (c Character) DisplayName() string {
	if c.Name == "" || c.Name == "???" {
		return c.ID
	}
	return c.Name
}

// ScanCharacters reads every script file and collects character definitions.
// Later definitions of the same identifier win, matching how the game engine
// itself redefines characters.
func ScanCharacters(files []string) (map[string]Character, error) {
	chars := make(map[string]Character)
	for _, path := range files {
		if err := scanFile(path, chars); err != nil {
			return nil, err
		}
	}
	return chars, nil
}

func scanFile(path string, chars map[string]Character) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimLeft(sc.Text(), " \t")
		if m := characterRe.FindStringSubmatch(line); m != nil {
			chars[m[1]] = Character{ID: m[1], Name: m[2]}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan script %s: %w", path, err)
	}
	return nil
}

// Speakers returns the sorted character identifiers, the set the dialogue
// classifier is built from.
func Speakers(chars map[string]Character) []string {
	ids := make([]string, 0, len(chars))
	for id := range chars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
