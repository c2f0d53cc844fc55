/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package game

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWalkScriptFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b", "scene2.rpy"), "label b:\n")
	writeFile(t, filepath.Join(dir, "a", "scene1.rpy"), "label a:\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a script\n")
	writeFile(t, filepath.Join(dir, "upper.RPY"), "label c:\n")

	files, err := WalkScriptFiles(dir, ".rpy")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a", "scene1.rpy"),
		filepath.Join(dir, "b", "scene2.rpy"),
		filepath.Join(dir, "upper.RPY"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestWalkScriptFilesMissingRoot(t *testing.T) {
	if _, err := WalkScriptFiles(filepath.Join(t.TempDir(), "nope"), ".rpy"); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestScanCharacters(t *testing.T) {
	dir := t.TempDir()
	script := `define n = Character("Narrator")
    define stranger = Character(_("???"))
define hero = Character("")
define hero = Character("The Hero")
label start:
    n "Hello"
`
	writeFile(t, filepath.Join(dir, "defs.rpy"), script)

	files, err := WalkScriptFiles(dir, ".rpy")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	chars, err := ScanCharacters(files)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(chars) != 3 {
		t.Fatalf("expected 3 characters, got %d: %v", len(chars), chars)
	}
	if chars["n"].Name != "Narrator" {
		t.Fatalf("narrator wrong: %+v", chars["n"])
	}
	// indented defines still count
	if chars["stranger"].Name != "???" {
		t.Fatalf("translated define wrong: %+v", chars["stranger"])
	}
	// last definition wins
	if chars["hero"].Name != "The Hero" {
		t.Fatalf("redefinition not applied: %+v", chars["hero"])
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		c    Character
		want string
	}{
		{Character{ID: "n", Name: "Narrator"}, "Narrator"},
		{Character{ID: "stranger", Name: "???"}, "stranger"},
		{Character{ID: "voice", Name: ""}, "voice"},
	}
	for _, tc := range cases {
		if got := tc.c.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName(%+v) = %q, want %q", tc.c, got, tc.want)
		}
	}
}

func TestSpeakersSorted(t *testing.T) {
	chars := map[string]Character{
		"z": {ID: "z"},
		"a": {ID: "a"},
		"m": {ID: "m"},
	}
	if got := Speakers(chars); !reflect.DeepEqual(got, []string{"a", "m", "z"}) {
		t.Fatalf("speakers = %v", got)
	}
}
