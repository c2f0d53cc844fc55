/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package choices

import "testing"

func TestCleanForVoice(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text passes through", "Who are you?", "Who are you?"},
		{"bullet stripped", "• Who are you?", "Who are you?"},
		{"formatting stripped", "{i}Who{/i} are you?", "Who are you?"},
		{"stage direction prefix stripped", "(whispering) Who are you?", "Who are you?"},
		{"action link stripped", "[[Lean closer] Who are you?", "Who are you?"},
		{"action link then verb non-spoken", "[[Lean closer] Investigate the noise", ""},
		{"quoted span wins", "• Ask her ''Wait, what?''", "Wait, what?"},
		{"multiple quoted spans joined", "''First.'' then ''Second.''", "First. Second."},
		{"action verb is non-spoken", "Investigate the shelf", ""},
		{"go verb is non-spoken", "Go to the cellar", ""},
		{"verb mid-sentence still spoken", "I will Investigate", "I will Investigate"},
		{"rewrite applied", "N-no. I w-won't t-tell you.", "No, I won't tell you."},
		{"bullet then verb still non-spoken", "• Say nothing", ""},
		{"empty input", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanForVoice(tc.in); got != tc.want {
				t.Fatalf("CleanForVoice(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanForVoiceIdempotent(t *testing.T) {
	inputs := []string{
		"• Ask her ''Wait, what?''",
		"{i}Who{/i} are you?",
		"(softly) Fine.",
		"Who are you?",
		"Investigate the shelf",
	}
	for _, in := range inputs {
		once := CleanForVoice(in)
		twice := CleanForVoice(once)
		if once != twice {
			t.Fatalf("cleaning not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestStripFormatting(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{i}emphasis{/i} here", "emphasis here"},
		{"She said ''hello'' softly", `She said "hello" softly`},
		{`line one\nline two`, "line oneline two"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := StripFormatting(tc.in); got != tc.want {
			t.Fatalf("StripFormatting(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
