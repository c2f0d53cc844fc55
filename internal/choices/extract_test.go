/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package choices

import (
	"reflect"
	"testing"

	"renvox/internal/script"
)

// microScript exercises the full shape: voiced dialogue, a menu with an
// empty option, a nested label and a nested menu inside one of the branches.
const microScript = `label main_dialogue:
    voice "narrator_audio_1"
    n "narrator_line_1"
    voice "narrator_audio_2"
    n "narrator_line_2"
    menu:
        "• choice_1" if condition_1 == False:
        "• choice_2" if condition_2 == False:
            voice "narrator_audio_3"
            n "narrator_line_3"
        "• choice_3" if condition_3 == False:
            voice "narrator_audio_4"
            n "narrator_line_4"
            label nested_sequence:
                menu:
                    "• nested_choice_1" if can_proceed:
                        voice "narrator_audio_5"
                        n "narrator_line_5"
                    "• nested_choice_2":
                        voice "narrator_audio_6"
                        n "narrator_line_6"
                    "• nested_choice_3":`

func parseMicro(t *testing.T) *script.Script {
	t.Helper()
	p := script.NewParser([]string{"n"})
	s, _, err := p.Parse(microScript)
	if err != nil {
		t.Fatalf("parse micro script: %v", err)
	}
	return s
}

func dlg(line int, text, voice string) Context {
	return Context{Kind: "dialogue", Line: line, Character: "n", Text: text, Voice: voice}
}

func TestExtractMicroScript(t *testing.T) {
	s := parseMicro(t)
	results := Extract(s, "micro_script.rpy")

	d1 := dlg(3, "narrator_line_1", "narrator_audio_1")
	d2 := dlg(5, "narrator_line_2", "narrator_audio_2")
	d3 := dlg(10, "narrator_line_3", "narrator_audio_3")
	d4 := dlg(13, "narrator_line_4", "narrator_audio_4")
	d5 := dlg(18, "narrator_line_5", "narrator_audio_5")
	d6 := dlg(21, "narrator_line_6", "narrator_audio_6")
	chosen3 := Context{Kind: "choice", Line: 11, Text: "• choice_3", Condition: "condition_3 == False"}

	want := []Result{
		{
			Line: 7, Choice: "• choice_1", Condition: "condition_1 == False", Label: "main_dialogue",
			Previous: []Context{d1, d2}, Subsequent: []Context{}, Path: "micro_script.rpy",
		},
		{
			Line: 8, Choice: "• choice_2", Condition: "condition_2 == False", Label: "main_dialogue",
			Previous: []Context{d1, d2}, Subsequent: []Context{d3}, Path: "micro_script.rpy",
		},
		{
			Line: 11, Choice: "• choice_3", Condition: "condition_3 == False", Label: "main_dialogue",
			Previous: []Context{d1, d2}, Subsequent: []Context{d4}, Path: "micro_script.rpy",
		},
		{
			Line: 16, Choice: "• nested_choice_1", Condition: "can_proceed", Label: "nested_sequence",
			Previous: []Context{d1, d2, chosen3, d4}, Subsequent: []Context{d5}, Path: "micro_script.rpy",
		},
		{
			Line: 19, Choice: "• nested_choice_2", Label: "nested_sequence",
			Previous: []Context{d1, d2, chosen3, d4}, Subsequent: []Context{d6}, Path: "micro_script.rpy",
		},
		{
			Line: 22, Choice: "• nested_choice_3", Label: "nested_sequence",
			Previous: []Context{d1, d2, chosen3, d4}, Subsequent: []Context{}, Path: "micro_script.rpy",
		},
	}

	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i := range want {
		got := results[i]
		if got.Subsequent == nil {
			got.Subsequent = []Context{}
		}
		if !reflect.DeepEqual(got, want[i]) {
			t.Fatalf("result %d mismatch:\n got %+v\nwant %+v", i, got, want[i])
		}
	}
}

func TestExtractOrderedBySourceLine(t *testing.T) {
	s := parseMicro(t)
	results := Extract(s, "micro_script.rpy")
	for i := 1; i < len(results); i++ {
		if results[i].Line < results[i-1].Line {
			t.Fatalf("results out of source order at %d: %d after %d", i, results[i].Line, results[i-1].Line)
		}
	}
}

func TestExtractPathsDoNotAlias(t *testing.T) {
	s := parseMicro(t)
	results := Extract(s, "micro_script.rpy")

	// the three top-level options share preceding context by value only
	a, b := results[0], results[1]
	if len(a.Previous) == 0 || len(b.Previous) == 0 {
		t.Fatalf("expected shared context on both options")
	}
	a.Previous[0].Text = "mutated"
	if b.Previous[0].Text == "mutated" {
		t.Fatalf("sibling choices share a previous-dialogues backing array")
	}
}

func TestSubsequentStopsAtJump(t *testing.T) {
	input := `label start:
    n "intro"
    menu:
        "Leave now.":
            jump epilogue
        "Stay a while.":
            n "reply"
            jump epilogue`
	p := script.NewParser([]string{"n"})
	s, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	results := Extract(s, "t.rpy")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(results[0].Subsequent) != 0 {
		t.Fatalf("jump-first choice must have empty subsequent, got %+v", results[0].Subsequent)
	}
	if len(results[1].Subsequent) != 1 || results[1].Subsequent[0].Text != "reply" {
		t.Fatalf("dialogue before jump must be collected: %+v", results[1].Subsequent)
	}
}

func TestSubsequentStopsAtNestedMenu(t *testing.T) {
	input := `label start:
    menu:
        "Keep asking.":
            menu:
                "About the blade.":
                    n "blade lore"`
	p := script.NewParser([]string{"n"})
	s, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	results := Extract(s, "t.rpy")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// a choice that immediately re-branches has no subsequent dialogue
	if len(results[0].Subsequent) != 0 {
		t.Fatalf("expected empty subsequent for re-branching choice, got %+v", results[0].Subsequent)
	}
	// and the nested choice sees the outer one in its path
	nested := results[1]
	if len(nested.Previous) != 1 || nested.Previous[0].Kind != "choice" || nested.Previous[0].Text != "Keep asking." {
		t.Fatalf("nested choice path wrong: %+v", nested.Previous)
	}
}

func TestConditionTransparentForTraversal(t *testing.T) {
	input := `label start:
    if met_before:
        n "again"
    menu:
        "Hello.":`
	p := script.NewParser([]string{"n"})
	s, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	results := Extract(s, "t.rpy")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	// dialogue inside the guard is preceding context for the later choice
	if len(results[0].Previous) != 1 || results[0].Previous[0].Text != "again" {
		t.Fatalf("condition body not accumulated: %+v", results[0].Previous)
	}
}

func TestChoiceOutsideMenuNotEmitted(t *testing.T) {
	input := `label start:
    "Looks like a choice but is not":
        n "inner"
    menu:
        "Real option":`
	p := script.NewParser([]string{"n"})
	s, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	results := Extract(s, "t.rpy")
	if len(results) != 1 || results[0].Choice != "Real option" {
		t.Fatalf("expected only the real menu option, got %+v", results)
	}
	// the dissolved block's dialogue still counts as preceding context
	if len(results[0].Previous) != 1 || results[0].Previous[0].Text != "inner" {
		t.Fatalf("spliced dialogue missing from path: %+v", results[0].Previous)
	}
}

func TestMenuBodyDialogueJoinsLaterOptions(t *testing.T) {
	input := `label m:
    menu:
        "One":
            n "reply_one"
        n "between"
        "Two":`
	p := script.NewParser([]string{"n"})
	s, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	results := Extract(s, "t.rpy")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// the caption line sits after option One, so only Two sees it
	if len(results[0].Previous) != 0 {
		t.Fatalf("first option should have no preceding context: %+v", results[0].Previous)
	}
	if len(results[1].Previous) != 1 || results[1].Previous[0].Text != "between" {
		t.Fatalf("menu-body dialogue missing from later option: %+v", results[1].Previous)
	}
	// branch content still stays inside its branch
	for _, c := range results[1].Previous {
		if c.Text == "reply_one" {
			t.Fatalf("sibling branch dialogue leaked: %+v", results[1].Previous)
		}
	}
}

func TestVoicedContextAndEmptyOption(t *testing.T) {
	input := `label start:
    voice "a1"
    n "Hello"
    menu:
        "Option A":
            n "Reply A"
        "Option B":`
	p := script.NewParser([]string{"n"})
	s, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	results := Extract(s, "t.rpy")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Label != "start" || first.Choice != "Option A" {
		t.Fatalf("first result wrong: %+v", first)
	}
	if len(first.Previous) != 1 || first.Previous[0].Voice != "a1" || first.Previous[0].Text != "Hello" {
		t.Fatalf("previous dialogue wrong: %+v", first.Previous)
	}
	if len(first.Subsequent) != 1 || first.Subsequent[0].Text != "Reply A" || first.Subsequent[0].Voice != "" {
		t.Fatalf("subsequent dialogue wrong: %+v", first.Subsequent)
	}

	second := results[1]
	if second.Choice != "Option B" || len(second.Subsequent) != 0 {
		t.Fatalf("second result wrong: %+v", second)
	}
	if !reflect.DeepEqual(second.Previous, first.Previous) {
		t.Fatalf("both options must share preceding context by value")
	}
}
