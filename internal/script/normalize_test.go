/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"reflect"
	"testing"
)

func parseOrFail(t *testing.T, speakers []string, input string) (*Script, Stats) {
	t.Helper()
	p := NewParser(speakers)
	s, stats, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return s, stats
}

func TestNormalizeVoiceDialogueFusion(t *testing.T) {
	input := `label start:
    voice "a1"
    n "Hello"`
	s, stats := parseOrFail(t, []string{"n"}, input)

	label := s.Children[0].(*Label)
	if len(label.Children) != 1 {
		t.Fatalf("expected 1 fused node, got %d", len(label.Children))
	}
	d := label.Children[0].(*Dialogue)
	if d.Character != "n" || d.Text != "Hello" || d.Voice != "a1" {
		t.Fatalf("fusion fields wrong: %+v", d)
	}
	// keyed at the dialogue line, not the voice line
	if d.Line != 3 {
		t.Fatalf("fused line = %d, want 3", d.Line)
	}
	if stats.OrphanVoices != 0 {
		t.Fatalf("unexpected orphan count: %d", stats.OrphanVoices)
	}
}

func TestNormalizeOrphanVoiceDropped(t *testing.T) {
	input := `label start:
    voice "a1"
    $ some_statement = 1
    n "Hello"
    voice "a2"`
	s, stats := parseOrFail(t, []string{"n"}, input)

	label := s.Children[0].(*Label)
	if len(label.Children) != 1 {
		t.Fatalf("expected only the dialogue to survive, got %d nodes", len(label.Children))
	}
	d := label.Children[0].(*Dialogue)
	if d.Voice != "" {
		t.Fatalf("dialogue should be unvoiced, voice=%q", d.Voice)
	}
	// a1 was separated from its dialogue by a statement; a2 trails the body
	if stats.OrphanVoices != 2 {
		t.Fatalf("orphan voices = %d, want 2", stats.OrphanVoices)
	}
}

func TestNormalizeUnvoicedDialogue(t *testing.T) {
	input := `label start:
    n "Bare line"`
	s, _ := parseOrFail(t, []string{"n"}, input)
	d := s.Children[0].(*Label).Children[0].(*Dialogue)
	if d.Text != "Bare line" || d.Voice != "" || d.Line != 2 {
		t.Fatalf("unvoiced dialogue wrong: %+v", d)
	}
}

func TestNormalizeDropsUnclassifiedAndEmptyBlocks(t *testing.T) {
	input := `label empty_scene:
    $ var = 1
    scene black with dissolve
label real_scene:
    n "Content"`
	s, _ := parseOrFail(t, []string{"n"}, input)
	if len(s.Children) != 1 {
		t.Fatalf("expected the empty label to be pruned, got %d children", len(s.Children))
	}
	if s.Children[0].(*Label).Name != "real_scene" {
		t.Fatalf("wrong surviving label: %+v", s.Children[0])
	}
}

func TestNormalizeKeepsEmptyChoice(t *testing.T) {
	input := `label start:
    menu:
        "Option A":
            n "Reply A"
        "Option B":`
	s, _ := parseOrFail(t, []string{"n"}, input)
	menu := s.Children[0].(*Label).Children[0].(*Menu)
	if len(menu.Children) != 2 {
		t.Fatalf("expected both options, got %d", len(menu.Children))
	}
	b := menu.Children[1].(*Choice)
	if b.Text != "Option B" || len(b.Children) != 0 {
		t.Fatalf("empty choice not retained as-is: %+v", b)
	}
}

func TestNormalizeChoiceOutsideMenuDissolves(t *testing.T) {
	// a quoted block with no enclosing menu is not a player option; its
	// children join the surrounding body
	input := `label start:
    "Not really a choice":
        n "Inner line"`
	s, _ := parseOrFail(t, []string{"n"}, input)
	label := s.Children[0].(*Label)
	if len(label.Children) != 1 {
		t.Fatalf("expected spliced child, got %d nodes", len(label.Children))
	}
	if _, isChoice := label.Children[0].(*Choice); isChoice {
		t.Fatalf("choice node created outside a menu")
	}
	d := label.Children[0].(*Dialogue)
	if d.Text != "Inner line" {
		t.Fatalf("inner dialogue lost: %+v", d)
	}
}

func TestNormalizeConditionBlocks(t *testing.T) {
	input := `label start:
    if affection >= 3:
        n "Warm reply"
    else:
        n "Cold reply"`
	s, _ := parseOrFail(t, []string{"n"}, input)
	label := s.Children[0].(*Label)
	if len(label.Children) != 2 {
		t.Fatalf("expected both branches, got %d", len(label.Children))
	}
	ifNode := label.Children[0].(*Condition)
	if ifNode.Kind != "if" || ifNode.Predicate != "affection >= 3" {
		t.Fatalf("if branch wrong: %+v", ifNode)
	}
	elseNode := label.Children[1].(*Condition)
	if elseNode.Kind != "else" || elseNode.Predicate != "" {
		t.Fatalf("else branch wrong: %+v", elseNode)
	}
}

func TestNormalizeJumpLeaf(t *testing.T) {
	input := `label start:
    n "Bye"
    jump epilogue`
	s, _ := parseOrFail(t, []string{"n"}, input)
	label := s.Children[0].(*Label)
	j := label.Children[1].(*Jump)
	if j.Target != "epilogue" || j.Line != 3 {
		t.Fatalf("jump wrong: %+v", j)
	}
}

func TestNormalizeDropsUnclassifiedHeaderBlocks(t *testing.T) {
	input := `init python:
    x = 1
label start:
    n "Hi"`
	s, _ := parseOrFail(t, []string{"n"}, input)
	if len(s.Children) != 1 {
		t.Fatalf("python block leaked into tree: %d children", len(s.Children))
	}
}

func TestParseIdempotent(t *testing.T) {
	input := `label start:
    voice "a1"
    n "Hello"
    menu:
        "Option A":
            n "Reply A"
        "Option B":`
	p := NewParser([]string{"n"})
	first, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, _, err := p.Parse(input)
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parsing is not deterministic:\n%s\nvs\n%s", Dump(first), Dump(second))
	}
}
