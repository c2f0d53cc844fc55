/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package choices walks a normalized script tree and recovers, for every
// player-facing choice, the dialogue that precedes and follows it along its
// branch. The resulting records feed text-to-speech generation and review.
package choices

import (
	"fmt"

	"renvox/internal/script"
)

// Context is one entry in the dialogue path around a choice: either a spoken
// line or a previously taken choice. Values are plain data copied out of the
// tree, so a stored path can never alias another branch's path.
type Context struct {
	Kind      string `json:"kind"` // "dialogue" | "choice"
	Line      int    `json:"line"`
	Character string `json:"character,omitempty"`
	Text      string `json:"text"`
	Voice     string `json:"voice,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Result captures one menu choice with its surrounding context.
// Clean, Hash and Output are filled in by post-processing; Clean stays empty
// for non-spoken (narrative/system) choices, which are excluded from
// synthesis and serialized as null.
type Result struct {
	Line       int       `json:"line"`
	Choice     string    `json:"choice"`
	Condition  string    `json:"condition,omitempty"`
	Label      string    `json:"label,omitempty"`
	Previous   []Context `json:"previous_dialogues"`
	Subsequent []Context `json:"subsequent_dialogues"`
	Path       string    `json:"path,omitempty"`
	Clean      string    `json:"clean,omitempty"`
	Hash       string    `json:"hash,omitempty"`
	Output     string    `json:"output,omitempty"`
}

// Spoken reports whether the choice carries spoken text after cleaning.
func (r *Result) Spoken() bool { return r.Clean != "" }

func dialogueContext(d *script.Dialogue) Context {
	return Context{Kind: "dialogue", Line: d.Line, Character: d.Character, Text: d.Text, Voice: d.Voice}
}

func choiceContext(c *script.Choice) Context {
	return Context{Kind: "choice", Line: c.Line, Text: c.Text, Condition: c.Condition}
}

// Extract performs a depth-first traversal of the tree and emits one Result
// per Choice node, in source-line order. sourcePath is recorded on each
// result for provenance.
//
// The traversal threads two pieces of state: the accumulated dialogue path on
// the current branch and the nearest enclosing label. The path is extended
// copy-on-append only; sibling branches never share a backing array, so a
// result's Previous slice stays stable no matter what later branches do.
func Extract(s *script.Script, sourcePath string) []Result {
	w := &walker{source: sourcePath}
	w.walkList(s.Children, nil, "")
	return w.results
}

type walker struct {
	source  string
	results []Result
}

// walkList walks one body in order and returns the dialogue path as extended
// by that body, so dialogue accumulates across siblings.
func (w *walker) walkList(nodes []script.Node, path []Context, label string) []Context {
	for _, n := range nodes {
		path = w.walk(n, path, label)
	}
	return path
}

func (w *walker) walk(n script.Node, path []Context, label string) []Context {
	switch v := n.(type) {
	case *script.Script:
		return w.walkList(v.Children, path, label)
	case *script.Menu:
		// choices are alternatives and return the path unchanged, so nothing
		// inside a branch leaks to its siblings; caption dialogue sitting in
		// the menu body still accumulates for the options after it
		return w.walkList(v.Children, path, label)
	case *script.Condition:
		// branches are walked as if reachable; game state is not evaluated
		return w.walkList(v.Children, path, label)
	case *script.Label:
		// a label switches the current-label context but keeps accumulated
		// dialogue: enclosing scope is still valid preceding context
		return w.walkList(v.Children, path, v.Name)
	case *script.Dialogue:
		return appendContext(path, dialogueContext(v))
	case *script.Choice:
		w.emit(v, path, label)
		chosen := choiceContext(v)
		w.walkList(v.Children, appendContext(path, chosen), label)
		return path
	case *script.Jump:
		return path
	default:
		panic(fmt.Sprintf("unhandled node kind %T", n))
	}
}

func (w *walker) emit(c *script.Choice, path []Context, label string) {
	subs, _ := collectUntilJunction(c.Children)
	if subs == nil {
		subs = []Context{}
	}
	w.results = append(w.results, Result{
		Line:       c.Line,
		Choice:     c.Text,
		Condition:  c.Condition,
		Label:      label,
		Previous:   cloneContexts(path),
		Subsequent: subs,
		Path:       w.source,
	})
}

// collectUntilJunction gathers the dialogue directly following a choice,
// descending through labels but stopping at the first menu, condition or
// jump: those mark the next decision point or scene transition, beyond which
// context no longer belongs to this choice. stopped propagates out of nested
// labels so collection halts for good.
func collectUntilJunction(nodes []script.Node) (subs []Context, stopped bool) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *script.Menu, *script.Condition, *script.Jump:
			return subs, true
		case *script.Dialogue:
			subs = append(subs, dialogueContext(v))
		case *script.Label:
			inner, innerStopped := collectUntilJunction(v.Children)
			subs = append(subs, inner...)
			if innerStopped {
				return subs, true
			}
		}
	}
	return subs, false
}

// appendContext extends a path without ever sharing the backing array with
// the input. Sibling recursive calls each get an independent copy; this is
// the invariant everything downstream depends on.
func appendContext(path []Context, c Context) []Context {
	out := make([]Context, len(path), len(path)+1)
	copy(out, path)
	return append(out, c)
}

func cloneContexts(path []Context) []Context {
	if path == nil {
		return []Context{}
	}
	out := make([]Context, len(path))
	copy(out, path)
	return out
}
