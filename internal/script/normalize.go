/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Stage two of the parse: a bottom-up rewrite of the raw tree. Per body list,
// in order: fuse adjacent voice+dialogue leaves, drop unclassified lines,
// prune blocks whose body emptied out (except Choice blocks, which stay
// selectable even when empty), then reify surviving block headers into typed
// nodes.

// Stats carries corpus-quality counters gathered during normalization.
type Stats struct {
	// OrphanVoices counts voice directives with no dialogue line directly
	// after them. Not an error, but usually a script irregularity.
	OrphanVoices int
}

// Normalize rewrites a raw indentation tree into a typed Script.
// A header that fails re-extraction despite having classified is an internal
// invariant violation and returns an error for the whole file.
func (c *Classifier) Normalize(root *Block) (*Script, Stats, error) {
	var stats Stats
	children, err := c.normalizeBody(root.Body, TokenOther, &stats)
	if err != nil {
		return nil, stats, err
	}
	return &Script{Children: children}, stats, nil
}

func (c *Classifier) normalizeBody(body []RawNode, parent Token, stats *Stats) ([]Node, error) {
	var out []Node
	for i := 0; i < len(body); i++ {
		switch item := body[i].(type) {
		case Leaf:
			node, skip, err := c.normalizeLeaf(body, i, stats)
			if err != nil {
				return nil, err
			}
			if node != nil {
				out = append(out, node)
			}
			i += skip
		case *Block:
			nodes, err := c.normalizeBlock(item, parent, stats)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
	}
	return out, nil
}

// normalizeLeaf handles the leaf at body[i]; skip reports how many extra
// items were consumed (1 when a voice fused with the following dialogue).
func (c *Classifier) normalizeLeaf(body []RawNode, i int, stats *Stats) (Node, int, error) {
	leaf := body[i].(Leaf)
	switch leaf.Tok {
	case TokenVoice:
		next, ok := nextDialogueLeaf(body, i)
		if !ok {
			stats.OrphanVoices++
			return nil, 0, nil
		}
		voice, ok := voicePath(leaf.Text)
		if !ok {
			return nil, 0, headerDrift(leaf)
		}
		character, text, ok := c.dialogueParts(next.Text)
		if !ok {
			return nil, 0, headerDrift(next)
		}
		// keyed at the dialogue line, never the voice line
		return &Dialogue{Line: next.Line, Character: character, Text: text, Voice: voice}, 1, nil
	case TokenDialogue:
		character, text, ok := c.dialogueParts(leaf.Text)
		if !ok {
			return nil, 0, headerDrift(leaf)
		}
		return &Dialogue{Line: leaf.Line, Character: character, Text: text}, 0, nil
	case TokenJump:
		target, ok := jumpTarget(leaf.Text)
		if !ok {
			return nil, 0, headerDrift(leaf)
		}
		return &Jump{Line: leaf.Line, Target: target}, 0, nil
	default:
		// unclassified lines vanish; so do stray structural tokens that
		// cannot occur outside a block header
		return nil, 0, nil
	}
}

// nextDialogueLeaf reports whether body[i+1] is a dialogue leaf. Fusion
// requires immediate adjacency: anything between the voice directive and its
// dialogue orphans the directive.
func nextDialogueLeaf(body []RawNode, i int) (Leaf, bool) {
	if i+1 >= len(body) {
		return Leaf{}, false
	}
	next, ok := body[i+1].(Leaf)
	if !ok || next.Tok != TokenDialogue {
		return Leaf{}, false
	}
	return next, true
}

// normalizeBlock reifies one raw block. It may return zero nodes (pruned),
// one node (the typical case), or several (a choice-shaped block outside a
// menu dissolves into its children).
func (c *Classifier) normalizeBlock(b *Block, parent Token, stats *Stats) ([]Node, error) {
	kids, err := c.normalizeBody(b.Body, b.Header.Tok, stats)
	if err != nil {
		return nil, err
	}
	if len(kids) == 0 && b.Header.Tok != TokenChoice {
		return nil, nil
	}

	switch b.Header.Tok {
	case TokenLabel:
		name, ok := labelName(b.Header.Text)
		if !ok {
			return nil, headerDrift(b.Header)
		}
		return []Node{&Label{Line: b.Header.Line, Name: name, Children: kids}}, nil
	case TokenMenu:
		return []Node{&Menu{Line: b.Header.Line, Children: kids}}, nil
	case TokenChoice:
		text, condition, ok := choiceParts(b.Header.Text)
		if !ok {
			return nil, headerDrift(b.Header)
		}
		if parent != TokenMenu {
			// classification and structural role are decoupled: a quoted
			// block outside a menu is not a player option, so its header
			// dissolves and the children join the parent body
			return kids, nil
		}
		return []Node{&Choice{Line: b.Header.Line, Text: text, Condition: condition, Children: kids}}, nil
	case TokenCondition:
		kind, predicate, ok := conditionParts(b.Header.Text)
		if !ok {
			return nil, headerDrift(b.Header)
		}
		return []Node{&Condition{Line: b.Header.Line, Kind: kind, Predicate: predicate, Children: kids}}, nil
	default:
		// blocks with unclassified headers (python:, screen:, ...) carry no
		// dialogue the extractor should see; drop them wholesale
		return nil, nil
	}
}

func headerDrift(l Leaf) error {
	return fmt.Errorf("line %d: %s token %q failed field re-extraction; classifier and normalizer rules drifted out of sync", l.Line, l.Tok, l.Text)
}
