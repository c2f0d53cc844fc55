/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "strings"

// Raw indentation tree. Stage one of the parse reconstructs block structure
// from leading whitespace alone; no grammar, no recovery. Indentation is
// measured in raw leading-whitespace length, matching the source dialect's
// own indentation semantics. Mixed tabs and spaces are not normalized.

// Leaf is a single classified line.
type Leaf struct {
	Tok  Token
	Text string // trimmed line text
	Line int    // 1-based source line number
}

// Block is a header line that opened an indented body.
type Block struct {
	Header Leaf
	Indent int
	Body   []RawNode
}

// RawNode is either a Leaf or a *Block.
type RawNode interface{ rawNode() }

func (Leaf) rawNode()   {}
func (*Block) rawNode() {}

func isEmptyLine(line string) bool {
	trim := strings.TrimSpace(line)
	return trim == "" || strings.HasPrefix(trim, "#")
}

func isBlockStart(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t"), ":")
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// BuildTree parses an indented script into a raw tree. The root block sits at
// indent -1 so any real line is its descendant; the stack therefore never
// pops below the root. Blank and comment lines are skipped entirely and do
// not affect the indent stack.
func (c *Classifier) BuildTree(text string) *Block {
	root := &Block{Indent: -1}
	stack := []*Block{root}

	for lineno, line := range strings.Split(text, "\n") {
		if isEmptyLine(line) {
			continue
		}
		n := lineno + 1
		trim := strings.TrimSpace(line)
		indent := indentOf(line)

		// dedent closes every block we exited
		for len(stack) > 1 && indent <= stack[len(stack)-1].Indent {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]

		if isBlockStart(line) {
			block := &Block{
				Header: Leaf{Tok: c.Classify(trim), Text: trim, Line: n},
				Indent: indent,
			}
			top.Body = append(top.Body, block)
			stack = append(stack, block)
		} else {
			top.Body = append(top.Body, Leaf{Tok: c.Classify(trim), Text: trim, Line: n})
		}
	}
	return root
}
