/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// Normalized AST. A closed sum type over the node kinds the walker must
// handle; the unexported marker method keeps the set sealed so a type switch
// with a panicking default gives the closest Go gets to exhaustiveness.
//
// Nodes are immutable after normalization. Every node owns its children
// exclusively; the tree has no shared subtrees and no cycles.

// Node is one normalized script tree node.
type Node interface {
	// Pos returns the 1-based source line the node originates from.
	Pos() int
	node()
}

// Script is the root of a normalized file.
type Script struct {
	Children []Node
}

// Label is a named entry point. It resets the "current label" context for
// everything inside it but does not reset accumulated dialogue.
type Label struct {
	Line     int
	Name     string
	Children []Node
}

// Menu is a set of mutually exclusive player choices.
type Menu struct {
	Line     int
	Children []Node
}

// Choice is one option inside a Menu. An empty Choice is still a valid,
// selectable option and is never pruned.
type Choice struct {
	Line      int
	Text      string
	Condition string // empty when unguarded
	Children  []Node
}

// Condition is an if/elif/else guard. Traversal treats it as transparent
// since game state is never evaluated by this tool.
type Condition struct {
	Line      int
	Kind      string // "if" | "elif" | "else"
	Predicate string
	Children  []Node
}

// Dialogue is a spoken line, optionally fused with a preceding voice
// directive. Line is always the dialogue line's number, never the voice's.
type Dialogue struct {
	Line      int
	Character string
	Text      string
	Voice     string // empty when unvoiced
}

// Jump transfers control to another label and terminates local context.
type Jump struct {
	Line   int
	Target string
}

func (s *Script) Pos() int    { return 0 }
func (l *Label) Pos() int     { return l.Line }
func (m *Menu) Pos() int      { return m.Line }
func (c *Choice) Pos() int    { return c.Line }
func (c *Condition) Pos() int { return c.Line }
func (d *Dialogue) Pos() int  { return d.Line }
func (j *Jump) Pos() int      { return j.Line }

func (*Script) node()    {}
func (*Label) node()     {}
func (*Menu) node()      {}
func (*Choice) node()    {}
func (*Condition) node() {}
func (*Dialogue) node()  {}
func (*Jump) node()      {}
