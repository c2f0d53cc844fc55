/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package nav builds the label/jump navigation graph of a script corpus:
// which labels exist, where they live, and which labels jump to which.
package nav

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	applog "renvox/internal/log"
)

var (
	// navigation-level scan is stricter than the parser: only lowercase-led
	// label names participate in the flow graph
	labelRe = regexp.MustCompile(`^\s*label ([a-z]\w+):$`)
	jumpRe  = regexp.MustCompile(`^\s*jump (\w+)$`)
)

// Label records where a label is defined.
type Label struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Line int    `json:"line"`
}

// Edge is one jump from the label enclosing the jump statement to its target.
type Edge struct {
	SrcLabel string `json:"src_label"`
	SrcPath  string `json:"src_path"`
	SrcLine  int    `json:"src_line"`
	DstLabel string `json:"dst_label"`
}

// Graph is the navigation structure of a corpus. Unresolved holds jumps whose
// target label was never defined; they are reported, not fatal, because
// shipped games routinely carry dead jumps behind unreachable conditions.
type Graph struct {
	Labels     map[string]Label `json:"labels"`
	Edges      []Edge           `json:"edges"`
	Unresolved []Edge           `json:"unresolved,omitempty"`
}

// Scan reads every file twice over: first collecting label definitions, then
// attributing jumps to the label they occur under. Paths in the graph are
// relative to root when possible.
func Scan(files []string, root string) (*Graph, error) {
	g := &Graph{Labels: make(map[string]Label)}

	for _, path := range files {
		rel := relativize(path, root)
		err := eachLine(path, func(line string, lineno int) {
			if m := labelRe.FindStringSubmatch(line); m != nil {
				g.Labels[m[1]] = Label{Name: m[1], Path: rel, Line: lineno}
			}
		})
		if err != nil {
			return nil, err
		}
	}

	log := applog.WithComponent("nav")
	for _, path := range files {
		rel := relativize(path, root)
		current := ""
		err := eachLine(path, func(line string, lineno int) {
			if m := labelRe.FindStringSubmatch(line); m != nil {
				current = m[1]
				return
			}
			m := jumpRe.FindStringSubmatch(line)
			if m == nil {
				return
			}
			edge := Edge{SrcLabel: current, SrcPath: rel, SrcLine: lineno, DstLabel: m[1]}
			if _, ok := g.Labels[m[1]]; !ok {
				log.Warn("jump to undefined label", "target", m[1], "path", rel, "line", lineno)
				g.Unresolved = append(g.Unresolved, edge)
				return
			}
			g.Edges = append(g.Edges, edge)
		})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LabelNames returns the defined labels in sorted order.
func (g *Graph) LabelNames() []string {
	names := make([]string, 0, len(g.Labels))
	for name := range g.Labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func relativize(path, root string) string {
	if root == "" {
		return path
	}
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func eachLine(path string, fn func(line string, lineno int)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		fn(sc.Text(), lineno)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan script %s: %w", path, err)
	}
	return nil
}
