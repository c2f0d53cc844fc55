/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package nav

import (
	"fmt"
	"sort"
	"strings"
)

// Mermaid renders the graph as a Mermaid flowchart. Jumps from outside any
// label are attributed to a synthetic entry node; duplicate edges collapse to
// one arrow. Output is deterministic.
func (g *Graph) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range g.LabelNames() {
		l := g.Labels[name]
		sb.WriteString(fmt.Sprintf("    %s[\"%s<br/>%s:%d\"]\n", sanitizeID(name), name, l.Path, l.Line))
	}

	seen := make(map[string]bool)
	arrows := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		src := e.SrcLabel
		if src == "" {
			src = "entry"
		}
		arrow := fmt.Sprintf("    %s --> %s\n", sanitizeID(src), sanitizeID(e.DstLabel))
		if seen[arrow] {
			continue
		}
		seen[arrow] = true
		arrows = append(arrows, arrow)
	}
	sort.Strings(arrows)
	for _, a := range arrows {
		sb.WriteString(a)
	}
	return sb.String()
}

func sanitizeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_")
	return r.Replace(id)
}
