/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"strings"
)

// Dump renders a normalized tree as indented text for inspection.
func Dump(n Node) string {
	var sb strings.Builder
	dumpInto(&sb, n, 0)
	return sb.String()
}

func dumpInto(sb *strings.Builder, n Node, depth int) {
	pad := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *Script:
		sb.WriteString("script\n")
		for _, c := range v.Children {
			dumpInto(sb, c, depth+1)
		}
	case *Label:
		fmt.Fprintf(sb, "%slabel %s (line %d)\n", pad, v.Name, v.Line)
		for _, c := range v.Children {
			dumpInto(sb, c, depth+1)
		}
	case *Menu:
		fmt.Fprintf(sb, "%smenu (line %d)\n", pad, v.Line)
		for _, c := range v.Children {
			dumpInto(sb, c, depth+1)
		}
	case *Choice:
		if v.Condition != "" {
			fmt.Fprintf(sb, "%schoice %q if %s (line %d)\n", pad, v.Text, v.Condition, v.Line)
		} else {
			fmt.Fprintf(sb, "%schoice %q (line %d)\n", pad, v.Text, v.Line)
		}
		for _, c := range v.Children {
			dumpInto(sb, c, depth+1)
		}
	case *Condition:
		fmt.Fprintf(sb, "%s%s %s (line %d)\n", pad, v.Kind, v.Predicate, v.Line)
		for _, c := range v.Children {
			dumpInto(sb, c, depth+1)
		}
	case *Dialogue:
		if v.Voice != "" {
			fmt.Fprintf(sb, "%s%s %q voice=%s (line %d)\n", pad, v.Character, v.Text, v.Voice, v.Line)
		} else {
			fmt.Fprintf(sb, "%s%s %q (line %d)\n", pad, v.Character, v.Text, v.Line)
		}
	case *Jump:
		fmt.Fprintf(sb, "%sjump %s (line %d)\n", pad, v.Target, v.Line)
	default:
		panic(fmt.Sprintf("unhandled node kind %T", n))
	}
}
