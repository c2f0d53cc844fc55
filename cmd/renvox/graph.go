/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"renvox/internal/game"
	"renvox/internal/nav"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the label/jump flow graph as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := requireGamePath()
		if err != nil {
			return err
		}
		files, err := game.WalkScriptFiles(root, cfg.Game.Extension)
		if err != nil {
			return err
		}
		g, err := nav.Scan(files, root)
		if err != nil {
			return err
		}
		fmt.Print(g.Mermaid())
		if len(g.Unresolved) > 0 {
			fmt.Printf("%%%% %d unresolved jumps\n", len(g.Unresolved))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
