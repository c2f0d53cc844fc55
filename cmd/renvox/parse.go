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
	"renvox/internal/script"
)

var parseCmd = &cobra.Command{
	Use:   "parse <script>",
	Short: "Parse one script and print its normalized tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := corpusParser()
		if err != nil {
			return err
		}
		s, stats, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}
		fmt.Print(script.Dump(s))
		if stats.OrphanVoices > 0 {
			fmt.Printf("orphan voices: %d\n", stats.OrphanVoices)
		}
		return nil
	},
}

// corpusParser builds a parser whose speaker set comes from the whole corpus
// when a game path is configured, so dialogue lines of characters defined in
// other files still classify.
func corpusParser() (*script.Parser, error) {
	root, err := requireGamePath()
	if err != nil {
		return nil, err
	}
	files, err := game.WalkScriptFiles(root, cfg.Game.Extension)
	if err != nil {
		return nil, err
	}
	chars, err := game.ScanCharacters(files)
	if err != nil {
		return nil, err
	}
	return script.NewParser(game.Speakers(chars)), nil
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
