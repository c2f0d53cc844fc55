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
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List the characters defined in the script corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := requireGamePath()
		if err != nil {
			return err
		}
		files, err := game.WalkScriptFiles(root, cfg.Game.Extension)
		if err != nil {
			return err
		}
		chars, err := game.ScanCharacters(files)
		if err != nil {
			return err
		}
		for _, id := range game.Speakers(chars) {
			fmt.Printf("%s - %s\n", id, chars[id].DisplayName())
		}
		fmt.Printf("\nextracted %d characters\n", len(chars))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(charactersCmd)
}
