/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"renvox/internal/choices"
)

var choicesCmd = &cobra.Command{
	Use:   "choices <script>",
	Short: "Extract the choices of one script as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := corpusParser()
		if err != nil {
			return err
		}
		s, _, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}
		results := choices.Annotate(choices.Extract(s, args[0]), cfg.Synthesis.OutputDir)

		spokenOnly, _ := cmd.Flags().GetBool("spoken")
		if spokenOnly {
			results = choices.Dedupe(results)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	choicesCmd.Flags().Bool("spoken", false, "only unique spoken choices")
	rootCmd.AddCommand(choicesCmd)
}
