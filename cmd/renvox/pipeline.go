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
	"os"

	"github.com/spf13/cobra"

	"renvox/internal/pipeline"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full extraction over the script corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := requireGamePath()
		if err != nil {
			return err
		}
		workers, _ := cmd.Flags().GetInt("workers")
		res, err := pipeline.Run(cmd.Context(), pipeline.Options{
			GamePath:  root,
			Ext:       cfg.Game.Extension,
			OutputDir: cfg.Synthesis.OutputDir,
			Workers:   workers,
		})
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := pipeline.ExportJSON(out, res); err != nil {
				return err
			}
			fmt.Printf("wrote %d spoken choices to %s\n", len(res.Choices), out)
		}
		if err := pipeline.WriteReport(os.Stdout, res.Summary); err != nil {
			return err
		}

		audit, err := pipeline.AuditOutputs(cfg.Synthesis.OutputDir, res.Choices)
		if err != nil {
			return err
		}
		fmt.Printf("takes: %d existing, %d missing, %d unexpected\n",
			len(audit.Existing), len(audit.Missing), len(audit.Unexpected))
		for _, path := range audit.Unexpected {
			fmt.Printf("unexpected: %s\n", path)
		}
		if del, _ := cmd.Flags().GetBool("delete-unexpected"); del {
			if err := audit.RemoveUnexpected(); err != nil {
				return err
			}
			fmt.Printf("deleted %d unexpected takes\n", len(audit.Unexpected))
		}
		return nil
	},
}

func init() {
	pipelineCmd.Flags().String("out", "output/choices.json", "export path for extracted choices")
	pipelineCmd.Flags().Int("workers", 0, "parser worker count (0 = all CPUs)")
	pipelineCmd.Flags().Bool("delete-unexpected", false, "delete audio files no script choice maps to")
	rootCmd.AddCommand(pipelineCmd)
}
