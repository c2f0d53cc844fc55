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
	"time"

	"github.com/spf13/cobra"

	"renvox/internal/pipeline"
	"renvox/internal/synth"
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate audio takes for extracted choices",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := requireGamePath()
		if err != nil {
			return err
		}
		res, err := pipeline.Run(cmd.Context(), pipeline.Options{
			GamePath:  root,
			Ext:       cfg.Game.Extension,
			OutputDir: cfg.Synthesis.OutputDir,
		})
		if err != nil {
			return err
		}

		client := synth.NewClient(
			cfg.Synthesis.BaseURL,
			synthToken,
			time.Duration(cfg.Synthesis.TimeoutMs)*time.Millisecond,
			cfg.Synthesis.SampleRate,
		)
		force, _ := cmd.Flags().GetBool("force")
		limit, _ := cmd.Flags().GetInt("limit")

		written := 0
		for _, r := range res.Choices {
			if limit > 0 && written >= limit {
				break
			}
			wrote, err := client.GenerateChoice(cmd.Context(), r, force)
			if err != nil {
				return err
			}
			if wrote {
				written++
			}
		}
		fmt.Printf("generated %d takes (%d spoken choices total)\n", written, len(res.Choices))
		return nil
	},
}

func init() {
	synthCmd.Flags().Bool("force", false, "regenerate takes that already exist")
	synthCmd.Flags().Int("limit", 0, "stop after this many generated takes (0 = no limit)")
	rootCmd.AddCommand(synthCmd)
}
