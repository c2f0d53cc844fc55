/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"renvox/internal/pipeline"
	"renvox/internal/storage"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage the take review queue",
}

var reviewImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Extract choices and import them into the review database",
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
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.ImportChoices(cmd.Context(), res.Choices); err != nil {
			return err
		}
		if err := store.ScanTakes(cmd.Context(), cfg.Synthesis.OutputDir); err != nil {
			return err
		}
		fmt.Printf("imported %d spoken choices\n", len(res.Choices))
		return nil
	},
}

var reviewNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next pending take",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()
		item, err := store.NextPending(cmd.Context())
		if errors.Is(err, storage.ErrNoPending) {
			fmt.Println("review queue is empty")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("take %d (%s)\n", item.ID, item.FilePath)
		fmt.Printf("  choice: %s\n", item.ChoiceText)
		fmt.Printf("  spoken: %s\n", item.CleanText)
		fmt.Printf("  source: %s (label %s)\n", item.Path, item.Label)
		return nil
	},
}

func reviewDecisionCmd(use, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <take-id>",
		Short: fmt.Sprintf("Mark a take as %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid take id %q", args[0])
			}
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			return store.SetTakeStatus(cmd.Context(), id, status)
		},
	}
}

var reviewStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review queue statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()
		st, err := store.ReviewStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("choices:  %d\n", st.Choices)
		fmt.Printf("takes:    %d\n", st.Takes)
		fmt.Printf("pending:  %d\n", st.Pending)
		fmt.Printf("approved: %d\n", st.Approved)
		fmt.Printf("rejected: %d\n", st.Rejected)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewImportCmd)
	reviewCmd.AddCommand(reviewNextCmd)
	reviewCmd.AddCommand(reviewDecisionCmd("approve", storage.StatusApproved))
	reviewCmd.AddCommand(reviewDecisionCmd("reject", storage.StatusRejected))
	reviewCmd.AddCommand(reviewStatsCmd)
	rootCmd.AddCommand(reviewCmd)
}
