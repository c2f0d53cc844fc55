/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"renvox/internal/config"
	applog "renvox/internal/log"
	"renvox/internal/storage"
)

// cfg and synthToken are resolved once before any command runs.
var (
	cfg        config.AppConfig
	synthToken string
)

var rootCmd = &cobra.Command{
	Use:   "renvox",
	Short: "Extract and voice the player choices of a visual-novel script corpus",
	Long: `renvox parses visual-novel scripts, extracts every player choice with its
surrounding dialogue, and drives speech synthesis plus take review for the
spoken ones.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, synthToken, err = config.Load()
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("game"); v != "" {
			cfg.Game.Path = v
		}
		if v, _ := cmd.Flags().GetString("ext"); v != "" {
			cfg.Game.Extension = v
		}
		applog.Init(applog.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.Source,
			File:      cfg.Logging.File,
		})
		return nil
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("game", "", "game script root (overrides config and GAME_PATH)")
	rootCmd.PersistentFlags().String("ext", "", "script file extension (default .rpy)")
}

func requireGamePath() (string, error) {
	if cfg.Game.Path == "" {
		return "", errors.New("game path not set: use --game, GAME_PATH or the config file")
	}
	return cfg.Game.Path, nil
}

// openStore selects the shared Postgres store when configured, otherwise the
// local SQLite database next to the config file.
func openStore(ctx context.Context) (*storage.Store, error) {
	if cfg.Review.PostgresDSN != "" {
		return storage.OpenPostgres(ctx, cfg.Review.PostgresDSN)
	}
	path := cfg.Review.SQLitePath
	if path == "" {
		confPath, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(filepath.Dir(confPath), "review.sqlite")
	}
	return storage.OpenSQLite(path)
}
