/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pipeline runs the full extraction over a game corpus: walk the
// scripts, parse each file, extract and post-process choices, and reconcile
// the result against the synthesis output directory.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"renvox/internal/choices"
	"renvox/internal/game"
	applog "renvox/internal/log"
	"renvox/internal/script"
	"log/slog"
)

// Options configures a corpus run.
type Options struct {
	GamePath  string
	Ext       string // script extension, e.g. ".rpy"
	OutputDir string // synthesis output directory
	Workers   int    // 0 means GOMAXPROCS
}

// Failure records one file the run could not process.
type Failure struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// Summary aggregates a corpus run.
type Summary struct {
	Files        int       `json:"files"`
	FilesOK      int       `json:"files_ok"`
	FilesFailed  int       `json:"files_failed"`
	Choices      int       `json:"choices"`
	Spoken       int       `json:"spoken"`
	OrphanVoices int       `json:"orphan_voices"`
	Failures     []Failure `json:"failures,omitempty"`
}

// Result of a full corpus run: the deduplicated spoken choices plus the
// summary covering every file.
type Result struct {
	Choices []choices.Result
	Summary Summary
}

type fileOutcome struct {
	results []choices.Result
	orphans int
	err     error
}

// Run walks the corpus, parses every script and extracts its choices with a
// bounded worker pool. One broken file fails that file, never the run; a
// parser panic is converted into a per-file failure. Output order is
// deterministic: results follow the sorted file order regardless of worker
// scheduling, and deduplication keeps the first occurrence in that order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	l := applog.WithComponent("pipeline")

	files, err := game.WalkScriptFiles(opts.GamePath, opts.Ext)
	if err != nil {
		return nil, err
	}
	chars, err := game.ScanCharacters(files)
	if err != nil {
		return nil, err
	}
	parser := script.NewParser(game.Speakers(chars))
	l.Info("corpus scan", slog.Int("files", len(files)), slog.Int("characters", len(chars)))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]fileOutcome, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = processFile(parser, files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Summary: Summary{Files: len(files)}}
	var all []choices.Result
	for i, out := range outcomes {
		if out.err != nil {
			l.Error("file failed", slog.String("path", files[i]), slog.Any("err", out.err))
			res.Summary.FilesFailed++
			res.Summary.Failures = append(res.Summary.Failures, Failure{Path: files[i], Err: out.err.Error()})
			continue
		}
		res.Summary.FilesOK++
		res.Summary.OrphanVoices += out.orphans
		res.Summary.Choices += len(out.results)
		all = append(all, out.results...)
	}

	res.Choices = choices.Postprocess(all, opts.OutputDir)
	res.Summary.Spoken = len(res.Choices)
	l.Info("corpus done",
		slog.Int("files_ok", res.Summary.FilesOK),
		slog.Int("files_failed", res.Summary.FilesFailed),
		slog.Int("spoken", res.Summary.Spoken),
	)
	return res, nil
}

func processFile(parser *script.Parser, path string) (out fileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = fileOutcome{err: fmt.Errorf("panic: %v", r)}
		}
	}()
	s, stats, err := parser.ParseFile(path)
	if err != nil {
		return fileOutcome{err: err}
	}
	return fileOutcome{
		results: choices.Extract(s, path),
		orphans: stats.OrphanVoices,
	}
}
