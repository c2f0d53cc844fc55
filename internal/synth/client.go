/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package synth talks to the speech-synthesis service and writes generated
// takes to their content-addressed output paths.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"renvox/internal/choices"
	applog "renvox/internal/log"
	"log/slog"
)

// ContextWindow is how many dialogue lines around the choice are sent to
// condition the voice.
const ContextWindow = 3

// Client is a minimal HTTP client for the synthesis service API.
type Client struct {
	BaseURL    string
	Token      string // bearer token
	SampleRate int
	client     *http.Client
}

// NewClient creates a synthesis client. baseURL may include a trailing slash;
// it will be normalized.
func NewClient(baseURL, token string, timeout time.Duration, sampleRate int) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		SampleRate: sampleRate,
		client:     &http.Client{Timeout: timeout},
	}
}

// Request is the synthesis payload. Context lines are plain cleaned text in
// script order.
type Request struct {
	Text          string   `json:"text"`
	ContextBefore []string `json:"context_before,omitempty"`
	ContextAfter  []string `json:"context_after,omitempty"`
	SampleRate    int      `json:"sample_rate"`
}

// Synthesize posts one line and returns the rendered audio bytes.
func (c *Client) Synthesize(ctx context.Context, sr Request) ([]byte, error) {
	body, err := json.Marshal(sr)
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("synthesis server: %s", resp.Status)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesis server returned empty audio")
	}
	return audio, nil
}

// GenerateChoice synthesizes one spoken choice to its output path. Existing
// files are kept unless force is set, which makes re-runs cheap and
// restartable. Returns whether audio was written.
func (c *Client) GenerateChoice(ctx context.Context, r choices.Result, force bool) (bool, error) {
	l := applog.WithOperation(applog.WithComponent("synth"), "generate").With(
		slog.String("hash", r.Hash),
	)
	if !r.Spoken() || r.Output == "" {
		l.Debug("skipping non-spoken choice")
		return false, nil
	}
	if !force {
		if _, err := os.Stat(r.Output); err == nil {
			l.Debug("output exists", slog.String("path", r.Output))
			return false, nil
		}
	}

	before, after := choices.TrimContext(r, ContextWindow, ContextWindow)
	audio, err := c.Synthesize(ctx, Request{
		Text:          r.Clean,
		ContextBefore: contextLines(before),
		ContextAfter:  contextLines(after),
		SampleRate:    c.SampleRate,
	})
	if err != nil {
		return false, fmt.Errorf("synthesize %s: %w", r.Hash, err)
	}
	if err := writeFileAtomic(r.Output, audio); err != nil {
		return false, err
	}
	l.Info("take written", slog.String("path", r.Output), slog.Int("bytes", len(audio)))
	return true, nil
}

func contextLines(ctxs []choices.Context) []string {
	lines := make([]string, 0, len(ctxs))
	for _, c := range ctxs {
		lines = append(lines, choices.StripFormatting(c.Text))
	}
	return lines
}

// writeFileAtomic writes via a temp file in the target directory and renames
// into place, so a crashed run never leaves a truncated take.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".take-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write take: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close take: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename take: %w", err)
	}
	return nil
}
