/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package choices

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// AudioExt is the container the synthesis backend produces.
const AudioExt = ".flac"

// ContentHash returns the deterministic identifier for one cleaned spoken
// line. It doubles as the dedup key and the output file stem, which is what
// makes downstream synthesis idempotent and cacheable.
func ContentHash(cleanText string) string {
	sum := sha256.Sum256([]byte(cleanText))
	return hex.EncodeToString(sum[:])
}

// OutputPath derives the content-addressed audio path for a cleaned line.
func OutputPath(outputDir, cleanText string) string {
	return filepath.Join(outputDir, ContentHash(cleanText)+AudioExt)
}

// Annotate returns a copy of results with Clean, Hash and Output filled in.
// Non-spoken choices keep zero values for all three.
func Annotate(results []Result, outputDir string) []Result {
	out := make([]Result, len(results))
	for i, r := range results {
		r.Clean = CleanForVoice(r.Choice)
		if r.Spoken() {
			r.Hash = ContentHash(r.Clean)
			r.Output = filepath.Join(outputDir, r.Hash+AudioExt)
		}
		out[i] = r
	}
	return out
}

// Dedupe keeps, for each distinct cleaned text, the first spoken occurrence
// in traversal order. Identical spoken text deserves identical audio no
// matter which branch it occurs on, so later duplicates are dropped along
// with every non-spoken record.
func Dedupe(results []Result) []Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if !r.Spoken() {
			continue
		}
		if _, dup := seen[r.Clean]; dup {
			continue
		}
		seen[r.Clean] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Postprocess annotates and deduplicates extracted choices, returning the
// spoken, unique records ready for synthesis.
func Postprocess(results []Result, outputDir string) []Result {
	return Dedupe(Annotate(results, outputDir))
}

// TrimContext narrows a result's context for synthesis conditioning: the
// last `before` preceding entries and first `after` subsequent entries,
// skipping tutorial notes and fast-forward spans that would pollute the
// prompt.
func TrimContext(r Result, before, after int) ([]Context, []Context) {
	prev := filterContext(r.Previous)
	next := filterContext(r.Subsequent)
	if len(prev) > before {
		prev = prev[len(prev)-before:]
	}
	if len(next) > after {
		next = next[:after]
	}
	return prev, next
}

func filterContext(ctxs []Context) []Context {
	out := make([]Context, 0, len(ctxs))
	for _, c := range ctxs {
		if strings.HasPrefix(c.Text, "Note: You can skip") || strings.Contains(c.Text, "{fast}") {
			continue
		}
		out = append(out, c)
	}
	return out
}
