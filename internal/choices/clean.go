/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package choices

import (
	"regexp"
	"strings"
)

// Choice-text cleaning for speech synthesis. The rewrites are ordered; the
// whole function is a projection (cleaning a cleaned string changes nothing).

var (
	bulletRe     = regexp.MustCompile(`•\s+`)
	formattingRe = regexp.MustCompile(`\{[^}]+\}`)
	prefixesRe   = regexp.MustCompile(`\([^)]+\)\s+`)
	actionsRe    = regexp.MustCompile(`\[\[[^\]]+\]\s*`)
	quotedTextRe = regexp.MustCompile(`''(.+?)''`)

	// choices opening with these verbs describe an action, not speech
	specialRe = regexp.MustCompile(`^(Say|Join|Follow|Play|Return|Make|Continue|Ignore|Embrace|Investigate|Go|Do|Drop|Tighten|Kneel|Force|Try)\s`)
)

// rewrites patches known script artifacts that synthesize badly.
var rewrites = map[string]string{
	"N-no. I w-won't t-tell you.": "No, I won't tell you.",
}

// CleanForVoice cleans raw menu-choice text for speech synthesis.
// It strips bullet markers, inline formatting, parenthetical stage-direction
// prefixes and bracketed action links. Doubled-single-quote spans denote
// literal speech and win outright; action-verb openers mark the choice as
// non-spoken. Returns "" when the choice has no spoken text.
func CleanForVoice(choice string) string {
	choice = bulletRe.ReplaceAllString(choice, "")
	choice = formattingRe.ReplaceAllString(choice, "")
	choice = prefixesRe.ReplaceAllString(choice, "")
	choice = actionsRe.ReplaceAllString(choice, "")

	// quoted spans are verbatim spoken dialogue
	if quoted := quotedTextRe.FindAllStringSubmatch(choice, -1); len(quoted) > 0 {
		parts := make([]string, 0, len(quoted))
		for _, m := range quoted {
			parts = append(parts, m[1])
		}
		return strings.Join(parts, " ")
	}

	if specialRe.MatchString(choice) {
		return ""
	}

	if rewritten, ok := rewrites[choice]; ok {
		return rewritten
	}
	return choice
}

// StripFormatting removes inline markup from dialogue text for display and
// synthesis context. Doubled single quotes become plain double quotes.
func StripFormatting(text string) string {
	text = formattingRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "''", `"`)
	text = strings.ReplaceAll(text, `\n`, "")
	return text
}
