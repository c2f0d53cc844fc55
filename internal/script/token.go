/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"regexp"
	"sort"
	"strings"
)

// Token indicates the syntactic category of a script line.
// Classification is permissive: anything that matches no rule is TokenOther
// and gets discarded during normalization.

type Token int

const (
	TokenOther Token = iota
	TokenLabel
	TokenMenu
	TokenJump
	TokenVoice
	TokenDialogue
	TokenChoice
	TokenCondition
)

func (t Token) String() string {
	switch t {
	case TokenLabel:
		return "LABEL"
	case TokenMenu:
		return "MENU"
	case TokenJump:
		return "JUMP"
	case TokenVoice:
		return "VOICE"
	case TokenDialogue:
		return "DIALOGUE"
	case TokenChoice:
		return "CHOICE"
	case TokenCondition:
		return "CONDITION"
	default:
		return "OTHER"
	}
}

// Patterns shared between classification and header re-extraction. The
// normalizer reuses the exact same expressions, so a header that classified
// as e.g. LABEL must re-extract; a mismatch is an internal invariant
// violation surfaced as an error, never silently mis-parsed.
var (
	labelRe     = regexp.MustCompile(`^label (\w+):$`)
	menuRe      = regexp.MustCompile(`^menu:$`)
	jumpRe      = regexp.MustCompile(`^jump (\w+)$`)
	voiceRe     = regexp.MustCompile(`^voice "([^"]+)"$`)
	choiceRe    = regexp.MustCompile(`^"([^"]+)"(?: if (.+))?:$`)
	conditionRe = regexp.MustCompile(`^(if|elif|else)\b\s*(.*?)\s*:$`)
)

// Classifier assigns a Token to each trimmed script line. The set of valid
// speaker identifiers is injected at construction so the dialogue rule can be
// tested with a synthetic cast; it is never read from process-wide state.
type Classifier struct {
	dialogueRe *regexp.Regexp // nil when the speaker set is empty
	rules      []rule
}

type rule struct {
	re  *regexp.Regexp
	tok Token
}

// NewClassifier builds a classifier for the given speaker identifiers.
func NewClassifier(speakers []string) *Classifier {
	c := &Classifier{dialogueRe: dialoguePattern(speakers)}
	c.rules = []rule{
		{labelRe, TokenLabel},
		{menuRe, TokenMenu},
		{jumpRe, TokenJump},
		{voiceRe, TokenVoice},
		{c.dialogueRe, TokenDialogue},
		{choiceRe, TokenChoice},
		{conditionRe, TokenCondition},
	}
	return c
}

// dialoguePattern compiles the speaker-dialogue rule for a closed speaker set.
// Longer identifiers sort first so alternation cannot shadow them with a
// prefix. Returns nil for an empty set; the rule then never matches.
func dialoguePattern(speakers []string) *regexp.Regexp {
	if len(speakers) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(speakers))
	for _, s := range speakers {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(s))
	}
	if len(quoted) == 0 {
		return nil
	}
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return regexp.MustCompile(`^(` + strings.Join(quoted, "|") + `) "([^"]+)"( id .*)?$`)
}

// Classify returns the token for a line. The input is trimmed first; rules
// are evaluated in a fixed order and the first match wins. Classification is
// total: unmatched lines degrade to TokenOther.
func (c *Classifier) Classify(line string) Token {
	trim := strings.TrimSpace(line)
	for _, r := range c.rules {
		if r.re == nil {
			continue
		}
		if r.re.MatchString(trim) {
			return r.tok
		}
	}
	return TokenOther
}

// Header field extraction. Each helper mirrors the classifying pattern above;
// ok is false only when classifier and extractor drifted out of sync.

func labelName(text string) (string, bool) {
	m := labelRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func jumpTarget(text string) (string, bool) {
	m := jumpRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func voicePath(text string) (string, bool) {
	m := voiceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (c *Classifier) dialogueParts(text string) (character, dialogue string, ok bool) {
	if c.dialogueRe == nil {
		return "", "", false
	}
	m := c.dialogueRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func choiceParts(text string) (choice, condition string, ok bool) {
	m := choiceRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func conditionParts(text string) (kind, predicate string, ok bool) {
	m := conditionRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
