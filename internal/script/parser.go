/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script parses indentation-sensitive visual-novel scripts into a
// typed tree. There is no grammar; the pipeline works in two stages:
//
//  1. BuildTree reconstructs block structure from indentation and assigns
//     each line a token from an ordered rule list.
//  2. Normalize rewrites the raw tree bottom-up: unclassified lines and
//     empty blocks vanish, adjacent voice+dialogue lines fuse, and block
//     headers become typed nodes.
//
// Parsing one file is cheap, synchronous, and shares no state with other
// files; callers may parse many files concurrently with one shared Parser.
package script

import (
	"fmt"
	"os"
)

// Parser ties a classifier to the two parse stages.
type Parser struct {
	c *Classifier
}

// NewParser builds a parser for the given speaker identifier set.
func NewParser(speakers []string) *Parser {
	return &Parser{c: NewClassifier(speakers)}
}

// Classifier exposes the underlying line classifier.
func (p *Parser) Classifier() *Classifier { return p.c }

// Parse runs both stages over script text.
func (p *Parser) Parse(text string) (*Script, Stats, error) {
	return p.c.Normalize(p.c.BuildTree(text))
}

// ParseFile reads and parses one script file.
func (p *Parser) ParseFile(path string) (*Script, Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read script: %w", err)
	}
	s, stats, err := p.Parse(string(data))
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, stats, nil
}
