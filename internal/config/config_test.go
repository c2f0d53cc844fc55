/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"testing"
)

type fakeStore struct {
	vals map[string]string
}

func (f *fakeStore) Get(service, key string) (string, error) {
	v, ok := f.vals[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (f *fakeStore) Set(service, key, value string) error {
	f.vals[service+"/"+key] = value
	return nil
}
func (f *fakeStore) Delete(service, key string) error {
	delete(f.vals, service+"/"+key)
	return nil
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Game.Extension != ".rpy" {
		t.Fatalf("unexpected default extension: %q", cfg.Game.Extension)
	}
	if cfg.Synthesis.SampleRate != 24000 {
		t.Fatalf("unexpected default sample rate: %d", cfg.Synthesis.SampleRate)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected default log level: %q", cfg.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvGamePath, "/tmp/game")
	t.Setenv(EnvSynthURL, "http://tts.local:9000")
	t.Setenv(EnvSynthTimeoutMs, "5000")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Game.Path != "/tmp/game" {
		t.Fatalf("game path override not applied: %q", cfg.Game.Path)
	}
	if cfg.Synthesis.BaseURL != "http://tts.local:9000" {
		t.Fatalf("synth url override not applied: %q", cfg.Synthesis.BaseURL)
	}
	if cfg.Synthesis.TimeoutMs != 5000 {
		t.Fatalf("timeout override not applied: %d", cfg.Synthesis.TimeoutMs)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level override not applied: %q", cfg.Logging.Level)
	}
}

func TestMergePreservesDefaultsForEmptyFields(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Game: GameConfig{Path: "/games/vn"}}
	mergeInto(&dst, &src)
	if dst.Game.Path != "/games/vn" {
		t.Fatalf("merge did not apply path: %q", dst.Game.Path)
	}
	if dst.Game.Extension != ".rpy" {
		t.Fatalf("merge clobbered extension: %q", dst.Game.Extension)
	}
	if dst.Synthesis.BaseURL == "" {
		t.Fatalf("merge clobbered synthesis base url")
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	fs := &fakeStore{vals: map[string]string{}}
	old := SetTokenStore(fs)
	defer SetTokenStore(old)

	if err := tokenStore.Set(keyringService, keyringToken, "secret"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	got, err := tokenStore.Get(keyringService, keyringToken)
	if err != nil || got != "secret" {
		t.Fatalf("get token = %q, %v", got, err)
	}
}
