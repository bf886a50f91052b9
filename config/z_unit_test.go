// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/server/logger"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "betdesk.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.Mode() != logger.ModeSilence {
		t.Fatalf("mode %v", cfg.Mode())
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}

func TestFileThenEnv(t *testing.T) {
	p := writeFile(t, "base_url: http://backend:9000\nrole: agent\ntimeout: 3s\nclose_delay: 0s\nusername: ann\n")
	t.Setenv("BETDESK_ROLE", "superagent")
	t.Setenv("BETDESK_PASSWORD", "secret")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://backend:9000" || cfg.Timeout != 3*time.Second || cfg.CloseDelay != 0 {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.Role != backend.RoleSuperAgent || cfg.Password != "secret" || cfg.Username != "ann" {
		t.Fatalf("env overlay: %+v", cfg)
	}
	if cfg.LoginPath != "/login.html" {
		t.Fatalf("default lost: %q", cfg.LoginPath)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"relative url": "base_url: /api\n",
		"bad role":     "role: admin\n",
		"bad log mode": "log_mode: loud\n",
		"bad yaml":     "role: [\n",
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	t.Setenv("BETDESK_TIMEOUT", "0s")
	if _, err := Load(""); err == nil {
		t.Fatalf("zero timeout must fail")
	}
}
