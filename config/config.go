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

// Package config loads the dashboard client settings.
//
// Precedence, lowest first: built-in defaults, the YAML file, BETDESK_* variables.
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/server/logger"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "BETDESK_"

type Config struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Role      backend.Role  `yaml:"role" env:"ROLE"`
	LoginPath string        `yaml:"login_path" env:"LOGIN_PATH"`
	// CloseDelay keeps a succeeded transfer modal visible before it closes.
	CloseDelay time.Duration `yaml:"close_delay" env:"CLOSE_DELAY"`
	LogMode    string        `yaml:"log_mode" env:"LOG_MODE"`
	Username   string        `yaml:"username" env:"USERNAME"`
	Password   string        `yaml:"-" env:"PASSWORD"`
}

func Default() Config {
	return Config{
		BaseURL:    "http://localhost:5808",
		Timeout:    15 * time.Second,
		Role:       backend.RoleUser,
		LoginPath:  "/login.html",
		CloseDelay: 1500 * time.Millisecond,
		LogMode:    "silence",
	}
}

// Load applies path (skipped when empty or missing) and the environment on top
// of Default, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, errs.Wrap(err, "read config "+path)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errs.WrapWithExtra(err, "failed to unmarshal config yaml", path)
			}
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, errs.Wrap(err, "parse env")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errs.Warnf("base_url must be an absolute URL, got %q", c.BaseURL)
	}
	if !c.Role.Valid() {
		return errs.Warnf("role must be user, agent or superagent, got %q", c.Role)
	}
	if c.Timeout <= 0 {
		return errs.NewWarn("timeout must be positive")
	}
	if c.CloseDelay < 0 {
		return errs.NewWarn("close_delay cannot be negative")
	}
	if _, err := logger.ParseMode(c.LogMode); err != nil {
		return err
	}
	return nil
}

// Mode is the parsed LogMode. Validate has already rejected bad values.
func (c Config) Mode() logger.LogMode {
	m, _ := logger.ParseMode(c.LogMode)
	return m
}
