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

package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zintix-labs/betdesk/server"
	"github.com/zintix-labs/betdesk/server/logger"
	"github.com/zintix-labs/betdesk/server/netsvr"
	"github.com/zintix-labs/betdesk/server/store"
	"github.com/zintix-labs/betdesk/server/svrcfg"
)

// 本地執行與展示用的參考後端。狀態只存在記憶體，重啟即重置。
func main() {
	cfg, closeLog, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	if err := server.Run(context.Background(), cfg); err != nil {
		closeLog()
		os.Exit(1)
	}
}

type config struct {
	LogMode      string
	Addr         string
	Fixtures     string
	Secret       string
	TTL          time.Duration
	SecureCookie bool
	Dev          bool
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, func(), error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Addr, "addr", netsvr.DefaultAddr, "listen address")
	flag.StringVar(&cfg.Fixtures, "fixtures", "", "YAML fixture file (default: embedded demo data)")
	flag.StringVar(&cfg.Secret, "secret", os.Getenv("BETDESK_SECRET"), "session signing secret, at least 16 bytes (default: random per run)")
	flag.DurationVar(&cfg.TTL, "ttl", 12*time.Hour, "session lifetime")
	flag.BoolVar(&cfg.SecureCookie, "secure-cookie", false, "mark the session cookie Secure")
	flag.BoolVar(&cfg.Dev, "dev", true, "mount /dev/accounts")
	flag.Parse()

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(4096, mode)

	fx, err := cfg.fixture()
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	st, err := store.New(fx)
	if err != nil {
		ah.Close()
		return nil, nil, err
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
		log.Warn("svr.secret", slog.String("msg", "no secret given, sessions end on restart"))
	}
	return &svrcfg.SvrCfg{
		Log:          log,
		Addr:         cfg.Addr,
		Store:        st,
		Secret:       secret,
		TokenTTL:     cfg.TTL,
		CookieSecure: cfg.SecureCookie,
		Dev:          cfg.Dev,
	}, ah.Close, nil
}

func (cfg *config) fixture() (store.Fixture, error) {
	if cfg.Fixtures == "" {
		return store.DefaultFixture()
	}
	return store.LoadFixture(cfg.Fixtures)
}
