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

// Command dash drives the balance dashboard from a terminal against a live
// backend.
//
//	dash [-config file] [-url u] [-role r] [-user name -pass pw] <command> [flags]
//
// Commands: balance, notify, list, deposit, withdraw, create, bets, history, logout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/config"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/money"
	"github.com/zintix-labs/betdesk/server/logger"
	"github.com/zintix-labs/betdesk/term"
	"github.com/zintix-labs/betdesk/view"
)

// exit codes
const (
	exitOK       = 0
	exitFailed   = 1
	exitUsage    = 2
	exitRedirect = 3
)

type globals struct {
	configPath string
	url        string
	role       string
	user       string
	pass       string
}

type currencyFlag struct{ p *money.Currency }

func (f currencyFlag) String() string {
	if f.p == nil {
		return ""
	}
	return f.p.String()
}

func (f currencyFlag) Set(s string) error {
	c, err := money.ParseCurrency(s)
	if err != nil {
		return err
	}
	*f.p = c
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	g := new(globals)
	fs := flag.NewFlagSet("dash", flag.ContinueOnError)
	fs.StringVar(&g.configPath, "config", os.Getenv("BETDESK_CONFIG"), "YAML config file")
	fs.StringVar(&g.url, "url", "", "backend base URL (overrides config)")
	fs.StringVar(&g.role, "role", "", "page role: user|agent|superagent (overrides config)")
	fs.StringVar(&g.user, "user", "", "log in as this user first")
	fs.StringVar(&g.pass, "pass", "", "password for -user")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: dash [flags] <balance|notify|list|deposit|withdraw|create|bets|history|logout> [flags]")
		return exitUsage
	}

	cfg, err := g.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	log := logger.New(cfg.Mode())

	client, err := backend.New(backend.Options{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, Log: log})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Username != "" {
		res, err := client.Login(ctx, backend.Credentials{Username: cfg.Username, Password: cfg.Password})
		if err != nil {
			fmt.Fprintln(os.Stderr, "login:", errs.UserMessage(err, backend.FallbackMessage))
			return exitFailed
		}
		if g.role == "" && res.Role.Valid() {
			cfg.Role = res.Role
		}
	}

	redirected := false
	ctl := view.New(client, view.Options{
		Role:       cfg.Role,
		LoginPath:  cfg.LoginPath,
		CloseDelay: cfg.CloseDelay,
		Log:        log,
		Navigator: view.NavigatorFunc(func(to string) {
			redirected = true
		}),
	})
	defer ctl.Close()
	ctl.Attach(term.NewPrinter(os.Stdout))

	d := &dash{ctx: ctx, cfg: cfg, client: client, ctl: ctl}
	err = d.dispatch(fs.Arg(0), fs.Args()[1:])
	switch {
	case redirected:
		fmt.Fprintln(os.Stderr, "session rejected, log in again")
		return exitRedirect
	case errors.Is(err, errUsage):
		return exitUsage
	case err != nil:
		fmt.Fprintln(os.Stderr, errs.UserMessage(err, backend.FallbackMessage))
		return exitFailed
	}
	return exitOK
}

func (g *globals) load() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if g.url != "" {
		cfg.BaseURL = g.url
	}
	if g.role != "" {
		r, err := backend.ParseRole(g.role)
		if err != nil {
			return cfg, err
		}
		cfg.Role = r
	}
	if g.user != "" {
		cfg.Username, cfg.Password = g.user, g.pass
	}
	return cfg, cfg.Validate()
}
