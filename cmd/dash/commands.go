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
	"flag"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/config"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/money"
	"github.com/zintix-labs/betdesk/pager"
	"github.com/zintix-labs/betdesk/term"
	"github.com/zintix-labs/betdesk/view"
)

var errUsage = errs.NewLog("usage")

type dash struct {
	ctx    context.Context
	cfg    config.Config
	client *backend.Client
	ctl    *view.Controller
}

func (d *dash) dispatch(cmd string, args []string) error {
	switch cmd {
	case "balance":
		return d.balance(args)
	case "notify":
		return d.notify()
	case "list":
		return d.list()
	case "deposit":
		return d.transfer(backend.Deposit, args)
	case "withdraw":
		return d.transfer(backend.Withdraw, args)
	case "create":
		return d.create(args)
	case "bets":
		return d.bets(args)
	case "history":
		return d.history(args)
	case "logout":
		return d.ctl.Logout(d.ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		return errUsage
	}
}

func parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func (d *dash) balance(args []string) error {
	cur := money.USD
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	fs.Var(currencyFlag{&cur}, "currency", "USD or LBP")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := d.ctl.Init(d.ctx); err != nil {
		return err
	}
	d.ctl.SetSelectedCurrency(cur)
	return nil
}

func (d *dash) notify() error {
	if err := d.ctl.Init(d.ctx); err != nil {
		return err
	}
	d.ctl.TogglePanel(view.Panel{Kind: view.PanelNotifications})
	return d.ctl.LoadNotifications(d.ctx)
}

func (d *dash) list() error {
	if err := d.ctl.Init(d.ctx); err != nil {
		return err
	}
	return d.ctl.ShowList(d.ctx)
}

func (d *dash) transfer(action backend.Action, args []string) error {
	cur := money.USD
	var target string
	var amount float64
	fs := flag.NewFlagSet(string(action), flag.ContinueOnError)
	fs.StringVar(&target, "target", "", "account id (see `dash list`)")
	fs.Float64Var(&amount, "amount", 0, "amount to move")
	fs.Var(currencyFlag{&cur}, "currency", "USD or LBP")
	if err := parse(fs, args); err != nil {
		return err
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "-target is required")
		return errUsage
	}
	if err := d.ctl.Init(d.ctx); err != nil {
		return err
	}
	if err := d.ctl.ShowList(d.ctx); err != nil {
		return err
	}
	d.ctl.OpenAction(target, action, cur)
	return d.ctl.SubmitAction(d.ctx, amount)
}

func (d *dash) create(args []string) error {
	var cred backend.Credentials
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.StringVar(&cred.Username, "username", "", "new account username")
	fs.StringVar(&cred.Password, "password", "", "new account password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := d.ctl.Init(d.ctx); err != nil {
		return err
	}
	if err := d.ctl.ShowList(d.ctx); err != nil {
		return err
	}
	_, err := d.ctl.CreateAccount(d.ctx, cred)
	return err
}

func (d *dash) bets(args []string) error {
	var username string
	var limit int
	var all bool
	fs := flag.NewFlagSet("bets", flag.ContinueOnError)
	fs.StringVar(&username, "username", d.cfg.Username, "whose bets (yourself or a direct subordinate)")
	fs.IntVar(&limit, "limit", pager.DefaultLimit, "page size")
	fs.BoolVar(&all, "all", false, "walk every page and print a summary")
	if err := parse(fs, args); err != nil {
		return err
	}
	if username == "" {
		fmt.Fprintln(os.Stderr, "-username is required")
		return errUsage
	}
	if !all {
		page, err := d.client.BetHistory(d.ctx, backend.BetQuery{Username: username, Limit: limit})
		if err != nil {
			return d.authFailed(err)
		}
		fmt.Print(term.Bets("bets "+username, page.Bets))
		if page.Pagination.HasNextPage {
			fmt.Println("more: -all")
		}
		return nil
	}

	bar := pb.New(0)
	bar.SetTemplateString(`{{counter . }} bets {{etime . }}`)
	bar.SetWriter(os.Stderr)
	bar.Start()
	bets, err := pager.CollectBets(d.ctx, d.client, username, limit, func(n int) { bar.Add(n) })
	bar.Finish()
	if err != nil {
		return d.authFailed(err)
	}
	fmt.Print(term.Bets("bets "+username, bets))
	fmt.Print(term.Summary(pager.Summarize(bets)))
	return nil
}

func (d *dash) history(args []string) error {
	var kind string
	var all bool
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.StringVar(&kind, "kind", "deposit", "deposit or withdraw")
	fs.BoolVar(&all, "all", false, "walk every page")
	if err := parse(fs, args); err != nil {
		return err
	}
	hk := backend.HistoryKind(kind)
	if hk != backend.DepositHistory && hk != backend.WithdrawHistory {
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", kind)
		return errUsage
	}
	var rows []backend.Movement
	if all {
		ms, err := pager.CollectMovements(d.ctx, d.client, hk)
		if err != nil {
			return d.authFailed(err)
		}
		rows = ms
	} else {
		it := pager.NewMovements(d.client, hk)
		ms, err := it.Next(d.ctx)
		if err != nil {
			return d.authFailed(err)
		}
		rows = ms
	}
	fmt.Print(term.Movements(kind+" history", rows))
	return nil
}

// authFailed sends pager errors through the controller so a rejected session
// ends in the same redirect as every other widget.
func (d *dash) authFailed(err error) error {
	if errs.IsAuth(err) {
		_ = d.ctl.Init(d.ctx)
	}
	return err
}
