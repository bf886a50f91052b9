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

package term

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/money"
	"github.com/zintix-labs/betdesk/pager"
	"github.com/zintix-labs/betdesk/view"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var p = message.NewPrinter(language.English)

// Printer is a view.Sink writing one frame per distinct view. Painting the same
// view twice writes nothing the second time.
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

var _ view.Sink = (*Printer)(nil)

func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

func (pr *Printer) Paint(v view.View) {
	frame := Frame(v)
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if frame == pr.last {
		return
	}
	pr.last = frame
	_, _ = io.WriteString(pr.w, frame)
}

// Frame renders v as text.
func Frame(v view.View) string {
	var b strings.Builder
	if v.RedirectTo != "" {
		b.WriteString("→ " + v.RedirectTo + "\n")
		return b.String()
	}
	if !v.Authenticated {
		b.WriteString("loading…\n")
		return b.String()
	}

	who := v.Username
	if who == "" {
		who = "(account)"
	}
	fmt.Fprintf(&b, "%s  %s  [USD %s | LBP %s]", who, v.Balance, v.BalanceUSD, v.BalanceLBP)
	if v.NotificationCount > 0 {
		fmt.Fprintf(&b, "  ✉ %d", v.NotificationCount)
	}
	b.WriteString("\n")

	for _, pn := range v.Open {
		b.WriteString("  open: " + pn.PanelID() + "\n")
	}
	if slices.ContainsFunc(v.Open, func(pn view.Panel) bool { return pn.Kind == view.PanelNotifications }) {
		for i, n := range v.Notifications {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, n)
		}
	}

	if v.ListKind != view.ListNone {
		rows := make([][]string, 0, len(v.Rows))
		for _, r := range v.Rows {
			rows = append(rows, []string{r.ID, r.Username, r.USD, r.LBP})
		}
		b.WriteString(Grid(string(v.ListKind), []string{"ID", "Username", "USD", "LBP"}, rows, 2, 3))
	}

	if m := v.Modal; m != nil {
		state := "open"
		switch {
		case m.Done:
			state = "done"
		case m.Error != "":
			state = "error: " + m.Error
		}
		fmt.Fprintf(&b, "[%s %s %s %s] %s\n", m.Action, m.TargetID, m.Currency, m.Amount, state)
	}

	keys := make([]view.Widget, 0, len(v.Errors))
	for k := range v.Errors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "! %s: %s\n", k, v.Errors[k])
	}
	return b.String()
}

func amount(cur string, v float64) string {
	c, err := money.ParseCurrency(cur)
	if err != nil {
		return p.Sprintf("%.2f %s", v, cur)
	}
	return money.Format(c, v)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// Bets renders a bet table.
func Bets(title string, bets []backend.Bet) string {
	rows := make([][]string, 0, len(bets))
	for _, bt := range bets {
		rows = append(rows, []string{stamp(bt.CreatedAt), bt.ID, bt.Game, amount(bt.Currency, bt.Amount), amount(bt.Currency, bt.Payout), bt.Status})
	}
	return Grid(title, []string{"Time", "ID", "Game", "Stake", "Payout", "Status"}, rows, 3, 4)
}

// Movements renders deposit or withdraw history.
func Movements(title string, ms []backend.Movement) string {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		via := m.Network
		if via == "" {
			via = m.Address
		}
		rows = append(rows, []string{stamp(m.CreatedAt), m.ID, amount(m.Currency, m.Amount), via, m.Status})
	}
	return Grid(title, []string{"Time", "ID", "Amount", "Via", "Status"}, rows, 2)
}

// Summary renders one KV table per currency, in currency order.
func Summary(sums map[string]pager.Summary) string {
	curs := make([]string, 0, len(sums))
	for c := range sums {
		curs = append(curs, c)
	}
	slices.Sort(curs)
	keys := []string{"Bets", "Staked", "Paid", "Wins", "Win Rate", "Net Mean", "Net Std"}
	var b strings.Builder
	for _, c := range curs {
		s := sums[c]
		b.WriteString(KV("Bets "+c, keys, map[string]string{
			"Bets":     p.Sprintf("%d", s.Count),
			"Staked":   amount(c, s.Staked),
			"Paid":     amount(c, s.Paid),
			"Wins":     p.Sprintf("%d", s.Wins),
			"Win Rate": p.Sprintf("%.2f%%", s.WinRate*100),
			"Net Mean": p.Sprintf("%.4f", s.NetMean),
			"Net Std":  p.Sprintf("%.4f", s.NetStd),
		}))
	}
	return b.String()
}
