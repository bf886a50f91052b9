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

package view

import (
	"maps"
	"slices"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/money"
)

// View is the rendered page: the strings every display location shows.
type View struct {
	Authenticated bool
	Username      string
	// Symbol and Balance belong to the switcher; BalanceUSD/BalanceLBP to every
	// other location that shows a fixed currency.
	Symbol            string
	Balance           string
	BalanceUSD        string
	BalanceLBP        string
	Open              []Panel
	Notifications     []string
	NotificationCount int
	ListKind          ListKind
	Rows              []Row
	Modal             *Modal
	Errors            map[Widget]string
	RedirectTo        string
}

type Row struct {
	ID       string
	Username string
	USD      string
	LBP      string
}

type Modal struct {
	TargetID string
	Action   backend.Action
	Currency money.Currency
	Amount   string
	Done     bool
	Error    string
}

// Sink is a display location. Paint must be idempotent: painting the same View
// twice leaves the location as painting it once.
type Sink interface {
	Paint(v View)
}

type SinkFunc func(v View)

func (f SinkFunc) Paint(v View) { f(v) }

// Render projects s into a View. It is pure.
func Render(s State) View {
	v := View{
		Authenticated:     s.Authenticated,
		Username:          s.Session.Username,
		Symbol:            s.Selected.Symbol(),
		Balance:           money.Format(s.Selected, s.Session.Balance(s.Selected)),
		BalanceUSD:        money.Format(money.USD, s.Session.BalanceUSD),
		BalanceLBP:        money.Format(money.LBP, s.Session.BalanceLBP),
		NotificationCount: len(s.Notifications),
		ListKind:          s.List.Kind,
		Errors:            maps.Clone(s.Errors),
		RedirectTo:        s.RedirectTo,
	}

	kinds := slices.Sorted(maps.Keys(s.Open))
	for _, k := range kinds {
		v.Open = append(v.Open, Panel{Kind: k, Key: s.Open[k]})
	}

	for _, n := range s.Notifications {
		v.Notifications = append(v.Notifications, n.Message)
	}

	for _, a := range s.List.Rows {
		v.Rows = append(v.Rows, Row{
			ID:       a.ID,
			Username: a.Username,
			USD:      money.Format(money.USD, a.BalanceUSD),
			LBP:      money.Format(money.LBP, a.BalanceLBP),
		})
	}

	if p := s.Pending; p != nil {
		m := &Modal{
			TargetID: p.TargetID,
			Action:   p.Action,
			Currency: p.Currency,
			Done:     p.Done,
			Error:    s.Errors[WidgetModal],
		}
		if p.Amount > 0 {
			m.Amount = money.Format(p.Currency, p.Amount)
		}
		v.Modal = m
	}
	return v
}
