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
	"slices"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/money"
)

// Event is anything that changes page state.
type Event interface{ event() }

type (
	// RequestIssued bumps the sequence counter of Class.
	RequestIssued struct{ Class ActionClass }

	SessionLoaded struct {
		Seq     uint64
		Session backend.Session
	}
	// SessionFailed always means "not authenticated".
	SessionFailed struct {
		Seq       uint64
		LoginPath string
	}
	Redirected struct{ To string }

	BalanceUpdated struct {
		Currency money.Currency
		Amount   float64
	}
	CurrencySelected struct{ Currency money.Currency }

	PanelToggled struct{ Panel Panel }
	// Clicked carries the element ids from the click target up to the root.
	Clicked struct{ Path []string }

	NotificationsLoaded struct {
		Seq   uint64
		Items []backend.Notification
	}

	ListShown  struct{ Kind ListKind }
	ListLoaded struct {
		Seq  uint64
		Kind ListKind
		Rows []backend.Account
	}

	ActionOpened struct {
		TargetID string
		Action   backend.Action
		Currency money.Currency
	}
	ActionSubmitted struct {
		Seq      uint64
		Amount   float64
		Currency money.Currency
	}
	ActionSucceeded struct{ Seq uint64 }
	ActionFailed    struct {
		Seq     uint64
		Message string
	}
	// ActionClosed with Seq zero is a user close; otherwise it only closes the
	// modal whose submit carried Seq.
	ActionClosed struct{ Seq uint64 }

	CreateSucceeded struct{ Seq uint64 }

	// WidgetFailed shows Message inline on Widget. A non-zero Seq must be the
	// latest of Class.
	WidgetFailed struct {
		Class   ActionClass
		Seq     uint64
		Widget  Widget
		Message string
	}
)

func (RequestIssued) event()       {}
func (SessionLoaded) event()       {}
func (SessionFailed) event()       {}
func (Redirected) event()          {}
func (BalanceUpdated) event()      {}
func (CurrencySelected) event()    {}
func (PanelToggled) event()        {}
func (Clicked) event()             {}
func (NotificationsLoaded) event() {}
func (ListShown) event()           {}
func (ListLoaded) event()          {}
func (ActionOpened) event()        {}
func (ActionSubmitted) event()     {}
func (ActionSucceeded) event()     {}
func (ActionFailed) event()        {}
func (ActionClosed) event()        {}
func (CreateSucceeded) event()     {}
func (WidgetFailed) event()        {}

// Reduce maps (state, event) to the next state. It never mutates s.
func Reduce(s State, ev Event) State {
	n := s.clone()
	switch e := ev.(type) {
	case RequestIssued:
		n.Issued[e.Class]++

	case SessionLoaded:
		if !s.Latest(ClassSession, e.Seq) {
			return s
		}
		n.Session = e.Session
		if e.Session.Username == "" {
			n.Session.Username = s.Session.Username
		}
		n.Session.BalanceUSD = money.Normalize(money.USD, e.Session.BalanceUSD)
		n.Session.BalanceLBP = money.Normalize(money.LBP, e.Session.BalanceLBP)
		n.Authenticated = true

	case SessionFailed:
		if !s.Latest(ClassSession, e.Seq) {
			return s
		}
		n.Authenticated = false
		n.RedirectTo = e.LoginPath

	case Redirected:
		n.RedirectTo = e.To

	case BalanceUpdated:
		if !e.Currency.Valid() {
			return s
		}
		n.Session = s.Session.WithBalance(e.Currency, money.Normalize(e.Currency, e.Amount))

	case CurrencySelected:
		if !e.Currency.Valid() {
			return s
		}
		n.Selected = e.Currency

	case PanelToggled:
		if s.IsOpen(e.Panel) {
			delete(n.Open, e.Panel.Kind)
		} else {
			n.Open[e.Panel.Kind] = e.Panel.Key
		}

	case Clicked:
		for kind, key := range s.Open {
			p := Panel{Kind: kind, Key: key}
			if !slices.Contains(e.Path, p.ToggleID()) && !slices.Contains(e.Path, p.PanelID()) {
				delete(n.Open, kind)
			}
		}

	case NotificationsLoaded:
		if !s.Latest(ClassNotifications, e.Seq) {
			return s
		}
		n.Notifications = slices.Clone(e.Items)
		delete(n.Errors, WidgetNotifications)

	case ListShown:
		if e.Kind != s.List.Kind {
			n.List = ListView{Kind: e.Kind}
		}

	case ListLoaded:
		if !s.Latest(ClassList, e.Seq) || e.Kind != s.List.Kind {
			return s
		}
		n.List = ListView{Kind: e.Kind, Rows: slices.Clone(e.Rows)}
		delete(n.Errors, WidgetList)

	case ActionOpened:
		if !e.Action.Valid() {
			return s
		}
		cur := e.Currency
		if !cur.Valid() {
			cur = s.Selected
		}
		n.Pending = &PendingAction{TargetID: e.TargetID, Action: e.Action, Currency: cur}
		delete(n.Errors, WidgetModal)

	case ActionSubmitted:
		if n.Pending == nil {
			return s
		}
		n.Pending.Seq = e.Seq
		n.Pending.Amount = e.Amount
		n.Pending.Currency = e.Currency
		n.Pending.Done = false
		delete(n.Errors, WidgetModal)

	case ActionSucceeded:
		if n.Pending == nil || n.Pending.Seq != e.Seq || !s.Latest(ClassTransfer, e.Seq) {
			return s
		}
		n.Pending.Done = true

	case ActionFailed:
		if n.Pending == nil || n.Pending.Seq != e.Seq || !s.Latest(ClassTransfer, e.Seq) {
			return s
		}
		n.Errors[WidgetModal] = e.Message

	case ActionClosed:
		if n.Pending == nil || (e.Seq != 0 && n.Pending.Seq != e.Seq) {
			return s
		}
		n.Pending = nil
		delete(n.Errors, WidgetModal)

	case CreateSucceeded:
		if !s.Latest(ClassCreate, e.Seq) {
			return s
		}
		delete(n.Errors, WidgetCreate)

	case WidgetFailed:
		if e.Seq != 0 && !s.Latest(e.Class, e.Seq) {
			return s
		}
		n.Errors[e.Widget] = e.Message

	default:
		return s
	}
	return n
}
