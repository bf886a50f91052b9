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

// Package view is the session-bound view controller of an authenticated page.
//
// The Controller probes the session once, keeps the balance cache in an explicit
// State, and hands the same *Controller (through the Balances interface) to every
// widget that needs to read or patch balances. All changes go through Reduce;
// Render projects the result to every attached Sink.
//
// Network-backed actions carry a per-class sequence number. A response is applied
// only if no newer request of the same class was issued after it.
package view

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/money"
)

// DefaultLoginPath is where every failed session probe sends the user.
const DefaultLoginPath = "/login.html"

const invalidAmountMessage = "Please enter a valid amount."

// Backend is the part of the API a page controller talks to.
// *backend.Client satisfies it.
type Backend interface {
	Session(ctx context.Context, role backend.Role) (backend.Session, error)
	Accounts(ctx context.Context, role backend.Role) ([]backend.Account, error)
	Transfer(ctx context.Context, role backend.Role, t backend.Transfer) error
	CreateAccount(ctx context.Context, role backend.Role, cred backend.Credentials) (backend.Account, error)
	Notifications(ctx context.Context) ([]backend.Notification, error)
	Logout(ctx context.Context) error
}

// Navigator performs page navigation.
type Navigator interface {
	Redirect(to string)
}

type NavigatorFunc func(to string)

func (f NavigatorFunc) Redirect(to string) { f(to) }

// Balances is what sibling widgets get: cache access without network calls.
type Balances interface {
	Session() (backend.Session, bool)
	UpdateBalance(c money.Currency, amount float64)
	SelectedCurrency() money.Currency
	SetSelectedCurrency(c money.Currency)
}

type Options struct {
	Role      backend.Role
	LoginPath string
	// CloseDelay is how long a succeeded modal stays up. Zero closes it at once.
	CloseDelay time.Duration
	Navigator  Navigator
	Log        *slog.Logger
}

type Controller struct {
	role backend.Role
	be   Backend
	opt  Options
	log  *slog.Logger

	mu        sync.Mutex
	state     State
	view      View
	sinks     []Sink
	navigated bool
	timers    map[*time.Timer]struct{}
	closed    bool
}

var _ Balances = (*Controller)(nil)

func New(be Backend, opt Options) *Controller {
	if opt.Role == "" {
		opt.Role = backend.RoleUser
	}
	if opt.LoginPath == "" {
		opt.LoginPath = DefaultLoginPath
	}
	log := opt.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	st := NewState(opt.Role)
	return &Controller{
		role:   opt.Role,
		be:     be,
		opt:    opt,
		log:    log.With(slog.String("role", string(opt.Role))),
		state:  st,
		view:   Render(st),
		timers: map[*time.Timer]struct{}{},
	}
}

// Attach registers a display location and paints the current view on it.
// Sinks are painted under the controller lock and must not call back into it.
func (c *Controller) Attach(s Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, s)
	s.Paint(c.view)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View returns the last rendered view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// step computes events from the current state and applies them atomically.
// It reports whether any event was applied.
func (c *Controller) step(fn func(s State) []Event) bool {
	c.mu.Lock()
	evs := fn(c.state)
	if len(evs) == 0 {
		c.mu.Unlock()
		return false
	}
	for _, ev := range evs {
		c.state = Reduce(c.state, ev)
	}
	c.view = Render(c.state)
	for _, s := range c.sinks {
		s.Paint(c.view)
	}
	to := ""
	if c.state.RedirectTo != "" && !c.navigated {
		c.navigated = true
		to = c.state.RedirectTo
	}
	c.mu.Unlock()

	if to != "" {
		c.log.Info("view.redirect", slog.String("to", to))
		if c.opt.Navigator != nil {
			c.opt.Navigator.Redirect(to)
		}
	}
	return true
}

func (c *Controller) dispatch(evs ...Event) {
	c.step(func(State) []Event { return evs })
}

// issue reserves the next sequence number of class.
func (c *Controller) issue(class ActionClass) uint64 {
	var seq uint64
	c.step(func(s State) []Event {
		seq = s.Issued[class] + 1
		return []Event{RequestIssued{Class: class}}
	})
	return seq
}

// fail routes err: auth failures end the page, everything else is shown inline.
func (c *Controller) fail(class ActionClass, seq uint64, w Widget, err error) {
	if errs.IsAuth(err) {
		c.dispatch(Redirected{To: c.opt.LoginPath})
		return
	}
	c.log.Warn("view.action_failed", slog.String("class", string(class)), slog.Any("err", err))
	c.dispatch(WidgetFailed{Class: class, Seq: seq, Widget: w, Message: errs.UserMessage(err, backend.FallbackMessage)})
}

// Init probes the session. Any failure redirects to the login page; nothing is retried.
func (c *Controller) Init(ctx context.Context) error {
	seq := c.issue(ClassSession)
	s, err := c.be.Session(ctx, c.role)
	if err != nil {
		c.log.Info("view.session_failed", slog.Any("err", err))
		c.dispatch(SessionFailed{Seq: seq, LoginPath: c.opt.LoginPath})
		return errs.Wrap(err, "session probe")
	}
	c.dispatch(SessionLoaded{Seq: seq, Session: s})
	return nil
}

// refreshSession reconciles the cache with the backend after a mutation.
func (c *Controller) refreshSession(ctx context.Context) {
	seq := c.issue(ClassSession)
	s, err := c.be.Session(ctx, c.role)
	if err != nil {
		if errs.IsAuth(err) {
			c.dispatch(SessionFailed{Seq: seq, LoginPath: c.opt.LoginPath})
			return
		}
		c.log.Warn("view.session_refresh_failed", slog.Any("err", err))
		return
	}
	c.dispatch(SessionLoaded{Seq: seq, Session: s})
}

// Session returns the cached session and whether the probe succeeded.
func (c *Controller) Session() (backend.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Session, c.state.Authenticated
}

// UpdateBalance overwrites the cached amount and repaints every location.
func (c *Controller) UpdateBalance(cur money.Currency, amount float64) {
	c.dispatch(BalanceUpdated{Currency: cur, Amount: amount})
}

// SelectedCurrency reads the switcher back from what is rendered.
func (c *Controller) SelectedCurrency() money.Currency {
	c.mu.Lock()
	sym := c.view.Symbol
	c.mu.Unlock()
	if cur, ok := money.FromSymbol(sym); ok {
		return cur
	}
	return money.USD
}

// SetSelectedCurrency switches the balance display. Unsupported currencies are ignored.
func (c *Controller) SetSelectedCurrency(cur money.Currency) {
	if !cur.Valid() {
		return
	}
	c.dispatch(CurrencySelected{Currency: cur})
}

// TogglePanel opens or closes p. Panels of other kinds are left alone.
func (c *Controller) TogglePanel(p Panel) {
	c.dispatch(PanelToggled{Panel: p})
}

// Click reports a click whose element path (target first) is path. Every open
// panel the click is outside of closes.
func (c *Controller) Click(path ...string) {
	c.dispatch(Clicked{Path: path})
}

func (c *Controller) LoadNotifications(ctx context.Context) error {
	seq := c.issue(ClassNotifications)
	items, err := c.be.Notifications(ctx)
	if err != nil {
		c.fail(ClassNotifications, seq, WidgetNotifications, err)
		return err
	}
	c.dispatch(NotificationsLoaded{Seq: seq, Items: items})
	return nil
}

// ShowList displays the role's subordinate list and loads it.
func (c *Controller) ShowList(ctx context.Context) error {
	kind := ListKindFor(c.role)
	if kind == ListNone {
		return errs.Warnf("role %q has no account list", c.role)
	}
	c.dispatch(ListShown{Kind: kind})
	return c.RefreshList(ctx)
}

// RefreshList re-fetches the displayed list. Without a list on screen it does nothing.
func (c *Controller) RefreshList(ctx context.Context) error {
	kind := c.State().List.Kind
	if kind == ListNone {
		return nil
	}
	seq := c.issue(ClassList)
	rows, err := c.be.Accounts(ctx, c.role)
	if err != nil {
		c.fail(ClassList, seq, WidgetList, err)
		return err
	}
	c.dispatch(ListLoaded{Seq: seq, Kind: kind, Rows: rows})
	return nil
}

// OpenAction opens the deposit/withdraw modal for one subordinate account.
// An invalid currency falls back to the switcher's.
func (c *Controller) OpenAction(targetID string, action backend.Action, cur money.Currency) {
	c.dispatch(ActionOpened{TargetID: targetID, Action: action, Currency: cur})
}

func (c *Controller) CloseAction() {
	c.dispatch(ActionClosed{})
}

// SetActionCurrency changes the currency of the open modal before submit.
func (c *Controller) SetActionCurrency(cur money.Currency) {
	if !cur.Valid() {
		return
	}
	c.step(func(s State) []Event {
		if s.Pending == nil {
			return nil
		}
		p := s.Pending
		return []Event{ActionOpened{TargetID: p.TargetID, Action: p.Action, Currency: cur}}
	})
}

// SubmitAction sends the open modal's transfer.
//
// On success: the acting principal's cached balance moves by the amount
// (deposit spends, withdraw collects), the session is re-read, the list on
// screen is refreshed, and the modal closes after CloseDelay. On failure the
// modal stays open with the backend's message.
func (c *Controller) SubmitAction(ctx context.Context, amount float64) error {
	st := c.State()
	p := st.Pending
	if p == nil {
		return errs.NewWarn("no pending action")
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		c.dispatch(WidgetFailed{Widget: WidgetModal, Message: invalidAmountMessage})
		return errs.NewWarn(invalidAmountMessage)
	}
	amount = money.Normalize(p.Currency, amount)
	if amount <= 0 {
		c.dispatch(WidgetFailed{Widget: WidgetModal, Message: invalidAmountMessage})
		return errs.NewWarn(invalidAmountMessage)
	}

	seq := c.issue(ClassTransfer)
	c.dispatch(ActionSubmitted{Seq: seq, Amount: amount, Currency: p.Currency})

	t := backend.Transfer{TargetID: p.TargetID, Action: p.Action, Amount: amount, Currency: p.Currency}
	if err := c.be.Transfer(ctx, c.role, t); err != nil {
		if errs.IsAuth(err) {
			c.dispatch(Redirected{To: c.opt.LoginPath})
			return err
		}
		c.log.Warn("view.transfer_failed", slog.String("target", t.TargetID), slog.Any("err", err))
		c.dispatch(ActionFailed{Seq: seq, Message: errs.UserMessage(err, backend.FallbackMessage)})
		return err
	}

	applied := c.step(func(s State) []Event {
		if !s.Latest(ClassTransfer, seq) || s.Pending == nil || s.Pending.Seq != seq {
			return nil
		}
		delta := amount
		if t.Action == backend.Deposit {
			delta = -amount
		}
		return []Event{
			ActionSucceeded{Seq: seq},
			BalanceUpdated{Currency: t.Currency, Amount: s.Session.Balance(t.Currency) + delta},
		}
	})
	if !applied {
		c.log.Debug("view.stale_transfer", slog.Uint64("seq", seq))
		return nil
	}

	c.refreshSession(ctx)
	if err := c.RefreshList(ctx); err != nil {
		c.log.Warn("view.list_refresh_failed", slog.Any("err", err))
	}
	c.closeLater(seq)
	return nil
}

func (c *Controller) closeLater(seq uint64) {
	if c.opt.CloseDelay <= 0 {
		c.dispatch(ActionClosed{Seq: seq})
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	var t *time.Timer
	// the callback takes c.mu before reading t, so t is set by then
	t = time.AfterFunc(c.opt.CloseDelay, func() {
		c.mu.Lock()
		delete(c.timers, t)
		stopped := c.closed
		c.mu.Unlock()
		if !stopped {
			c.dispatch(ActionClosed{Seq: seq})
		}
	})
	c.timers[t] = struct{}{}
}

// CreateAccount creates a subordinate account and refreshes the list on screen.
func (c *Controller) CreateAccount(ctx context.Context, cred backend.Credentials) (backend.Account, error) {
	seq := c.issue(ClassCreate)
	acct, err := c.be.CreateAccount(ctx, c.role, cred)
	if err != nil {
		c.fail(ClassCreate, seq, WidgetCreate, err)
		return backend.Account{}, err
	}
	if !c.step(func(s State) []Event {
		if !s.Latest(ClassCreate, seq) {
			return nil
		}
		return []Event{CreateSucceeded{Seq: seq}}
	}) {
		return acct, nil
	}
	if err := c.RefreshList(ctx); err != nil {
		c.log.Warn("view.list_refresh_failed", slog.Any("err", err))
	}
	return acct, nil
}

// Logout ends the session and leaves the page whatever the backend answers.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.be.Logout(ctx)
	if err != nil {
		c.log.Warn("view.logout_failed", slog.Any("err", err))
	}
	c.dispatch(Redirected{To: c.opt.LoginPath})
	return err
}

// Close stops pending modal timers. The controller stays readable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for t := range c.timers {
		t.Stop()
		delete(c.timers, t)
	}
}
