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
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/money"
)

// fakeBackend keeps one principal and its subordinates in memory.
type fakeBackend struct {
	mu          sync.Mutex
	session     backend.Session
	sessionErr  error
	accounts    []backend.Account
	transferErr error
	createErr   error
	notes       []backend.Notification
	calls       map[string]int
}

func newFake() *fakeBackend {
	return &fakeBackend{
		session: backend.Session{Username: "ann", BalanceUSD: 100, BalanceLBP: 1_000_000},
		accounts: []backend.Account{
			{ID: "u1", Username: "bob", BalanceUSD: 5},
			{ID: "u2", Username: "cid", BalanceUSD: 0},
		},
		calls: map[string]int{},
	}
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Session(ctx context.Context, role backend.Role) (backend.Session, error) {
	f.hit("session")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return backend.Session{}, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeBackend) Accounts(ctx context.Context, role backend.Role) ([]backend.Account, error) {
	f.hit("accounts")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backend.Account, len(f.accounts))
	copy(out, f.accounts)
	return out, nil
}

func (f *fakeBackend) Transfer(ctx context.Context, role backend.Role, t backend.Transfer) error {
	f.hit("transfer")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transferErr != nil {
		return f.transferErr
	}
	sign := 1.0
	if t.Action == backend.Withdraw {
		sign = -1
	}
	for i := range f.accounts {
		if f.accounts[i].ID == t.TargetID {
			if t.Currency == money.USD {
				f.accounts[i].BalanceUSD += sign * t.Amount
			} else {
				f.accounts[i].BalanceLBP += sign * t.Amount
			}
		}
	}
	f.session = f.session.WithBalance(t.Currency, f.session.Balance(t.Currency)-sign*t.Amount)
	return nil
}

func (f *fakeBackend) CreateAccount(ctx context.Context, role backend.Role, cred backend.Credentials) (backend.Account, error) {
	f.hit("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return backend.Account{}, f.createErr
	}
	a := backend.Account{ID: "new-" + cred.Username, Username: cred.Username}
	f.accounts = append(f.accounts, a)
	return a, nil
}

func (f *fakeBackend) Notifications(ctx context.Context) ([]backend.Notification, error) {
	f.hit("notifications")
	return f.notes, nil
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.hit("logout")
	return nil
}

type recorder struct {
	mu    sync.Mutex
	to    []string
	views []View
}

func (r *recorder) Redirect(to string) {
	r.mu.Lock()
	r.to = append(r.to, to)
	r.mu.Unlock()
}

func (r *recorder) Paint(v View) {
	r.mu.Lock()
	r.views = append(r.views, v)
	r.mu.Unlock()
}

func (r *recorder) last() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[len(r.views)-1]
}

func TestInitRendersSessionBalances(t *testing.T) {
	f := newFake()
	f.session = backend.Session{Username: "bob", BalanceUSD: 12.5, BalanceLBP: 150000}
	rec := &recorder{}
	c := New(f, Options{Role: backend.RoleUser, Navigator: rec})
	c.Attach(rec)

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	v := rec.last()
	if !v.Authenticated || v.Username != "bob" {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Balance != "$12.50" {
		t.Fatalf("usd balance: got %q", v.Balance)
	}
	c.SetSelectedCurrency(money.LBP)
	if got := rec.last().Balance; got != "£150,000" {
		t.Fatalf("lbp balance: got %q", got)
	}
	if c.SelectedCurrency() != money.LBP {
		t.Fatalf("selected currency should follow rendered symbol")
	}
	if len(rec.to) != 0 {
		t.Fatalf("unexpected redirect %v", rec.to)
	}
	s, ok := c.Session()
	if !ok || s.BalanceLBP != 150000 {
		t.Fatalf("shared session slot: %+v ok=%v", s, ok)
	}
}

func TestInitFailureRedirectsToLogin(t *testing.T) {
	failures := map[string]error{
		"401":     errs.NewAuth("Unauthorized"),
		"403":     errs.NewAuth("Forbidden"),
		"network": errs.Wrap(context.DeadlineExceeded, "backend unreachable"),
		"server":  errs.NewWarn("boom"),
	}
	roles := []backend.Role{backend.RoleUser, backend.RoleAgent, backend.RoleSuperAgent}
	for name, ferr := range failures {
		for _, role := range roles {
			f := newFake()
			f.sessionErr = ferr
			rec := &recorder{}
			c := New(f, Options{Role: role, Navigator: rec})
			if err := c.Init(context.Background()); err == nil {
				t.Fatalf("%s/%s: expected error", name, role)
			}
			if len(rec.to) != 1 || rec.to[0] != "/login.html" {
				t.Fatalf("%s/%s: expected one redirect to login, got %v", name, role, rec.to)
			}
			if f.count("session") != 1 {
				t.Fatalf("%s/%s: session probe must not retry", name, role)
			}
		}
	}
}

func TestSetSelectedCurrencyIgnoresUnsupported(t *testing.T) {
	c := New(newFake(), Options{})
	_ = c.Init(context.Background())
	c.SetSelectedCurrency(money.LBP)
	c.SetSelectedCurrency(money.Currency("EUR"))
	if c.SelectedCurrency() != money.LBP {
		t.Fatalf("unsupported currency must be a no-op")
	}
}

func TestUpdateBalanceRepaintsEveryLocation(t *testing.T) {
	f := newFake()
	c := New(f, Options{})
	navbar, dashboard := &recorder{}, &recorder{}
	c.Attach(navbar)
	c.Attach(dashboard)
	_ = c.Init(context.Background())
	calls := f.count("session")

	c.UpdateBalance(money.USD, 42.1)
	for _, r := range []*recorder{navbar, dashboard} {
		v := r.last()
		if v.BalanceUSD != "$42.10" || v.Balance != "$42.10" {
			t.Fatalf("location not repainted: %+v", v)
		}
	}
	c.UpdateBalance(money.LBP, 2500.9)
	if got := navbar.last().BalanceLBP; got != "£2,500" {
		t.Fatalf("lbp location: %q", got)
	}
	if f.count("session") != calls {
		t.Fatalf("UpdateBalance must not hit the network")
	}
}

func TestPanelsToggleIndependently(t *testing.T) {
	c := New(newFake(), Options{})
	bal := Panel{Kind: PanelBalance}
	notes := Panel{Kind: PanelNotifications}
	c.TogglePanel(bal)
	c.TogglePanel(notes)
	st := c.State()
	if !st.IsOpen(bal) || !st.IsOpen(notes) {
		t.Fatalf("opening one panel must not close another kind: %+v", st.Open)
	}

	rowA := Panel{Kind: PanelRowMenu, Key: "u1"}
	rowB := Panel{Kind: PanelRowMenu, Key: "u2"}
	c.TogglePanel(rowA)
	c.TogglePanel(rowB)
	st = c.State()
	if st.IsOpen(rowA) || !st.IsOpen(rowB) {
		t.Fatalf("one panel per kind: %+v", st.Open)
	}

	c.TogglePanel(bal)
	if c.State().IsOpen(bal) {
		t.Fatalf("second toggle should close")
	}
}

func TestOutsideClickClosesOnlyPanelsItIsOutsideOf(t *testing.T) {
	c := New(newFake(), Options{})
	bal := Panel{Kind: PanelBalance}
	notes := Panel{Kind: PanelNotifications}
	c.TogglePanel(bal)
	c.TogglePanel(notes)

	// click on an item inside the notification panel
	c.Click("note-0", notes.PanelID(), "navbar", "body")
	st := c.State()
	if st.IsOpen(bal) {
		t.Fatalf("balance dropdown should close on outside click")
	}
	if !st.IsOpen(notes) {
		t.Fatalf("click inside the notification panel must keep it open")
	}

	c.Click("main", "body")
	if len(c.State().Open) != 0 {
		t.Fatalf("click outside everything closes everything: %+v", c.State().Open)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := NewState(backend.RoleAgent)
	s.Open[PanelBalance] = ""
	_ = Reduce(s, Clicked{Path: []string{"elsewhere"}})
	if _, ok := s.Open[PanelBalance]; !ok {
		t.Fatalf("Reduce mutated its input")
	}
	_ = Reduce(s, RequestIssued{Class: ClassList})
	if s.Issued[ClassList] != 0 {
		t.Fatalf("Reduce mutated the issued counters")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	s := NewState(backend.RoleAgent)
	s = Reduce(s, RequestIssued{Class: ClassSession})
	s = Reduce(s, SessionLoaded{Seq: 1, Session: backend.Session{BalanceUSD: 3}})
	a, b := Render(s), Render(s)
	if a.Balance != b.Balance || a.BalanceLBP != b.BalanceLBP || len(a.Open) != len(b.Open) {
		t.Fatalf("render differs: %+v vs %+v", a, b)
	}
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	s := NewState(backend.RoleAgent)
	s = Reduce(s, ListShown{Kind: ListUsers})
	s = Reduce(s, RequestIssued{Class: ClassList}) // seq 1
	s = Reduce(s, RequestIssued{Class: ClassList}) // seq 2
	s = Reduce(s, ListLoaded{Seq: 2, Kind: ListUsers, Rows: []backend.Account{{ID: "new"}}})
	s = Reduce(s, ListLoaded{Seq: 1, Kind: ListUsers, Rows: []backend.Account{{ID: "old"}}})
	if len(s.List.Rows) != 1 || s.List.Rows[0].ID != "new" {
		t.Fatalf("stale list response applied: %+v", s.List.Rows)
	}

	s = Reduce(s, RequestIssued{Class: ClassSession})
	s = Reduce(s, RequestIssued{Class: ClassSession})
	s = Reduce(s, SessionLoaded{Seq: 2, Session: backend.Session{BalanceUSD: 2}})
	s = Reduce(s, SessionLoaded{Seq: 1, Session: backend.Session{BalanceUSD: 1}})
	if s.Session.BalanceUSD != 2 {
		t.Fatalf("stale session applied: %v", s.Session.BalanceUSD)
	}
}

func TestDepositUpdatesBalanceAndList(t *testing.T) {
	f := newFake()
	rec := &recorder{}
	c := New(f, Options{Role: backend.RoleAgent, Navigator: rec})
	c.Attach(rec)
	ctx := context.Background()
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := c.ShowList(ctx); err != nil {
		t.Fatalf("show list: %v", err)
	}

	c.OpenAction("u1", backend.Deposit, money.USD)
	if rec.last().Modal == nil {
		t.Fatalf("modal should be open")
	}
	if err := c.SubmitAction(ctx, 10); err != nil {
		t.Fatalf("submit: %v", err)
	}

	v := rec.last()
	if v.BalanceUSD != "$90.00" {
		t.Fatalf("agent balance: got %q", v.BalanceUSD)
	}
	if v.Modal != nil {
		t.Fatalf("modal should close after success")
	}
	if len(v.Rows) != 2 || v.Rows[0].USD != "$15.00" {
		t.Fatalf("list not refreshed: %+v", v.Rows)
	}
	if f.count("accounts") != 2 {
		t.Fatalf("expected one list refresh after success, got %d loads", f.count("accounts"))
	}
}

func TestWithdrawAddsToActingBalance(t *testing.T) {
	f := newFake()
	c := New(f, Options{Role: backend.RoleAgent})
	ctx := context.Background()
	_ = c.Init(ctx)
	c.OpenAction("u1", backend.Withdraw, money.LBP)
	if err := c.SubmitAction(ctx, 2500.7); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := c.View().BalanceLBP; got != "£1,002,500" {
		t.Fatalf("lbp after withdraw: %q", got)
	}
	if f.count("accounts") != 0 {
		t.Fatalf("no list on screen, nothing to refresh")
	}
}

func TestTransferFailureKeepsModalWithMessage(t *testing.T) {
	f := newFake()
	f.transferErr = errs.NewWarn("Insufficient balance")
	c := New(f, Options{Role: backend.RoleAgent})
	ctx := context.Background()
	_ = c.Init(ctx)
	_ = c.ShowList(ctx)
	c.OpenAction("u2", backend.Withdraw, money.USD)

	if err := c.SubmitAction(ctx, 50); err == nil {
		t.Fatalf("expected error")
	}
	v := c.View()
	if v.Modal == nil || v.Modal.Error != "Insufficient balance" {
		t.Fatalf("modal should show backend error: %+v", v.Modal)
	}
	if v.BalanceUSD != "$100.00" {
		t.Fatalf("balance must not change on failure: %q", v.BalanceUSD)
	}
	if f.count("accounts") != 1 || f.count("transfer") != 1 {
		t.Fatalf("no refresh and no retry on failure: %v", f.calls)
	}
}

func TestTransferFallbackMessage(t *testing.T) {
	f := newFake()
	f.transferErr = errs.NewFatal("dial tcp: refused")
	c := New(f, Options{Role: backend.RoleAgent})
	_ = c.Init(context.Background())
	c.OpenAction("u1", backend.Deposit, money.USD)
	_ = c.SubmitAction(context.Background(), 1)
	if got := c.View().Modal.Error; got != backend.FallbackMessage {
		t.Fatalf("expected fallback text, got %q", got)
	}
}

func TestSubmitRejectsInvalidAmount(t *testing.T) {
	f := newFake()
	c := New(f, Options{Role: backend.RoleAgent})
	_ = c.Init(context.Background())
	c.OpenAction("u1", backend.Deposit, money.LBP)
	for _, amt := range []float64{0, -5, 0.4} {
		if err := c.SubmitAction(context.Background(), amt); err == nil {
			t.Fatalf("amount %v should be rejected", amt)
		}
	}
	if f.count("transfer") != 0 {
		t.Fatalf("invalid amounts must not reach the backend")
	}
	if c.View().Modal.Error == "" {
		t.Fatalf("modal should show the validation message")
	}
}

func TestAuthFailureMidPageRedirects(t *testing.T) {
	f := newFake()
	rec := &recorder{}
	c := New(f, Options{Role: backend.RoleAgent, Navigator: rec})
	_ = c.Init(context.Background())
	f.transferErr = errs.NewAuth("Unauthorized")
	c.OpenAction("u1", backend.Deposit, money.USD)
	_ = c.SubmitAction(context.Background(), 1)
	if len(rec.to) != 1 || rec.to[0] != DefaultLoginPath {
		t.Fatalf("expected redirect, got %v", rec.to)
	}
}

func TestCreateAccountRefreshesList(t *testing.T) {
	f := newFake()
	c := New(f, Options{Role: backend.RoleAgent})
	ctx := context.Background()
	_ = c.Init(ctx)
	_ = c.ShowList(ctx)
	if _, err := c.CreateAccount(ctx, backend.Credentials{Username: "dee", Password: "secret123"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows := c.View().Rows
	if len(rows) != 3 || rows[2].Username != "dee" {
		t.Fatalf("list not refreshed after create: %+v", rows)
	}

	f.createErr = errs.NewWarn("Username already exists")
	_, _ = c.CreateAccount(ctx, backend.Credentials{Username: "dee", Password: "secret123"})
	if got := c.View().Errors[WidgetCreate]; got != "Username already exists" {
		t.Fatalf("create error: %q", got)
	}
}

func TestNotificationsKeepServerOrder(t *testing.T) {
	f := newFake()
	f.notes = []backend.Notification{{Message: "b"}, {Message: "a"}, {Message: "c"}}
	c := New(f, Options{})
	if err := c.LoadNotifications(context.Background()); err != nil {
		t.Fatalf("notifications: %v", err)
	}
	v := c.View()
	if v.NotificationCount != 3 || v.Notifications[0] != "b" || v.Notifications[2] != "c" {
		t.Fatalf("unexpected notifications: %+v", v.Notifications)
	}
}

func TestLogoutRedirects(t *testing.T) {
	f := newFake()
	rec := &recorder{}
	c := New(f, Options{Navigator: rec, LoginPath: "/login.html"})
	_ = c.Logout(context.Background())
	if f.count("logout") != 1 || len(rec.to) != 1 || rec.to[0] != "/login.html" {
		t.Fatalf("logout: calls=%v redirects=%v", f.calls, rec.to)
	}
}

func TestShowListNeedsSubordinates(t *testing.T) {
	c := New(newFake(), Options{Role: backend.RoleUser})
	if err := c.ShowList(context.Background()); err == nil {
		t.Fatalf("users have no account list")
	}
}

func pendingTimers(c *Controller) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSucceededModalClosesAfterDelay(t *testing.T) {
	f := newFake()
	c := New(f, Options{Role: backend.RoleAgent, CloseDelay: 50 * time.Millisecond})
	defer c.Close()
	ctx := context.Background()
	_ = c.Init(ctx)
	c.OpenAction("u1", backend.Deposit, money.USD)
	if err := c.SubmitAction(ctx, 10); err != nil {
		t.Fatalf("submit: %v", err)
	}
	m := c.View().Modal
	if m == nil || !m.Done {
		t.Fatalf("modal should stay up marked done during the delay: %+v", m)
	}
	waitFor(t, "modal close", func() bool { return c.View().Modal == nil })
	waitFor(t, "timer release", func() bool { return pendingTimers(c) == 0 })
}

func TestDelayedCloseSparesNewerModal(t *testing.T) {
	f := newFake()
	c := New(f, Options{Role: backend.RoleAgent, CloseDelay: 50 * time.Millisecond})
	defer c.Close()
	ctx := context.Background()
	_ = c.Init(ctx)
	c.OpenAction("u1", backend.Deposit, money.USD)
	if err := c.SubmitAction(ctx, 10); err != nil {
		t.Fatalf("submit: %v", err)
	}
	c.OpenAction("u2", backend.Withdraw, money.USD)

	time.Sleep(120 * time.Millisecond)
	if n := pendingTimers(c); n != 0 {
		t.Fatalf("fired timer still held: %d", n)
	}
	m := c.View().Modal
	if m == nil || m.TargetID != "u2" || m.Done {
		t.Fatalf("an earlier timer closed the newer modal: %+v", m)
	}
}

func TestCloseStopsPendingModalTimers(t *testing.T) {
	f := newFake()
	c := New(f, Options{Role: backend.RoleAgent, CloseDelay: 50 * time.Millisecond})
	ctx := context.Background()
	_ = c.Init(ctx)
	c.OpenAction("u1", backend.Deposit, money.USD)
	if err := c.SubmitAction(ctx, 10); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if pendingTimers(c) != 1 {
		t.Fatalf("expected one pending timer, got %d", pendingTimers(c))
	}
	c.Close()
	if pendingTimers(c) != 0 {
		t.Fatalf("Close must release timers")
	}
	time.Sleep(120 * time.Millisecond)
	if m := c.View().Modal; m == nil || !m.Done {
		t.Fatalf("stopped timer still closed the modal: %+v", m)
	}
}

// gatedBackend holds each Transfer, CreateAccount and Notifications call until
// the test releases it, so responses can arrive in any order.
type gatedBackend struct {
	*fakeBackend
	entered chan struct{}

	mu    sync.Mutex
	n     map[string]int
	gates map[string][]chan struct{}
	notes [][]backend.Notification
}

func newGated(f *fakeBackend) *gatedBackend {
	g := &gatedBackend{
		fakeBackend: f,
		entered:     make(chan struct{}),
		n:           map[string]int{},
		gates:       map[string][]chan struct{}{},
	}
	for _, name := range []string{"transfer", "create", "notifications"} {
		g.gates[name] = []chan struct{}{make(chan struct{}), make(chan struct{})}
	}
	return g
}

func (g *gatedBackend) hold(name string) int {
	g.mu.Lock()
	i := g.n[name]
	g.n[name]++
	gate := g.gates[name][i]
	g.mu.Unlock()
	g.entered <- struct{}{}
	<-gate
	return i
}

func (g *gatedBackend) release(name string, i int) { close(g.gates[name][i]) }

func (g *gatedBackend) Transfer(ctx context.Context, role backend.Role, t backend.Transfer) error {
	g.hold("transfer")
	return g.fakeBackend.Transfer(ctx, role, t)
}

func (g *gatedBackend) CreateAccount(ctx context.Context, role backend.Role, cred backend.Credentials) (backend.Account, error) {
	g.hold("create")
	return g.fakeBackend.CreateAccount(ctx, role, cred)
}

func (g *gatedBackend) Notifications(ctx context.Context) ([]backend.Notification, error) {
	i := g.hold("notifications")
	return g.notes[i], nil
}

// runOutOfOrder starts first then second, lets second finish, then first.
func runOutOfOrder(g *gatedBackend, name string, first, second func()) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); first() }()
	<-g.entered
	done := make(chan struct{})
	go func() { defer wg.Done(); second(); close(done) }()
	<-g.entered
	g.release(name, 1)
	<-done
	g.release(name, 0)
	wg.Wait()
}

func TestOutOfOrderTransferKeepsLatest(t *testing.T) {
	f := newFake()
	g := newGated(f)
	c := New(g, Options{Role: backend.RoleAgent})
	ctx := context.Background()
	_ = c.Init(ctx)
	c.OpenAction("u1", backend.Deposit, money.USD)

	var firstErr error
	runOutOfOrder(g, "transfer",
		func() { firstErr = c.SubmitAction(ctx, 10) },
		func() { _ = c.SubmitAction(ctx, 20) },
	)
	if firstErr != nil {
		t.Fatalf("stale success is dropped, not failed: %v", firstErr)
	}
	if got := c.View().BalanceUSD; got != "$80.00" {
		t.Fatalf("stale transfer changed the balance: %q", got)
	}
	if n := f.count("session"); n != 2 {
		t.Fatalf("only the latest transfer re-probes the session, got %d probes", n)
	}
}

func TestOutOfOrderCreateRefreshesOnce(t *testing.T) {
	f := newFake()
	g := newGated(f)
	c := New(g, Options{Role: backend.RoleAgent})
	ctx := context.Background()
	_ = c.Init(ctx)
	_ = c.ShowList(ctx)

	runOutOfOrder(g, "create",
		func() { _, _ = c.CreateAccount(ctx, backend.Credentials{Username: "dee", Password: "secret123"}) },
		func() { _, _ = c.CreateAccount(ctx, backend.Credentials{Username: "eve", Password: "secret123"}) },
	)
	if n := f.count("accounts"); n != 2 {
		t.Fatalf("stale create must not refresh the list, got %d loads", n)
	}
}

func TestOutOfOrderNotificationsKeepLatest(t *testing.T) {
	g := newGated(newFake())
	g.notes = [][]backend.Notification{{{Message: "old"}}, {{Message: "new"}}}
	c := New(g, Options{})
	ctx := context.Background()

	runOutOfOrder(g, "notifications",
		func() { _ = c.LoadNotifications(ctx) },
		func() { _ = c.LoadNotifications(ctx) },
	)
	v := c.View()
	if len(v.Notifications) != 1 || v.Notifications[0] != "new" {
		t.Fatalf("stale notifications applied: %+v", v.Notifications)
	}
}
