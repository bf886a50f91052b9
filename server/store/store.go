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

// Package store is the in-memory ledger behind the reference backend.
//
// It is deterministic: the same fixture always yields the same ids, ordering and
// pages, which is what the client tests rely on. Nothing is persisted.
package store

import (
	"encoding/base64"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/money"
)

const (
	// DefaultHistoryPageSize is the deposit/withdraw page size.
	DefaultHistoryPageSize = 10
	// MaxBetLimit caps a bet page.
	MaxBetLimit = 100
	minPassword = 8
)

var (
	ErrNotFound     = errs.NewWarn("Account not found")
	ErrInvalidCreds = errs.NewAuth("Invalid credentials")
)

type Store struct {
	mu        sync.RWMutex
	accounts  map[string]*Account
	byName    map[string]string
	bets      map[string][]Bet
	deposits  map[string][]Movement
	withdraws map[string][]Movement
	notes     []Notification
	newID     func() string
}

// New builds a Store from f after checking the account hierarchy.
func New(f Fixture) (*Store, error) {
	s := &Store{
		accounts:  map[string]*Account{},
		byName:    map[string]string{},
		bets:      map[string][]Bet{},
		deposits:  map[string][]Movement{},
		withdraws: map[string][]Movement{},
		notes:     slices.Clone(f.Notifications),
		newID:     func() string { return uuid.NewString() },
	}
	for i := range f.Accounts {
		a := f.Accounts[i]
		if a.ID == "" || a.Username == "" {
			return nil, errs.NewFatal("fixture account needs id and username")
		}
		if !a.Role.Valid() {
			return nil, errs.Fatalf("account %s: unknown role %q", a.Username, a.Role)
		}
		if _, dup := s.accounts[a.ID]; dup {
			return nil, errs.Fatalf("duplicate account id %s", a.ID)
		}
		if _, dup := s.byName[a.Username]; dup {
			return nil, errs.Fatalf("duplicate username %s", a.Username)
		}
		s.accounts[a.ID] = &a
		s.byName[a.Username] = a.ID
	}
	for _, a := range s.accounts {
		if err := s.checkParent(a); err != nil {
			return nil, err
		}
	}
	for _, b := range f.Bets {
		s.bets[b.Username] = append(s.bets[b.Username], b)
	}
	for _, m := range f.Deposits {
		s.deposits[m.Username] = append(s.deposits[m.Username], m)
	}
	for _, m := range f.Withdraws {
		s.withdraws[m.Username] = append(s.withdraws[m.Username], m)
	}
	for u := range s.bets {
		sortBets(s.bets[u])
	}
	for u := range s.deposits {
		sortMovements(s.deposits[u])
	}
	for u := range s.withdraws {
		sortMovements(s.withdraws[u])
	}
	return s, nil
}

// parentRole is the role an account's parent must have.
func parentRole(r backend.Role) backend.Role {
	switch r {
	case backend.RoleUser:
		return backend.RoleAgent
	case backend.RoleAgent:
		return backend.RoleSuperAgent
	default:
		return ""
	}
}

func childRole(r backend.Role) backend.Role {
	switch r {
	case backend.RoleAgent:
		return backend.RoleUser
	case backend.RoleSuperAgent:
		return backend.RoleAgent
	default:
		return ""
	}
}

func (s *Store) checkParent(a *Account) error {
	want := parentRole(a.Role)
	if a.Parent == "" {
		if a.Role == backend.RoleAgent {
			return errs.Fatalf("agent %s needs a super-agent parent", a.Username)
		}
		return nil
	}
	p, ok := s.accounts[a.Parent]
	if !ok {
		return errs.Fatalf("account %s: parent %s not found", a.Username, a.Parent)
	}
	if p.Role != want {
		return errs.Fatalf("account %s (%s) cannot belong to %s (%s)", a.Username, a.Role, p.Username, p.Role)
	}
	return nil
}

// newest first, id breaks ties so order is total
func sortBets(bs []Bet) {
	sort.SliceStable(bs, func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.After(bs[j].CreatedAt)
		}
		return bs[i].ID > bs[j].ID
	})
}

func sortMovements(ms []Movement) {
	sort.SliceStable(ms, func(i, j int) bool {
		if !ms[i].CreatedAt.Equal(ms[j].CreatedAt) {
			return ms[i].CreatedAt.After(ms[j].CreatedAt)
		}
		return ms[i].ID > ms[j].ID
	})
}

func (s *Store) Authenticate(username, password string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[username]
	if !ok {
		return Account{}, ErrInvalidCreds
	}
	a := s.accounts[id]
	if a.Password != password {
		return Account{}, ErrInvalidCreds
	}
	return *a, nil
}

func (s *Store) Get(id string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return *a, nil
}

// Children lists the direct subordinates of parentID ordered by username.
func (s *Store) Children(parentID string) []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Account{}
	for _, a := range s.accounts {
		if a.Parent == parentID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func balanceOf(a *Account, c money.Currency) *float64 {
	if c == money.LBP {
		return &a.BalanceLBP
	}
	return &a.BalanceUSD
}

// Transfer moves amount between actor and its direct child.
// Deposit: actor pays child. Withdraw: child pays actor.
func (s *Store) Transfer(actorID, childID string, action backend.Action, amount float64, cur money.Currency) error {
	if !action.Valid() {
		return errs.Warnf("Unknown action %q", action)
	}
	if !cur.Valid() {
		return errs.NewWarn("Invalid currency")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return errs.NewWarn("Invalid amount")
	}
	amount = money.Normalize(cur, amount)
	if amount <= 0 {
		return errs.NewWarn("Amount must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.accounts[actorID]
	if !ok {
		return ErrNotFound
	}
	child, ok := s.accounts[childID]
	if !ok || child.Parent != actor.ID {
		return ErrNotFound
	}
	from, to := actor, child
	if action == backend.Withdraw {
		from, to = child, actor
	}
	fb, tb := balanceOf(from, cur), balanceOf(to, cur)
	if *fb < amount {
		if from == actor {
			return errs.NewWarn("Insufficient balance")
		}
		return errs.Warnf("%s has insufficient balance", child.Username)
	}
	*fb = money.Normalize(cur, *fb-amount)
	*tb = money.Normalize(cur, *tb+amount)
	return nil
}

// CreateChild registers a subordinate of actor with the role below it.
func (s *Store) CreateChild(actorID, username, password string) (Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Account{}, errs.NewWarn("Username and password cannot be empty")
	}
	if len(password) < minPassword {
		return Account{}, errs.NewWarn("Password must be at least 8 characters long")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.accounts[actorID]
	if !ok {
		return Account{}, ErrNotFound
	}
	role := childRole(actor.Role)
	if role == "" {
		return Account{}, errs.NewWarn("This account cannot create accounts")
	}
	if _, dup := s.byName[username]; dup {
		return Account{}, errs.NewWarn("Username already exists")
	}
	a := &Account{
		ID:       s.newID(),
		Username: username,
		Password: password,
		Role:     role,
		Parent:   actor.ID,
	}
	s.accounts[a.ID] = a
	s.byName[a.Username] = a.ID
	return *a, nil
}

// CanView reports whether viewer may read username's history: itself or its parent.
func (s *Store) CanView(viewerID, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[username]
	if !ok {
		return false
	}
	return id == viewerID || s.accounts[id].Parent == viewerID
}

func encodeCursor(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte("after:" + id))
}

func decodeCursor(c string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(c)
	if err != nil || !strings.HasPrefix(string(b), "after:") {
		return "", errs.NewWarn("Invalid cursor")
	}
	return strings.TrimPrefix(string(b), "after:"), nil
}

// Bets returns up to limit bets of username after cursor, newest first, and the
// cursor of the next page ("" on the last page).
func (s *Store) Bets(username string, limit int, cursor string) ([]Bet, string, error) {
	if limit <= 0 {
		return nil, "", errs.NewWarn("limit must be positive")
	}
	limit = min(limit, MaxBetLimit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.bets[username]
	start := 0
	if cursor != "" {
		after, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		i := slices.IndexFunc(all, func(b Bet) bool { return b.ID == after })
		if i < 0 {
			return nil, "", errs.NewWarn("Invalid cursor")
		}
		start = i + 1
	}
	end := min(start+limit, len(all))
	page := slices.Clone(all[start:end])
	next := ""
	if end < len(all) {
		next = encodeCursor(all[end-1].ID)
	}
	return page, next, nil
}

// History returns 1-based page of username's deposits or withdraws.
func (s *Store) History(username string, kind backend.HistoryKind, page, size int) ([]Movement, bool, error) {
	if page < 1 {
		return nil, false, errs.NewWarn("page must be at least 1")
	}
	if size <= 0 {
		size = DefaultHistoryPageSize
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []Movement
	switch kind {
	case backend.DepositHistory:
		all = s.deposits[username]
	case backend.WithdrawHistory:
		all = s.withdraws[username]
	default:
		return nil, false, errs.Warnf("unknown history %q", kind)
	}
	start := (page - 1) * size
	if start >= len(all) {
		return []Movement{}, false, nil
	}
	end := min(start+size, len(all))
	return slices.Clone(all[start:end]), end < len(all), nil
}

// Notifications returns broadcast and personal messages in fixture order.
func (s *Store) Notifications(username string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Notification{}
	for _, n := range s.notes {
		if n.Username == "" || n.Username == username {
			out = append(out, n)
		}
	}
	return out
}

// All lists every account ordered by role then username.
func (s *Store) All() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	rank := map[backend.Role]int{backend.RoleSuperAgent: 0, backend.RoleAgent: 1, backend.RoleUser: 2}
	sort.Slice(out, func(i, j int) bool {
		if rank[out[i].Role] != rank[out[j].Role] {
			return rank[out[i].Role] < rank[out[j].Role]
		}
		return out[i].Username < out[j].Username
	})
	return out
}
