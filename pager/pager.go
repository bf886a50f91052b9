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

// Package pager walks the paginated history endpoints.
//
// Bets uses opaque cursors; Movements uses 1-based page numbers. Both refuse to
// go past the last page and both fail fast when the backend stops advancing.
package pager

import (
	"context"
	"errors"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
)

// DefaultLimit is the bet page size the dashboards ask for.
const DefaultLimit = 10

type BetSource interface {
	BetHistory(ctx context.Context, q backend.BetQuery) (backend.BetPage, error)
}

type MovementSource interface {
	History(ctx context.Context, kind backend.HistoryKind, page int) (backend.MovementPage, error)
}

var ErrDone = errs.NewLog("no more pages")

// Bets iterates one user's bet history.
type Bets struct {
	src      BetSource
	username string
	limit    int
	cursor   string
	seen     map[string]struct{}
	done     bool
}

func NewBets(src BetSource, username string, limit int) *Bets {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Bets{src: src, username: username, limit: limit, seen: map[string]struct{}{}}
}

func (b *Bets) Done() bool { return b.done }

// Cursor is the continuation token for the next page ("" before the first).
func (b *Bets) Cursor() string { return b.cursor }

// Next fetches the next page. After the last page it returns ErrDone.
func (b *Bets) Next(ctx context.Context) ([]backend.Bet, error) {
	if b.done {
		return nil, ErrDone
	}
	page, err := b.src.BetHistory(ctx, backend.BetQuery{Username: b.username, Limit: b.limit, Cursor: b.cursor})
	if err != nil {
		return nil, errs.Wrap(err, "fetch bet page")
	}
	if page.Pagination.HasNextPage {
		next := page.Pagination.NextCursor
		if next == "" {
			return nil, errs.NewFatal("bet page has next page but no cursor")
		}
		if _, dup := b.seen[next]; dup || next == b.cursor {
			return nil, errs.Fatalf("bet cursor %q repeated", next)
		}
		b.seen[next] = struct{}{}
		b.cursor = next
	} else {
		b.cursor = ""
		b.done = true
	}
	return page.Bets, nil
}

// Movements iterates deposit or withdraw history.
type Movements struct {
	src  MovementSource
	kind backend.HistoryKind
	page int
	done bool
}

func NewMovements(src MovementSource, kind backend.HistoryKind) *Movements {
	return &Movements{src: src, kind: kind}
}

func (m *Movements) Done() bool { return m.done }

// Page is the last page fetched (0 before the first).
func (m *Movements) Page() int { return m.page }

func (m *Movements) Next(ctx context.Context) ([]backend.Movement, error) {
	if m.done {
		return nil, ErrDone
	}
	p, err := m.src.History(ctx, m.kind, m.page+1)
	if err != nil {
		return nil, errs.Wrap(err, "fetch "+string(m.kind)+" history page")
	}
	m.page++
	if !p.HasMore {
		m.done = true
	} else if len(p.Items) == 0 {
		return nil, errs.Fatalf("%s history page %d is empty but claims more", m.kind, m.page)
	}
	return p.Items, nil
}

// CollectBets walks every bet page. onPage, when set, sees each page's size.
func CollectBets(ctx context.Context, src BetSource, username string, limit int, onPage func(n int)) ([]backend.Bet, error) {
	it := NewBets(src, username, limit)
	var all []backend.Bet
	for !it.Done() {
		page, err := it.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrDone) {
				break
			}
			return all, err
		}
		all = append(all, page...)
		if onPage != nil {
			onPage(len(page))
		}
	}
	return all, nil
}

// CollectMovements walks every history page.
func CollectMovements(ctx context.Context, src MovementSource, kind backend.HistoryKind) ([]backend.Movement, error) {
	it := NewMovements(src, kind)
	var all []backend.Movement
	for !it.Done() {
		page, err := it.Next(ctx)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
	}
	return all, nil
}
