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

package pager_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/pager"
	"github.com/zintix-labs/betdesk/server/servertest"
)

func TestBetPagesAreDisjointAndContiguous(t *testing.T) {
	ts, _ := servertest.Start(t)
	ctx := context.Background()
	bob := servertest.Login(t, ts, "bob", "bobpass12")

	// one big page is the reference order
	whole, err := bob.BetHistory(ctx, backend.BetQuery{Username: "bob", Limit: 100})
	if err != nil || len(whole.Bets) != 25 || whole.Pagination.HasNextPage {
		t.Fatalf("single page: n=%d err=%v", len(whole.Bets), err)
	}

	it := pager.NewBets(bob, "bob", 10)
	var sizes []int
	var got []backend.Bet
	for !it.Done() {
		page, err := it.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		sizes = append(sizes, len(page))
		got = append(got, page...)
	}
	if len(sizes) != 3 || sizes[0] != 10 || sizes[1] != 10 || sizes[2] != 5 {
		t.Fatalf("page sizes %v", sizes)
	}
	for i := range whole.Bets {
		if got[i].ID != whole.Bets[i].ID {
			t.Fatalf("row %d: paged %s, whole %s", i, got[i].ID, whole.Bets[i].ID)
		}
	}
	if _, err := it.Next(ctx); !errors.Is(err, pager.ErrDone) {
		t.Fatalf("past the end: %v", err)
	}
}

func TestCollectBetsReportsPages(t *testing.T) {
	ts, _ := servertest.Start(t)
	ann := servertest.Login(t, ts, "ann", "annpass12")
	var pages []int
	all, err := pager.CollectBets(context.Background(), ann, "bob", 7, func(n int) { pages = append(pages, n) })
	if err != nil || len(all) != 25 {
		t.Fatalf("collect: n=%d err=%v", len(all), err)
	}
	if len(pages) != 4 || pages[3] != 4 {
		t.Fatalf("pages %v", pages)
	}
}

func TestMovementPages(t *testing.T) {
	ts, _ := servertest.Start(t)
	bob := servertest.Login(t, ts, "bob", "bobpass12")
	ctx := context.Background()

	it := pager.NewMovements(bob, backend.DepositHistory)
	first, err := it.Next(ctx)
	if err != nil || len(first) != 10 || it.Done() {
		t.Fatalf("page 1: n=%d done=%v err=%v", len(first), it.Done(), err)
	}
	second, err := it.Next(ctx)
	if err != nil || len(second) != 2 || !it.Done() || it.Page() != 2 {
		t.Fatalf("page 2: n=%d done=%v page=%d err=%v", len(second), it.Done(), it.Page(), err)
	}
	seen := map[string]bool{}
	for _, m := range append(first, second...) {
		if seen[m.ID] {
			t.Fatalf("deposit %s repeated", m.ID)
		}
		seen[m.ID] = true
	}
	if _, err := it.Next(ctx); !errors.Is(err, pager.ErrDone) {
		t.Fatalf("past the end: %v", err)
	}

	w, err := pager.CollectMovements(ctx, bob, backend.WithdrawHistory)
	if err != nil || len(w) != 3 {
		t.Fatalf("withdraws n=%d err=%v", len(w), err)
	}
}

type loopSource struct{}

func (loopSource) BetHistory(ctx context.Context, q backend.BetQuery) (backend.BetPage, error) {
	return backend.BetPage{
		Bets:       []backend.Bet{{ID: "same"}},
		Pagination: backend.Pagination{HasNextPage: true, NextCursor: "c1"},
	}, nil
}

func TestRepeatedCursorFails(t *testing.T) {
	it := pager.NewBets(loopSource{}, "bob", 1)
	if _, err := it.Next(context.Background()); err != nil {
		t.Fatalf("first page: %v", err)
	}
	if _, err := it.Next(context.Background()); err == nil {
		t.Fatalf("repeated cursor must fail")
	}
}

func TestSummarize(t *testing.T) {
	bets := []backend.Bet{
		{Amount: 2, Payout: 6, Currency: "USD"},
		{Amount: 2, Payout: 0, Currency: "USD"},
		{Amount: 1000, Payout: 0, Currency: "LBP"},
	}
	s := pager.Summarize(bets)
	usd := s["USD"]
	if usd.Count != 2 || usd.Wins != 1 || usd.WinRate != 0.5 || usd.Staked != 4 || usd.Paid != 6 {
		t.Fatalf("usd summary %+v", usd)
	}
	// nets are +4 and -2
	if usd.NetMean != 1 || math.Abs(usd.NetStd-math.Sqrt(18)) > 1e-9 {
		t.Fatalf("usd net mean=%v std=%v", usd.NetMean, usd.NetStd)
	}
	if lbp := s["LBP"]; lbp.Count != 1 || lbp.NetStd != 0 {
		t.Fatalf("lbp summary %+v", lbp)
	}
}
