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
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/pager"
	"github.com/zintix-labs/betdesk/view"
)

func sameWidth(t *testing.T, table string) {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(table, "\n"), "\n")
	w := runewidth.StringWidth(lines[0])
	for i, l := range lines {
		if got := runewidth.StringWidth(l); got != w {
			t.Fatalf("line %d width %d want %d:\n%s", i, got, w, table)
		}
	}
}

func TestKVAligns(t *testing.T) {
	out := KV("Balance", []string{"USD", "LBP"}, map[string]string{"USD": "$12.50", "LBP": "£150,000"})
	sameWidth(t, out)
	if !strings.Contains(out, "| USD | $12.50   |") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestGridWideRunes(t *testing.T) {
	out := Grid("users", []string{"ID", "Username", "USD"}, [][]string{
		{"us-0001", "bob", "$12.50"},
		{"us-0009", "王小明", "$1,234.00"},
	}, 2)
	sameWidth(t, out)
	if !strings.Contains(out, "|    $12.50 |") {
		t.Fatalf("amount column not right aligned:\n%s", out)
	}
}

func TestGridLongTitle(t *testing.T) {
	sameWidth(t, Grid("a rather long table title", []string{"A"}, [][]string{{"1"}}))
}

func TestPrinterSkipsRepeatedFrames(t *testing.T) {
	var buf bytes.Buffer
	pr := NewPrinter(&buf)
	v := view.View{Authenticated: true, Username: "bob", Balance: "$12.50", BalanceUSD: "$12.50", BalanceLBP: "£150,000"}
	pr.Paint(v)
	first := buf.Len()
	pr.Paint(v)
	if buf.Len() != first {
		t.Fatalf("identical view painted twice")
	}
	if !strings.Contains(buf.String(), "bob  $12.50") {
		t.Fatalf("frame %q", buf.String())
	}
	v.Balance = "£150,000"
	pr.Paint(v)
	if buf.Len() == first {
		t.Fatalf("changed view not painted")
	}
}

func TestFrameShowsListModalAndErrors(t *testing.T) {
	v := view.View{
		Authenticated: true,
		Balance:       "$990.00",
		ListKind:      view.ListUsers,
		Rows:          []view.Row{{ID: "us-0001", Username: "bob", USD: "$22.50", LBP: "£150,000"}},
		Modal:         &view.Modal{TargetID: "us-0001", Action: backend.Deposit, Currency: "USD", Amount: "$10.00", Done: true},
		Errors:        map[view.Widget]string{view.WidgetCreate: "Username already exists"},
	}
	out := Frame(v)
	for _, want := range []string{"(account)", "us-0001", "$22.50", "[deposit us-0001 USD $10.00] done", "! create: Username already exists"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if got := Frame(view.View{RedirectTo: "/login.html"}); got != "→ /login.html\n" {
		t.Fatalf("redirect frame %q", got)
	}
}

func TestSummaryTable(t *testing.T) {
	out := Summary(map[string]pager.Summary{"USD": {Count: 2, Staked: 4, Paid: 6, Wins: 1, WinRate: 0.5, NetMean: 1}})
	sameWidth(t, out)
	for _, want := range []string{"Bets USD", "$4.00", "50.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
