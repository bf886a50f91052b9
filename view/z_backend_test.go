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
	"testing"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/money"
	"github.com/zintix-labs/betdesk/server/servertest"
)

func TestAgainstReferenceBackendUser(t *testing.T) {
	ts, _ := servertest.Start(t)
	ctx := context.Background()
	bob := servertest.Login(t, ts, "bob", "bobpass12")

	rec := &recorder{}
	c := New(bob, Options{Role: backend.RoleUser, Navigator: rec})
	defer c.Close()
	c.Attach(rec)
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if v := rec.last(); v.Username != "bob" || v.Balance != "$12.50" {
		t.Fatalf("view %+v", v)
	}
	c.SetSelectedCurrency(money.LBP)
	if got := rec.last().Balance; got != "£150,000" {
		t.Fatalf("lbp %q", got)
	}

	c.TogglePanel(Panel{Kind: PanelNotifications})
	if err := c.LoadNotifications(ctx); err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if v := rec.last(); v.NotificationCount != 3 || v.Notifications[0] != "Welcome to the platform." {
		t.Fatalf("notifications %+v", v.Notifications)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	again := New(bob, Options{Role: backend.RoleUser, Navigator: rec})
	defer again.Close()
	if err := again.Init(ctx); err == nil {
		t.Fatalf("init after logout must fail")
	}
	if rec.to[len(rec.to)-1] != DefaultLoginPath {
		t.Fatalf("redirects %v", rec.to)
	}
}

func TestAgainstReferenceBackendAgentDeposit(t *testing.T) {
	ts, _ := servertest.Start(t)
	ctx := context.Background()
	ann := servertest.Login(t, ts, "ann", "annpass12")

	rec := &recorder{}
	c := New(ann, Options{Role: backend.RoleAgent, Navigator: rec})
	defer c.Close()
	c.Attach(rec)
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := c.ShowList(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	c.OpenAction("us-0001", backend.Deposit, money.USD)
	if err := c.SubmitAction(ctx, 10); err != nil {
		t.Fatalf("submit: %v", err)
	}
	v := rec.last()
	if v.Balance != "$990.00" {
		t.Fatalf("agent balance %q", v.Balance)
	}
	if len(v.Rows) != 2 || v.Rows[0].Username != "bob" || v.Rows[0].USD != "$22.50" {
		t.Fatalf("rows %+v", v.Rows)
	}
	if v.Modal != nil {
		t.Fatalf("modal should close with zero delay: %+v", v.Modal)
	}

	c.OpenAction("us-0002", backend.Withdraw, money.USD)
	if err := c.SubmitAction(ctx, 5); err == nil {
		t.Fatalf("withdraw from empty account must fail")
	}
	if m := rec.last().Modal; m == nil || m.Error != "cid has insufficient balance" {
		t.Fatalf("modal %+v", m)
	}
	if len(rec.to) != 0 {
		t.Fatalf("unexpected redirect %v", rec.to)
	}
}
