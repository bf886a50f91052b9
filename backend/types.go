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

package backend

import (
	"time"

	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/money"
)

// Role is the kind of principal a page is built for.
type Role string

const (
	RoleUser       Role = "user"
	RoleAgent      Role = "agent"
	RoleSuperAgent Role = "superagent"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgent || r == RoleSuperAgent
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", errs.Warnf("unknown role %q", s)
	}
	return r, nil
}

// Session is the principal's identity and balance snapshot.
// Agent and super-agent session probes do not return a username.
type Session struct {
	Username   string  `json:"username,omitempty"`
	BalanceUSD float64 `json:"balanceUSD"`
	BalanceLBP float64 `json:"balanceLBP"`
}

// Balance returns the cached amount for c.
func (s Session) Balance(c money.Currency) float64 {
	if c == money.LBP {
		return s.BalanceLBP
	}
	return s.BalanceUSD
}

// WithBalance returns a copy of s with c's amount replaced.
func (s Session) WithBalance(c money.Currency, v float64) Session {
	switch c {
	case money.USD:
		s.BalanceUSD = v
	case money.LBP:
		s.BalanceLBP = v
	}
	return s
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Account is a subordinate user (for agents) or agent (for super-agents).
type Account struct {
	ID         string  `json:"_id"`
	Username   string  `json:"username"`
	BalanceUSD float64 `json:"balanceUSD"`
	BalanceLBP float64 `json:"balanceLBP"`
}

type Action string

const (
	Deposit  Action = "deposit"
	Withdraw Action = "withdraw"
)

func (a Action) Valid() bool { return a == Deposit || a == Withdraw }

// Transfer moves funds between the acting principal and one direct subordinate.
type Transfer struct {
	TargetID string
	Action   Action
	Amount   float64
	Currency money.Currency
}

type Notification struct {
	Message string `json:"message"`
}

type Bet struct {
	ID        string    `json:"_id"`
	Game      string    `json:"game"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Payout    float64   `json:"payout"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type BetQuery struct {
	Username string
	Limit    int
	Cursor   string
}

type Pagination struct {
	HasNextPage bool   `json:"hasNextPage"`
	NextCursor  string `json:"nextCursor,omitempty"`
}

type BetPage struct {
	Bets       []Bet      `json:"bets"`
	Pagination Pagination `json:"pagination"`
}

// Movement is one row of deposit or withdraw history.
type Movement struct {
	ID        string    `json:"_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Network   string    `json:"network,omitempty"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryKind selects deposit or withdraw history.
type HistoryKind string

const (
	DepositHistory  HistoryKind = "deposit"
	WithdrawHistory HistoryKind = "withdraw"
)

type MovementPage struct {
	Items   []Movement
	HasMore bool
}

type depositPage struct {
	Deposits []Movement `json:"deposits"`
	HasMore  bool       `json:"hasMore"`
}

type withdrawPage struct {
	Withdraws []Movement `json:"withdraws"`
	HasMore   bool       `json:"hasMore"`
}

type apiError struct {
	Error string `json:"error"`
}
