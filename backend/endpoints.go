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
	"context"
	"net/url"
	"strconv"

	"github.com/zintix-labs/betdesk/errs"
)

// Paths of the backend API. The reference server registers the same constants.
const (
	PathLogin         = "/auth/login"
	PathLogout        = "/auth/logout"
	PathUserSession   = "/auth/session"
	PathAgentSession  = "/agent/session"
	PathSuperSession  = "/superagent/session"
	PathAgentUsers    = "/agent/users"
	PathSuperAgents   = "/superagent/agents"
	PathDepositUser   = "/agent/deposit-user"
	PathWithdrawUser  = "/agent/withdraw-from-user"
	PathCreateUser    = "/agent/create-user"
	PathDepositAgent  = "/superagent/deposit-agent"
	PathWithdrawAgent = "/superagent/withdraw-from-agent"
	PathCreateAgent   = "/superagent/create-agent"
	PathBetHistory    = "/betHistory/user/paginated"
	PathDepositHist   = "/api/user/deposit-history"
	PathWithdrawHist  = "/api/user/withdraw-history"
	PathNotifications = "/api/user/notifications"
)

// SessionPath is the probe each role's pages run on load.
func SessionPath(r Role) string {
	switch r {
	case RoleAgent:
		return PathAgentSession
	case RoleSuperAgent:
		return PathSuperSession
	default:
		return PathUserSession
	}
}

func (c *Client) Login(ctx context.Context, cred Credentials) (LoginResult, error) {
	var out LoginResult
	if err := c.postJSON(ctx, PathLogin, cred, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// Logout ends the session. The body is plain text and is returned as is.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.postText(ctx, PathLogout)
	return err
}

// Session probes the current session for the page role.
func (c *Client) Session(ctx context.Context, role Role) (Session, error) {
	var out Session
	if err := c.getJSON(ctx, SessionPath(role), nil, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

// Accounts lists the subordinates of the acting principal: users for agents,
// agents for super-agents.
func (c *Client) Accounts(ctx context.Context, role Role) ([]Account, error) {
	var path string
	switch role {
	case RoleAgent:
		path = PathAgentUsers
	case RoleSuperAgent:
		path = PathSuperAgents
	default:
		return nil, errs.Warnf("role %q has no subordinate accounts", role)
	}
	out := []Account{}
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type transferBody struct {
	UserID   string  `json:"userId,omitempty"`
	AgentID  string  `json:"agentId,omitempty"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Transfer deposits to or withdraws from a direct subordinate.
func (c *Client) Transfer(ctx context.Context, role Role, t Transfer) error {
	if !t.Action.Valid() {
		return errs.Warnf("unknown action %q", t.Action)
	}
	body := transferBody{Amount: t.Amount, Currency: t.Currency.String()}
	var path string
	switch role {
	case RoleAgent:
		body.UserID = t.TargetID
		path = PathDepositUser
		if t.Action == Withdraw {
			path = PathWithdrawUser
		}
	case RoleSuperAgent:
		body.AgentID = t.TargetID
		path = PathDepositAgent
		if t.Action == Withdraw {
			path = PathWithdrawAgent
		}
	default:
		return errs.Warnf("role %q cannot transfer funds", role)
	}
	// success body is {} and carries nothing
	return c.postJSON(ctx, path, body, nil)
}

// CreateAccount creates a subordinate user (agent) or agent (super-agent).
func (c *Client) CreateAccount(ctx context.Context, role Role, cred Credentials) (Account, error) {
	var path string
	switch role {
	case RoleAgent:
		path = PathCreateUser
	case RoleSuperAgent:
		path = PathCreateAgent
	default:
		return Account{}, errs.Warnf("role %q cannot create accounts", role)
	}
	var out Account
	if err := c.postJSON(ctx, path, cred, &out); err != nil {
		return Account{}, err
	}
	return out, nil
}

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	out := []Notification{}
	if err := c.getJSON(ctx, PathNotifications, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BetHistory fetches one page of a user's bets. An empty cursor asks for the first page.
func (c *Client) BetHistory(ctx context.Context, q BetQuery) (BetPage, error) {
	v := url.Values{}
	v.Set("username", q.Username)
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}
	var out BetPage
	if err := c.getJSON(ctx, PathBetHistory, v, &out); err != nil {
		return BetPage{}, err
	}
	return out, nil
}

// History fetches one 1-based page of deposit or withdraw history.
func (c *Client) History(ctx context.Context, kind HistoryKind, page int) (MovementPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	switch kind {
	case DepositHistory:
		var out depositPage
		if err := c.getJSON(ctx, PathDepositHist, v, &out); err != nil {
			return MovementPage{}, err
		}
		return MovementPage{Items: out.Deposits, HasMore: out.HasMore}, nil
	case WithdrawHistory:
		var out withdrawPage
		if err := c.getJSON(ctx, PathWithdrawHist, v, &out); err != nil {
			return MovementPage{}, err
		}
		return MovementPage{Items: out.Withdraws, HasMore: out.HasMore}, nil
	default:
		return MovementPage{}, errs.Warnf("unknown history kind %q", kind)
	}
}
