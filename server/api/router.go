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

package api

import (
	"log/slog"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/server/api/dev"
	v1 "github.com/zintix-labs/betdesk/server/api/v1"
	"github.com/zintix-labs/betdesk/server/auth"
	"github.com/zintix-labs/betdesk/server/netsvr"
	"github.com/zintix-labs/betdesk/server/netsvr/middleware"
	"github.com/zintix-labs/betdesk/server/svrcfg"
)

// RegisterRoutes mounts the middleware chain and every endpoint on svr.
func RegisterRoutes(svr netsvr.NetRouter, cfg *svrcfg.SvrCfg) error {
	is, err := auth.NewIssuer(cfg.Secret, cfg.TokenTTL, cfg.CookieSecure)
	if err != nil {
		return err
	}
	h, err := v1.NewHandler(cfg.Store, is, cfg.Log)
	if err != nil {
		return errs.Wrap(err, "build handlers")
	}
	registerMiddleware(svr, cfg.Log)
	registerAuth(svr, h)

	authed := svr.With(is.Middleware)
	registerRole(authed, h, backend.RoleUser)
	registerRole(authed, h, backend.RoleAgent)
	registerRole(authed, h, backend.RoleSuperAgent)
	registerHistory(authed, h)

	if cfg.Dev {
		dev.Register(svr, cfg)
	}
	return nil
}

func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

func registerAuth(svr netsvr.NetRouter, h *v1.Handler) {
	svr.Post(backend.PathLogin, h.Login)
	svr.Post(backend.PathLogout, h.Logout)
}

// registerRole mounts the session probe of role and, for agents and
// super-agents, the subordinate management routes.
func registerRole(authed netsvr.NetRouter, h *v1.Handler, role backend.Role) {
	r := authed.With(auth.RequireRole(role))
	r.Get(backend.SessionPath(role), h.Session)
	switch role {
	case backend.RoleAgent:
		r.Get(backend.PathAgentUsers, h.Accounts)
		r.Post(backend.PathDepositUser, h.Transfer(backend.Deposit))
		r.Post(backend.PathWithdrawUser, h.Transfer(backend.Withdraw))
		r.Post(backend.PathCreateUser, h.Create)
	case backend.RoleSuperAgent:
		r.Get(backend.PathSuperAgents, h.Accounts)
		r.Post(backend.PathDepositAgent, h.Transfer(backend.Deposit))
		r.Post(backend.PathWithdrawAgent, h.Transfer(backend.Withdraw))
		r.Post(backend.PathCreateAgent, h.Create)
	}
}

func registerHistory(authed netsvr.NetRouter, h *v1.Handler) {
	authed.Get(backend.PathBetHistory, h.BetHistory)
	authed.Get(backend.PathDepositHist, h.History(backend.DepositHistory))
	authed.Get(backend.PathWithdrawHist, h.History(backend.WithdrawHistory))
	authed.Get(backend.PathNotifications, h.Notifications)
}
