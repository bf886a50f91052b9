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

// Package dev exposes helper routes for local runs. They are mounted only when
// the server is started in dev mode.
package dev

import (
	"net/http"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/server/httperr"
	"github.com/zintix-labs/betdesk/server/netsvr"
	"github.com/zintix-labs/betdesk/server/svrcfg"
)

type login struct {
	Username string       `json:"username"`
	Password string       `json:"password"`
	Role     backend.Role `json:"role"`
	Parent   string       `json:"parent,omitempty"`
}

func Register(svr netsvr.NetRouter, cfg *svrcfg.SvrCfg) {
	svr.Get("/dev/accounts", accounts(cfg))
}

// accounts lists every fixture login, super-agents first.
func accounts(cfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := cfg.Store.All()
		names := make(map[string]string, len(all))
		for _, a := range all {
			names[a.ID] = a.Username
		}
		out := make([]login, 0, len(all))
		for _, a := range all {
			out = append(out, login{Username: a.Username, Password: a.Password, Role: a.Role, Parent: names[a.Parent]})
		}
		httperr.JSON(w, http.StatusOK, out)
	}
}
