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

package v1

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/money"
	"github.com/zintix-labs/betdesk/server/httperr"
)

// Accounts lists the principal's direct subordinates.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	kids := h.st.Children(p.ID)
	out := make([]backend.Account, 0, len(kids))
	for _, a := range kids {
		out = append(out, toAccount(a))
	}
	httperr.JSON(w, http.StatusOK, out)
}

type transferRequest struct {
	UserID   string  `json:"userId"`
	AgentID  string  `json:"agentId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (t transferRequest) target(role backend.Role) string {
	if role == backend.RoleSuperAgent {
		return t.AgentID
	}
	return t.UserID
}

// Transfer returns a handler moving funds to (deposit) or from (withdraw) a
// direct subordinate. Success body is {}.
func (h *Handler) Transfer(action backend.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.principal(w, r)
		if !ok {
			return
		}
		var req transferRequest
		if err := decodeBody(w, r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
		target := req.target(p.Role)
		if target == "" {
			h.fail(w, r, errs.NewWarn("Target account is required"))
			return
		}
		cur, err := money.ParseCurrency(req.Currency)
		if err != nil {
			h.fail(w, r, errs.NewWarn("Invalid currency"))
			return
		}
		if err := h.st.Transfer(p.ID, target, action, req.Amount, cur); err != nil {
			h.fail(w, r, err)
			return
		}
		h.log.Info("ledger.transfer",
			slog.String("actor", p.Username),
			slog.String("target", target),
			slog.String("action", string(action)),
			slog.Float64("amount", req.Amount),
			slog.String("currency", cur.String()),
		)
		httperr.JSON(w, http.StatusOK, struct{}{})
	}
}

// Create registers a subordinate account of the principal.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var cred backend.Credentials
	if err := decodeBody(w, r, &cred); err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.st.CreateChild(p.ID, cred.Username, cred.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info("ledger.create", slog.String("actor", p.Username), slog.String("username", a.Username), slog.String("role", string(a.Role)))
	httperr.JSON(w, http.StatusCreated, toAccount(a))
}
