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
	"net/http"
	"strconv"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/server/httperr"
	"github.com/zintix-labs/betdesk/server/store"
)

const defaultBetLimit = 10

// errNotVisible is an application failure, not a rejected session: the caller
// stays logged in and sees this text.
var errNotVisible = errs.NewWarn("You cannot view this account's history")

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewWithExtra(errs.Warn, "Invalid "+name, err.Error())
	}
	return n, nil
}

// BetHistory pages through a user's bets. The principal may read its own history
// or that of a direct subordinate.
func (h *Handler) BetHistory(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		username = p.Username
	}
	if !h.st.CanView(p.ID, username) {
		h.fail(w, r, errNotVisible)
		return
	}
	limit, err := intParam(r, "limit", defaultBetLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	bets, next, err := h.st.Bets(username, limit, r.URL.Query().Get("cursor"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := backend.BetPage{
		Bets:       make([]backend.Bet, 0, len(bets)),
		Pagination: backend.Pagination{HasNextPage: next != "", NextCursor: next},
	}
	for _, b := range bets {
		out.Bets = append(out.Bets, backend.Bet{
			ID:        b.ID,
			Game:      b.Game,
			Amount:    b.Amount,
			Currency:  b.Currency,
			Payout:    b.Payout,
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
		})
	}
	httperr.JSON(w, http.StatusOK, out)
}

func toMovements(ms []store.Movement) []backend.Movement {
	out := make([]backend.Movement, 0, len(ms))
	for _, m := range ms {
		out = append(out, backend.Movement{
			ID:        m.ID,
			Amount:    m.Amount,
			Currency:  m.Currency,
			Network:   m.Network,
			Address:   m.Address,
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

// History serves the principal's deposit or withdraw history, one 1-based page
// per request.
func (h *Handler) History(kind backend.HistoryKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.principal(w, r)
		if !ok {
			return
		}
		page, err := intParam(r, "page", 1)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		items, more, err := h.st.History(p.Username, kind, page, 0)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if kind == backend.WithdrawHistory {
			httperr.JSON(w, http.StatusOK, map[string]any{"withdraws": toMovements(items), "hasMore": more})
			return
		}
		httperr.JSON(w, http.StatusOK, map[string]any{"deposits": toMovements(items), "hasMore": more})
	}
}

// Notifications lists broadcast and personal messages for the principal.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	notes := h.st.Notifications(p.Username)
	out := make([]backend.Notification, 0, len(notes))
	for _, n := range notes {
		out = append(out, backend.Notification{Message: n.Message})
	}
	httperr.JSON(w, http.StatusOK, out)
}
