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
	"github.com/zintix-labs/betdesk/server/auth"
	"github.com/zintix-labs/betdesk/server/httperr"
)

// Login checks credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cred backend.Credentials
	if err := decodeBody(w, r, &cred); err != nil {
		h.fail(w, r, err)
		return
	}
	if cred.Username == "" || cred.Password == "" {
		h.fail(w, r, errs.NewWarn("Username and password are required"))
		return
	}
	a, err := h.st.Authenticate(cred.Username, cred.Password)
	if err != nil {
		h.log.Info("auth.login.rejected", slog.String("username", cred.Username))
		h.fail(w, r, err)
		return
	}
	if err := h.is.SetCookie(w, auth.Principal{ID: a.ID, Username: a.Username, Role: a.Role}); err != nil {
		h.fail(w, r, err)
		return
	}
	httperr.JSON(w, http.StatusOK, backend.LoginResult{Username: a.Username, Role: a.Role})
}

// Logout clears the cookie. It answers 200 with or without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.is.ClearCookie(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Logged out successfully"))
}

// Session reports the principal's balances. Only the user probe carries the username.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	a, err := h.st.Get(p.ID)
	if err != nil {
		h.fail(w, r, auth.ErrNoSession)
		return
	}
	out := backend.Session{BalanceUSD: a.BalanceUSD, BalanceLBP: a.BalanceLBP}
	if a.Role == backend.RoleUser {
		out.Username = a.Username
	}
	httperr.JSON(w, http.StatusOK, out)
}
