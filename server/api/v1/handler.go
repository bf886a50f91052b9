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

// Package v1 holds the HTTP handlers of the reference backend.
package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/server/auth"
	"github.com/zintix-labs/betdesk/server/httperr"
	"github.com/zintix-labs/betdesk/server/store"
)

const maxRequestBody = 1 << 20

// Handler serves every route against one Store.
type Handler struct {
	st  *store.Store
	is  *auth.Issuer
	log *slog.Logger
}

func NewHandler(st *store.Store, is *auth.Issuer, log *slog.Logger) (*Handler, error) {
	if st == nil || is == nil {
		return nil, errs.NewFatal("store and issuer are required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{st: st, is: is, log: log}, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httperr.Log(h.log, r.Method+" "+r.URL.Path, err)
	httperr.Errs(w, err)
}

// principal is set by auth.Middleware on every protected route.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Errs(w, auth.ErrNoSession)
	}
	return p, ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return errs.NewWithExtra(errs.Warn, "Invalid request body", err.Error())
	}
	return nil
}

func toAccount(a store.Account) backend.Account {
	return backend.Account{ID: a.ID, Username: a.Username, BalanceUSD: a.BalanceUSD, BalanceLBP: a.BalanceLBP}
}
