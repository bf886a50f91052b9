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

// Package servertest starts the reference backend in-process for tests.
package servertest

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/server"
	"github.com/zintix-labs/betdesk/server/store"
	"github.com/zintix-labs/betdesk/server/svrcfg"
)

// Secret signs test sessions.
const Secret = "servertest-secret-0123456789"

// Start serves the default fixture on a fresh store until the test ends.
func Start(t testing.TB) (*httptest.Server, *store.Store) {
	t.Helper()
	f, err := store.DefaultFixture()
	if err != nil {
		t.Fatalf("default fixture: %v", err)
	}
	st, err := store.New(f)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	h, err := server.NewHandler(&svrcfg.SvrCfg{Store: st, Secret: []byte(Secret), Dev: true})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, st
}

// Client returns an API client with its own cookie jar.
func Client(t testing.TB, ts *httptest.Server) *backend.Client {
	t.Helper()
	c, err := backend.New(backend.Options{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

// Login returns a client already signed in as username.
func Login(t testing.TB, ts *httptest.Server, username, password string) *backend.Client {
	t.Helper()
	c := Client(t, ts)
	if _, err := c.Login(context.Background(), backend.Credentials{Username: username, Password: password}); err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return c
}
