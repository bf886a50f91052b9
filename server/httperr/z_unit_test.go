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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/betdesk/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.NewWarn("bad"), http.StatusBadRequest},
		{errs.NewAuth("who"), http.StatusUnauthorized},
		{errs.NewFatal("boom"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{errs.Wrap(context.DeadlineExceeded, "slow"), http.StatusGatewayTimeout},
		{fmt.Errorf("x: %w", context.Canceled), http.StatusRequestTimeout},
		{errs.Wrap(errs.NewWarn("Insufficient balance"), "transfer"), http.StatusBadRequest},
	}
	for _, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("StatusCode(%v)=%d want %d", c.err, got, c.want)
		}
	}
}

func TestErrsBody(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{errs.Wrap(errs.NewWarn("Insufficient balance"), "transfer"), 400, "Insufficient balance"},
		{errs.NewFatal("db exploded at 0xdead"), 500, "Internal server error"},
		{errs.NewAuth("Session expired"), 401, "Session expired"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		Errs(rec, c.err)
		if rec.Code != c.code {
			t.Fatalf("%v: code %d", c.err, rec.Code)
		}
		var b body
		if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil || b.Error != c.msg {
			t.Fatalf("%v: body %q err=%v", c.err, rec.Body.String(), err)
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Fatalf("content type %q", rec.Header().Get("Content-Type"))
		}
	}
}

func TestErrsNilIsNoop(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("nil error wrote %q", rec.Body.String())
	}
}
