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

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const payload = `{"balanceUSD":12.5,"balanceLBP":150000}`

func serve(h http.Handler, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	Compression(h).ServeHTTP(rec, req)
	return rec
}

var jsonHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(payload))
})

func TestNegotiate(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"gzip":                "gzip",
		"gzip, zstd":          "zstd",
		"zstd;q=0, gzip":      "gzip",
		"br, deflate":         "",
		"GZIP;q=0.5":          "gzip",
		"gzip;q=0, zstd;q=0":  "",
		" zstd , gzip;q=1.0 ": "zstd",
	}
	for in, want := range cases {
		if got := negotiate(in); got != want {
			t.Fatalf("negotiate(%q)=%q want %q", in, got, want)
		}
	}
}

func TestCompressionZstd(t *testing.T) {
	rec := serve(jsonHandler, "zstd, gzip")
	if rec.Header().Get("Content-Encoding") != "zstd" {
		t.Fatalf("encoding %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := zstd.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()
	got, err := io.ReadAll(zr)
	if err != nil || string(got) != payload {
		t.Fatalf("decoded %q err=%v", got, err)
	}
}

func TestCompressionGzip(t *testing.T) {
	rec := serve(jsonHandler, "gzip")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("encoding %q", rec.Header().Get("Content-Encoding"))
	}
	gr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, _ := io.ReadAll(gr)
	if string(got) != payload {
		t.Fatalf("decoded %q", got)
	}
}

func TestCompressionSkipsEmptyBodies(t *testing.T) {
	rec := serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), "gzip")
	if rec.Code != http.StatusNoContent || rec.Header().Get("Content-Encoding") != "" || rec.Body.Len() != 0 {
		t.Fatalf("204: code=%d enc=%q len=%d", rec.Code, rec.Header().Get("Content-Encoding"), rec.Body.Len())
	}

	rec = serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), "zstd")
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.Len() != 0 {
		t.Fatalf("silent handler: enc=%q len=%d", rec.Header().Get("Content-Encoding"), rec.Body.Len())
	}
}

func TestCompressionPlainWithoutAccept(t *testing.T) {
	rec := serve(jsonHandler, "")
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != payload {
		t.Fatalf("plain: enc=%q body=%q", rec.Header().Get("Content-Encoding"), rec.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetReqID(r)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-Id") != seen {
		t.Fatalf("request id %q header %q", seen, rec.Header().Get("X-Request-Id"))
	}
}
