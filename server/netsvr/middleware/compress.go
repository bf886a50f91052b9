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
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	encZstd = "zstd"
	encGzip = "gzip"
)

var (
	gzipPool = sync.Pool{New: func() any {
		gw, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return gw
	}}
	zstdPool = sync.Pool{New: func() any {
		zw, err := zstd.NewWriter(io.Discard,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}}
)

// negotiate 在客戶端接受（q > 0）的編碼中優先選 zstd，其次 gzip。
func negotiate(header string) string {
	best := ""
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v <= 0 {
				continue
			}
		}
		switch name {
		case encZstd:
			return encZstd
		case encGzip:
			best = encGzip
		}
	}
	return best
}

func noBody(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

type flushWriter interface {
	io.WriteCloser
	Flush() error
}

// compressWriter 在第一次寫入 body 前暫存狀態碼，
// 沒有 body 的回應不帶 Content-Encoding。
type compressWriter struct {
	http.ResponseWriter
	encoding string
	enc      flushWriter
	status   int
	sent     bool
	off      bool
}

func (cw *compressWriter) WriteHeader(code int) {
	if cw.sent || cw.status != 0 {
		return
	}
	cw.status = code
	if noBody(code) {
		cw.off = true
		cw.send()
	}
}

func (cw *compressWriter) send() {
	if cw.sent {
		return
	}
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	if !cw.off {
		h := cw.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", cw.encoding)
		h.Add("Vary", "Accept-Encoding")
	}
	cw.sent = true
	cw.ResponseWriter.WriteHeader(cw.status)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.sent {
		if len(b) == 0 {
			return 0, nil
		}
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		cw.send()
	}
	if cw.off {
		return cw.ResponseWriter.Write(b)
	}
	if cw.enc == nil {
		cw.enc = cw.acquire()
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) acquire() flushWriter {
	if cw.encoding == encZstd {
		zw := zstdPool.Get().(*zstd.Encoder)
		zw.Reset(cw.ResponseWriter)
		return zw
	}
	gw := gzipPool.Get().(*gzip.Writer)
	gw.Reset(cw.ResponseWriter)
	return gw
}

func (cw *compressWriter) Flush() {
	cw.send()
	if cw.enc != nil {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) finish() {
	if !cw.sent {
		// 沒寫過任何東西：原樣回應
		cw.off = true
		if cw.status != 0 {
			cw.send()
		}
		return
	}
	if cw.off {
		return
	}
	if cw.enc == nil {
		// header 已宣告編碼，必須補上編碼後的 body
		cw.enc = cw.acquire()
	}
	_ = cw.enc.Close()
	switch e := cw.enc.(type) {
	case *zstd.Encoder:
		e.Reset(io.Discard)
		zstdPool.Put(e)
	case *gzip.Writer:
		e.Reset(io.Discard)
		gzipPool.Put(e)
	}
	cw.enc = nil
}

func (cw *compressWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// Compression 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應 body。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || r.Header.Get("Upgrade") != "" || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		enc := negotiate(r.Header.Get("Accept-Encoding"))
		if enc == "" {
			next.ServeHTTP(w, r)
			return
		}
		cw := &compressWriter{ResponseWriter: w, encoding: enc}
		defer cw.finish()
		next.ServeHTTP(cw, r)
	})
}
