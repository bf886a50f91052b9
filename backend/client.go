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

// Package backend is the HTTP client for the betting backend API.
//
// Every call has exactly two outcomes: success (2xx, body decoded) or an *errs.E.
//   - 401/403            → errs.Auth  (session gone; caller redirects to login)
//   - other non-2xx      → errs.Warn  (message is the body's "error" field, or FallbackMessage)
//   - transport / decode → errs.Fatal
//
// Nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/betdesk/errs"
	"golang.org/x/net/publicsuffix"
)

// FallbackMessage is shown when a failed response carries no readable error.
const FallbackMessage = "Something went wrong. Please try again."

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

type Options struct {
	BaseURL string
	// HTTPClient is used as is when set (its Jar included).
	HTTPClient *http.Client
	Timeout    time.Duration
	Log        *slog.Logger
}

type Client struct {
	base *url.URL
	hc   *http.Client
	log  *slog.Logger
}

func New(opt Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opt.BaseURL, "/"))
	if err != nil {
		return nil, errs.Wrap(err, "parse backend base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errs.Warnf("backend base url must be absolute: %q", opt.BaseURL)
	}
	hc := opt.HTTPClient
	if hc == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errs.Wrap(err, "create cookie jar")
		}
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Jar: jar, Timeout: timeout}
	}
	log := opt.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{base: base, hc: hc, log: log}, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return err
	}
	return decodeJSON(path, body, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errs.Wrap(err, "encode request body")
	}
	body, err := c.do(ctx, http.MethodPost, c.endpoint(path, nil), payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeJSON(path, body, out)
}

// postText posts without a body and returns the raw response text.
func (c *Client) postText(ctx context.Context, path string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.endpoint(path, nil), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, errs.Wrap(err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	// set explicitly so the transport hands us the encoded stream
	req.Header.Set("Accept-Encoding", "zstd, gzip")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("backend.request", slog.String("method", method), slog.String("url", target), slog.Any("err", err))
		return nil, errs.WrapWithExtra(err, "backend unreachable", method+" "+target)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	c.log.Debug("backend.request",
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "read response body", method+" "+target)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, statusError(resp.StatusCode, body, method+" "+target)
}

func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil || len(raw) == 0 {
		return raw, err
	}
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(raw), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(io.LimitReader(zr, maxBody))
	case "gzip":
		gr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		return io.ReadAll(io.LimitReader(gr, maxBody))
	default:
		return raw, nil
	}
}

// statusError classifies a non-2xx response.
func statusError(status int, body []byte, where string) *errs.E {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return errs.NewWithExtra(errs.Auth, http.StatusText(status), where)
	}
	msg := FallbackMessage
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil && strings.TrimSpace(ae.Error) != "" {
		msg = ae.Error
	}
	return errs.NewWithExtra(errs.Warn, msg, where+" status="+http.StatusText(status))
}

func decodeJSON(path string, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errs.NewFatal("empty response body from " + path)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errs.WrapWithExtra(err, "decode response", path)
	}
	return nil
}
