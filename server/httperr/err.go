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

// Package httperr 是 errs 的 HTTP 邊界：將錯誤等級對應到狀態碼，
// 並寫出客戶端讀取的 {"error": "..."} body。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/betdesk/errs"
)

// internalMessage 取代對外輸出的 Fatal 訊息。
const internalMessage = "Internal server error"

// StatusCode 將 err 對應到狀態碼。
//
//   - ctx timeout/cancel → 504/408
//   - errs.Auth          → 401
//   - errs.Warn          → 400
//   - errs.Fatal         → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	switch errs.Level(err) {
	case errs.Auth:
		return http.StatusUnauthorized
	case errs.Warn:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message 是 err 對客戶端的文字；Fatal 細節只留在 log。
func Message(err error) string {
	switch errs.Level(err) {
	case errs.Warn:
		return errs.UserMessage(err, http.StatusText(http.StatusBadRequest))
	case errs.Auth:
		msg := http.StatusText(http.StatusUnauthorized)
		for cur := err; cur != nil; cur = errors.Unwrap(cur) {
			if e, ok := cur.(*errs.E); ok && e.ErrLv == errs.Auth && e.Message != "" {
				msg = e.Message
			}
		}
		return msg
	default:
		return internalMessage
	}
}

type body struct {
	Error string `json:"error"`
}

// Errs 將 err 寫成 JSON 錯誤 body；nil 不做事。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	WriteStatus(w, StatusCode(err), Message(err))
}

// WriteStatus 以 status 寫出 {"error": msg}。
func WriteStatus(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, body{Error: msg})
}

// JSON 以 status 編碼 v。先編碼 body 再送 header，
// 編碼失敗時仍能回乾淨的 500。
func JSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"` + internalMessage + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// Log 依狀態碼選擇等級記錄 err：5xx 用 error，408/409/429 用 warn。
// 其餘客戶端錯誤交給 access log。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusConflict || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Any("err", err))
	case status >= 500 && status < 600:
		log.Error(msg, slog.Any("err", err))
	}
}
