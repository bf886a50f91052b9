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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，讓最外層知道該如何呈現這個失敗
type ErrLevel uint8

const (
	None ErrLevel = iota
	// Fatal: 傳輸或系統層失敗，訊息不給使用者看
	Fatal
	// Warn: 應用層失敗，訊息可直接顯示在元件旁
	Warn
	Log
	// Auth: 後端拒絕此 session，呼叫端應導回登入頁
	Auth
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
	Auth:  "auth",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// E 是本模組各包共用的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文（不會給使用者看）；
// Cause 串接下層錯誤（wrap）。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func NewAuth(msg string) *E {
	return &E{Message: msg, ErrLv: Auth}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func Logf(format string, a ...any) *E {
	return NewLog(fmt.Sprintf(format, a...))
}

func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 以 cause 為底層錯誤建立一個 *E。
//
// ErrLevel 規則：
//   - 若 cause 已經是 *E，沿用其等級（保持原本嚴重度）。
//   - 其他錯誤（標準庫或三方依賴）一律視為 Fatal。
//
// 若已判斷是「可預期且可處理」的情境，請直接建立 *E，不要呼叫 Wrap。
func Wrap(cause error, msg string) *E {
	r := New(levelOf(cause), msg)
	r.Cause = cause
	return r
}

func WrapWithExtra(cause error, msg string, extra string) *E {
	r := NewWithExtra(levelOf(cause), msg, extra)
	r.Cause = cause
	return r
}

func levelOf(cause error) ErrLevel {
	var e *E
	if errors.As(cause, &e) {
		return e.ErrLv
	}
	return Fatal
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// Level 回傳 err 鏈上最外層 *E 的等級，找不到則為 None。
func Level(err error) ErrLevel {
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return None
}

// IsAuth 回報 err 是否代表 session 已失效。
func IsAuth(err error) bool {
	return Level(err) == Auth
}

// UserMessage 回傳元件要顯示的文字。
// 鏈上最內層的 Warn 訊息即後端原文，原樣顯示；
// 沒有 Warn 訊息時一律回傳 fallback。
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	msg := ""
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if e, ok := cur.(*E); ok && e.ErrLv == Warn && e.Message != "" {
			msg = e.Message
		}
	}
	if msg == "" {
		return fallback
	}
	return msg
}
