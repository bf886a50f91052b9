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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/server/logger"
	"github.com/zintix-labs/betdesk/server/store"
)

// SvrCfg 攜帶參考後端所需的一切。這裡不讀檔也不讀環境變數，
// 全部由呼叫端注入。
type SvrCfg struct {
	Log   *slog.Logger
	Addr  string
	Store *store.Store
	// Secret 用於簽署 session token（HS256，至少 16 bytes）。
	Secret       []byte
	TokenTTL     time.Duration
	CookieSecure bool
	// Dev 掛上 /dev/accounts，列出 fixture 的登入帳號。
	Dev bool
}

func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("async log handler is not ready")
		}
	} else {
		sc.Log = logger.Discard()
	}
	if sc.Store == nil {
		return errs.NewFatal("store is required")
	}
	if len(sc.Secret) < 16 {
		return errs.NewFatal("session secret must be at least 16 bytes")
	}
	if sc.TokenTTL <= 0 {
		sc.TokenTTL = 12 * time.Hour
	}
	return nil
}
