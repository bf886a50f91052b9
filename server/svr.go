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

// Package server 負責組裝並啟動參考後端。
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/zintix-labs/betdesk/errs"
	"github.com/zintix-labs/betdesk/server/api"
	"github.com/zintix-labs/betdesk/server/app"
	"github.com/zintix-labs/betdesk/server/netsvr"
	"github.com/zintix-labs/betdesk/server/svrcfg"
)

// Run 驗證 cfg、在 chi server 上註冊路由，並阻塞直到行程被要求停止。
func Run(ctx context.Context, cfg *svrcfg.SvrCfg) error {
	return RunWithSvr(ctx, cfg, netsvr.NewChiServer(cfg.Addr))
}

// RunWithSvr 與 Run 相同，但使用呼叫端提供的 NetSvr。
func RunWithSvr(ctx context.Context, cfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := cfg.Valid(); err != nil {
		// 壞掉的可能正是 logger 本身
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	addr := cfg.Addr
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		if !s.Ready() {
			return errs.NewFatal("chi server is not ready")
		}
		addr = s.Address()
	}
	if err := api.RegisterRoutes(svr, cfg); err != nil {
		cfg.Log.Error("server.routes", slog.Any("err", err))
		return err
	}
	cfg.Log.Info("server.listening", slog.String("addr", addr))
	if err := app.NewWith(cfg.Log, svr).Run(ctx); err != nil {
		cfg.Log.Error("server.stopped", slog.Any("err", err))
		return err
	}
	return nil
}

// NewHandler 回傳不含 listener 的路由，供 httptest 或嵌入使用。
func NewHandler(cfg *svrcfg.SvrCfg) (http.Handler, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	svr := netsvr.NewChiServer(cfg.Addr)
	if err := api.RegisterRoutes(svr, cfg); err != nil {
		return nil, err
	}
	return svr.Handler(), nil
}
