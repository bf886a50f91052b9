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

package netsvr

import (
	"net/http"

	"github.com/zintix-labs/betdesk/server/app"
)

// NetSvr 是擁有自身 listener 的路由器。只有 server 包的組裝流程持有它；
// 註冊路由一律透過 NetRouter。
type NetSvr interface {
	NetRouter
	app.Component
	// Handler 提供給行程內使用（httptest）。
	Handler() http.Handler
}

// NetRouter 只負責註冊路由，不碰伺服器生命週期。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	// With 回傳一個路由器，其路由會先經過額外的 middleware。
	With(middlewares ...func(http.Handler) http.Handler) NetRouter
}
