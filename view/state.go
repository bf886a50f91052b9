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

package view

import (
	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/money"
)

// ActionClass groups requests whose responses supersede each other.
type ActionClass string

const (
	ClassSession       ActionClass = "session"
	ClassList          ActionClass = "list"
	ClassNotifications ActionClass = "notifications"
	ClassTransfer      ActionClass = "transfer"
	ClassCreate        ActionClass = "create"
)

// PanelKind is a family of mutually exclusive panels: at most one per kind is open.
type PanelKind string

const (
	PanelBalance       PanelKind = "balance"
	PanelNotifications PanelKind = "notifications"
	PanelProfile       PanelKind = "profile"
	PanelRowMenu       PanelKind = "row-menu"
)

// Panel is one toggleable panel. Key tells apart instances of the same kind
// (one row menu per account); singleton panels leave it empty.
type Panel struct {
	Kind PanelKind
	Key  string
}

func (p Panel) suffix() string {
	if p.Key == "" {
		return string(p.Kind)
	}
	return string(p.Kind) + ":" + p.Key
}

// ToggleID is the element id of the control that opens p.
func (p Panel) ToggleID() string { return "toggle:" + p.suffix() }

// PanelID is the element id of p's body.
func (p Panel) PanelID() string { return "panel:" + p.suffix() }

// Widget names the place an inline error is shown.
type Widget string

const (
	WidgetModal         Widget = "modal"
	WidgetCreate        Widget = "create"
	WidgetList          Widget = "list"
	WidgetNotifications Widget = "notifications"
)

type ListKind string

const (
	ListNone   ListKind = ""
	ListUsers  ListKind = "users"
	ListAgents ListKind = "agents"
)

// ListKindFor is the subordinate list a role's dashboard shows.
func ListKindFor(r backend.Role) ListKind {
	switch r {
	case backend.RoleAgent:
		return ListUsers
	case backend.RoleSuperAgent:
		return ListAgents
	default:
		return ListNone
	}
}

type ListView struct {
	Kind ListKind
	Rows []backend.Account
}

// PendingAction is the open deposit/withdraw modal. It lives from open to close.
type PendingAction struct {
	TargetID string
	Action   backend.Action
	Amount   float64
	Currency money.Currency
	// Seq of the submit in flight, zero before submit.
	Seq  uint64
	Done bool
}

// State is everything a page view knows. It is owned by the Controller and only
// changed through Reduce.
type State struct {
	Role          backend.Role
	Session       backend.Session
	Authenticated bool
	Selected      money.Currency
	Open          map[PanelKind]string
	Notifications []backend.Notification
	List          ListView
	Pending       *PendingAction
	Errors        map[Widget]string
	RedirectTo    string
	Issued        map[ActionClass]uint64
}

// NewState returns the state before the session probe.
func NewState(role backend.Role) State {
	return State{
		Role:     role,
		Selected: money.USD,
		Open:     map[PanelKind]string{},
		Errors:   map[Widget]string{},
		Issued:   map[ActionClass]uint64{},
	}
}

// IsOpen reports whether p is currently shown.
func (s State) IsOpen(p Panel) bool {
	key, ok := s.Open[p.Kind]
	return ok && key == p.Key
}

// Latest reports whether seq is the newest request issued for class.
func (s State) Latest(class ActionClass, seq uint64) bool {
	return seq != 0 && s.Issued[class] == seq
}

// clone copies the maps and slices Reduce may touch so the input stays untouched.
func (s State) clone() State {
	n := s
	n.Open = make(map[PanelKind]string, len(s.Open))
	for k, v := range s.Open {
		n.Open[k] = v
	}
	n.Errors = make(map[Widget]string, len(s.Errors))
	for k, v := range s.Errors {
		n.Errors[k] = v
	}
	n.Issued = make(map[ActionClass]uint64, len(s.Issued))
	for k, v := range s.Issued {
		n.Issued[k] = v
	}
	if s.Pending != nil {
		p := *s.Pending
		n.Pending = &p
	}
	return n
}
