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

// Package money holds the two supported balance currencies and their display rules.
package money

import (
	"math"
	"strings"

	"github.com/zintix-labs/betdesk/errs"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Currency string

const (
	USD Currency = "USD"
	LBP Currency = "LBP"
)

const (
	usdSymbol = "$"
	lbpSymbol = "£"
)

// Supported lists the currencies in switcher order.
var Supported = []Currency{USD, LBP}

// grouping follows the English locale: "," thousands, "." decimals
var lang = language.English

func (c Currency) Valid() bool {
	return c == USD || c == LBP
}

func (c Currency) Symbol() string {
	switch c {
	case USD:
		return usdSymbol
	case LBP:
		return lbpSymbol
	default:
		return ""
	}
}

func (c Currency) String() string { return string(c) }

// ParseCurrency accepts "usd", "USD", " Lbp " and so on.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", errs.Warnf("unsupported currency %q", s)
	}
	return c, nil
}

// FromSymbol infers the currency from a rendered symbol or a rendered amount.
func FromSymbol(rendered string) (Currency, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(rendered), "-")
	switch {
	case strings.HasPrefix(s, usdSymbol):
		return USD, true
	case strings.HasPrefix(s, lbpSymbol):
		return LBP, true
	default:
		return "", false
	}
}

// Normalize applies display precision: USD rounds to cents, LBP truncates toward zero.
func Normalize(c Currency, v float64) float64 {
	switch c {
	case USD:
		return math.Round(v*100) / 100
	case LBP:
		return math.Trunc(v)
	default:
		return v
	}
}

// Format renders v the way every balance location shows it.
//
//	USD: "$1,234.50"  (always two decimals)
//	LBP: "£150,000"   (truncated, never rounded)
func Format(c Currency, v float64) string {
	p := message.NewPrinter(lang)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch c {
	case USD:
		// rounds to $0.00, no sign
		if v < 0.005 {
			sign = ""
		}
		return sign + usdSymbol + p.Sprintf("%.2f", v)
	case LBP:
		// stays float64: balances past 2^63 must not wrap
		t := math.Trunc(v)
		if t == 0 {
			sign = ""
		}
		return sign + lbpSymbol + p.Sprintf("%.0f", t)
	default:
		return sign + p.Sprintf("%.2f", v)
	}
}
