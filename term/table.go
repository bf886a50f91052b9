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

// Package term draws the dashboard on a terminal.
package term

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// KV renders a two-column boxed table with a centred title. Keys are printed
// in the given order.
func KV(title string, keys []string, msg map[string]string) string {
	keyW, valW := 0, 0
	for _, k := range keys {
		keyW = max(keyW, runewidth.StringWidth(k))
		valW = max(valW, runewidth.StringWidth(msg[k]))
	}
	keyW += 2
	valW += 2
	inner := keyW + 1 + valW
	inner = max(inner, runewidth.StringWidth(title)+2)
	valW = inner - 1 - keyW

	var b strings.Builder
	b.WriteString(rule(inner))
	b.WriteString(centred(title, inner))
	b.WriteString(divider([]int{keyW, valW}))
	for _, k := range keys {
		b.WriteString("| " + pad(k, keyW-2) + " | " + pad(msg[k], valW-2) + " |\n")
	}
	b.WriteString(divider([]int{keyW, valW}))
	return b.String()
}

// Grid renders header and rows as a boxed table. Columns listed in right are
// right-aligned, which suits amounts.
func Grid(title string, header []string, rows [][]string, right ...int) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i := range widths {
			if i < len(r) {
				widths[i] = max(widths[i], runewidth.StringWidth(r[i]))
			}
		}
	}
	inner := -1
	for i := range widths {
		widths[i] += 2
		inner += widths[i] + 1
	}
	if tw := runewidth.StringWidth(title) + 2; tw > inner {
		widths[len(widths)-1] += tw - inner
		inner = tw
	}
	alignRight := map[int]bool{}
	for _, i := range right {
		alignRight[i] = true
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(rule(inner))
		b.WriteString(centred(title, inner))
	}
	b.WriteString(divider(widths))
	b.WriteString(line(header, widths, nil))
	b.WriteString(divider(widths))
	for _, r := range rows {
		b.WriteString(line(r, widths, alignRight))
	}
	b.WriteString(divider(widths))
	return b.String()
}

func line(cells []string, widths []int, right map[int]bool) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		c := ""
		if i < len(cells) {
			c = cells[i]
		}
		if right[i] {
			b.WriteString(" " + padLeft(c, w-2) + " |")
		} else {
			b.WriteString(" " + pad(c, w-2) + " |")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func rule(inner int) string {
	return "+" + strings.Repeat("-", inner) + "+\n"
}

func divider(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w) + "+")
	}
	b.WriteString("\n")
	return b.String()
}

func centred(s string, inner int) string {
	w := runewidth.StringWidth(s)
	left := (inner - w) / 2
	return "|" + blank(left) + s + blank(inner-w-left) + "|\n"
}

func pad(s string, w int) string {
	return s + blank(w-runewidth.StringWidth(s))
}

func padLeft(s string, w int) string {
	return blank(w-runewidth.StringWidth(s)) + s
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
