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

package pager

import (
	"github.com/zintix-labs/betdesk/backend"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates bets of one currency.
type Summary struct {
	Count   int
	Staked  float64
	Paid    float64
	Wins    int
	WinRate float64
	// Net is payout minus stake per bet.
	NetMean float64
	NetStd  float64
}

// Summarize groups bets by currency. Bets without a currency go under "".
func Summarize(bets []backend.Bet) map[string]Summary {
	nets := map[string][]float64{}
	out := map[string]Summary{}
	for _, b := range bets {
		s := out[b.Currency]
		s.Count++
		s.Staked += b.Amount
		s.Paid += b.Payout
		if b.Payout > b.Amount {
			s.Wins++
		}
		out[b.Currency] = s
		nets[b.Currency] = append(nets[b.Currency], b.Payout-b.Amount)
	}
	for cur, s := range out {
		xs := nets[cur]
		s.WinRate = float64(s.Wins) / float64(s.Count)
		s.NetMean = stat.Mean(xs, nil)
		if len(xs) > 1 {
			s.NetStd = stat.StdDev(xs, nil)
		}
		out[cur] = s
	}
	return out
}
