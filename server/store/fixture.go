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

package store

import (
	"embed"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/betdesk/backend"
	"github.com/zintix-labs/betdesk/errs"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// Fixture is the YAML seed of a Store.
type Fixture struct {
	Accounts      []Account      `yaml:"accounts"`
	Bets          []Bet          `yaml:"bets"`
	Deposits      []Movement     `yaml:"deposits"`
	Withdraws     []Movement     `yaml:"withdraws"`
	Notifications []Notification `yaml:"notifications"`
	// Generate adds synthetic, deterministic history per username.
	Generate []Generate `yaml:"generate"`
}

// Generate describes synthetic history for one user. Timestamps step back one
// minute per row from Start, so newest-first order is the generation order.
type Generate struct {
	Username  string    `yaml:"username"`
	Bets      int       `yaml:"bets"`
	Deposits  int       `yaml:"deposits"`
	Withdraws int       `yaml:"withdraws"`
	Start     time.Time `yaml:"start"`
}

type Account struct {
	ID         string       `yaml:"id"`
	Username   string       `yaml:"username"`
	Password   string       `yaml:"password"`
	Role       backend.Role `yaml:"role"`
	Parent     string       `yaml:"parent"`
	BalanceUSD float64      `yaml:"balance_usd"`
	BalanceLBP float64      `yaml:"balance_lbp"`
}

type Bet struct {
	ID        string    `yaml:"id"`
	Username  string    `yaml:"username"`
	Game      string    `yaml:"game"`
	Amount    float64   `yaml:"amount"`
	Currency  string    `yaml:"currency"`
	Payout    float64   `yaml:"payout"`
	Status    string    `yaml:"status"`
	CreatedAt time.Time `yaml:"created_at"`
}

type Movement struct {
	ID        string    `yaml:"id"`
	Username  string    `yaml:"username"`
	Amount    float64   `yaml:"amount"`
	Currency  string    `yaml:"currency"`
	Network   string    `yaml:"network"`
	Address   string    `yaml:"address"`
	Status    string    `yaml:"status"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Notification with an empty Username goes to everyone.
type Notification struct {
	Username string `yaml:"username"`
	Message  string `yaml:"message"`
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, errs.Wrap(err, "failed to unmarshal fixture yaml")
	}
	f.expand()
	return f, nil
}

// LoadFixture reads a fixture file from disk.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, errs.Wrap(err, "read fixture "+path)
	}
	return ParseFixture(data)
}

// DefaultFixture is the embedded demo data set.
func DefaultFixture() (Fixture, error) {
	data, err := fixtureFS.ReadFile("fixtures/default.yaml")
	if err != nil {
		return Fixture{}, errs.Wrap(err, "read embedded fixture")
	}
	return ParseFixture(data)
}

var (
	games    = []string{"crash", "dice", "roulette", "blackjack", "slots"}
	networks = []string{"TRC20", "ERC20", "BEP20"}
)

func (f *Fixture) expand() {
	for _, g := range f.Generate {
		start := g.Start
		if start.IsZero() {
			start = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		}
		for i := 0; i < g.Bets; i++ {
			amount := float64(1 + i%7)
			payout := 0.0
			status := "lost"
			if i%3 == 0 {
				payout = amount * float64(2+i%4)
				status = "won"
			}
			f.Bets = append(f.Bets, Bet{
				ID:        fmt.Sprintf("bet-%s-%04d", g.Username, i+1),
				Username:  g.Username,
				Game:      games[i%len(games)],
				Amount:    amount,
				Currency:  "USD",
				Payout:    payout,
				Status:    status,
				CreatedAt: start.Add(-time.Duration(i) * time.Minute),
			})
		}
		for i := 0; i < g.Deposits; i++ {
			f.Deposits = append(f.Deposits, Movement{
				ID:        fmt.Sprintf("dep-%s-%04d", g.Username, i+1),
				Username:  g.Username,
				Amount:    float64(10 * (i + 1)),
				Currency:  "USD",
				Network:   networks[i%len(networks)],
				Status:    "completed",
				CreatedAt: start.Add(-time.Duration(i) * time.Hour),
			})
		}
		for i := 0; i < g.Withdraws; i++ {
			f.Withdraws = append(f.Withdraws, Movement{
				ID:        fmt.Sprintf("wdr-%s-%04d", g.Username, i+1),
				Username:  g.Username,
				Amount:    float64(5 * (i + 1)),
				Currency:  "USD",
				Address:   fmt.Sprintf("T%s%04d", g.Username, i+1),
				Status:    "pending",
				CreatedAt: start.Add(-time.Duration(i) * time.Hour),
			})
		}
	}
	f.Generate = nil
}
