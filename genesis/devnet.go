// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker"
)

// DevAccount derives the address of the i-th development account.
func DevAccount(i int) atlas.Address {
	h := atlas.Blake2b([]byte(fmt.Sprintf("atlas-dev-%d", i)))
	return atlas.BytesToAddress(h[12:])
}

// NewDevnet creates a development genesis with short eras, the given number of
// validators and one delegator per validator.
func NewDevnet(validators int) *Config {
	params := staker.DefaultParams()
	params.EraDuration = 10
	params.BondingDuration = 2
	params.EraReward = atlas.NewBalance(1_000_000)

	cfg := &Config{Params: params}
	for i := range validators {
		v := DevAccount(2 * i)
		d := DevAccount(2*i + 1)
		cfg.Accounts = append(cfg.Accounts,
			Account{Address: v, Balance: atlas.NewBalance(1_000_000)},
			Account{Address: d, Balance: atlas.NewBalance(100_000)},
		)
		cfg.Validators = append(cfg.Validators, Validator{
			Address:    v,
			Stake:      atlas.NewBalance(uint64(10_000 * (i + 1))),
			Reputation: atlas.NewBalance(uint64(50 + 10*(i%6))),
		})
		cfg.Delegations = append(cfg.Delegations, Delegation{
			Delegator: d,
			Validator: v,
			Amount:    atlas.NewBalance(5_000),
		})
	}
	return cfg
}
