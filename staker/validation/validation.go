// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validation

import (
	"github.com/schoollys/atlas2/atlas"
)

type Status uint8

const (
	StatusDeregistered      = Status(iota) // 0 -> default value
	StatusActive                           // registered and eligible for selection
	StatusSlashed                          // punished, no longer eligible
	StatusInsufficientStake                // stake fell below the minimum
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusSlashed:
		return "slashed"
	case StatusInsufficientStake:
		return "insufficient-stake"
	default:
		return "deregistered"
	}
}

// Reputation is a performance score, within [0, 100].
type Reputation struct {
	Score       atlas.Balance
	LastUpdated atlas.EraIndex
}

type Validator struct {
	Account         atlas.Address
	SelfStake       atlas.Balance   // stake locked by the validator itself
	TotalStake      atlas.Balance   // self stake plus all delegations
	Reputation      Reputation
	IsActive        bool
	DeregisteredEra *atlas.EraIndex `rlp:"nil"` // the era the validator stopped being active
}

// DelegatedStake returns the stake contributed by delegators.
func (v *Validator) DelegatedStake() atlas.Balance {
	return v.TotalStake.Sub(v.SelfStake)
}

// BondedUntil returns the first era in which a deregistered validator may withdraw.
func (v *Validator) BondedUntil(bondingDuration atlas.EraIndex) (atlas.EraIndex, bool) {
	if v.DeregisteredEra == nil {
		return 0, false
	}
	return v.DeregisteredEra.SaturatingAdd(bondingDuration), true
}
