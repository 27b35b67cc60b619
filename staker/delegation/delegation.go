// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/schoollys/atlas2/atlas"
)

// Delegation is the stake one delegator backs one validator with.
type Delegation struct {
	Validator atlas.Address
	Amount    atlas.Balance
}

// Unbonding is withdrawn stake that stays locked until ReleaseEra.
type Unbonding struct {
	Amount     atlas.Balance
	ReleaseEra atlas.EraIndex
}

type Delegator struct {
	Account     atlas.Address
	Delegations []Delegation // in the order they were first made, one per validator
	TotalStaked atlas.Balance
	Unbonding   []Unbonding // ordered by release era
}

// Find returns the position of the delegation to validator, -1 if none.
func (d *Delegator) Find(validator atlas.Address) int {
	for i, del := range d.Delegations {
		if del.Validator == validator {
			return i
		}
	}
	return -1
}

// AmountTo returns the stake delegated to validator.
func (d *Delegator) AmountTo(validator atlas.Address) atlas.Balance {
	if i := d.Find(validator); i >= 0 {
		return d.Delegations[i].Amount
	}
	return atlas.Balance{}
}

// TotalUnbonding returns the stake waiting for release.
func (d *Delegator) TotalUnbonding() atlas.Balance {
	var sum atlas.Balance
	for _, u := range d.Unbonding {
		sum = sum.Add(u.Amount)
	}
	return sum
}

// Locked returns the amount the delegator lock must cover.
func (d *Delegator) Locked() atlas.Balance {
	return d.TotalStaked.Add(d.TotalUnbonding())
}

// IsEmpty returns true when nothing is delegated or waiting for release.
func (d *Delegator) IsEmpty() bool {
	return len(d.Delegations) == 0 && len(d.Unbonding) == 0
}

func (d *Delegator) addUnbonding(amount atlas.Balance, releaseEra atlas.EraIndex) {
	if amount.IsZero() {
		return
	}
	if n := len(d.Unbonding); n > 0 && d.Unbonding[n-1].ReleaseEra == releaseEra {
		d.Unbonding[n-1].Amount = d.Unbonding[n-1].Amount.Add(amount)
		return
	}
	d.Unbonding = append(d.Unbonding, Unbonding{Amount: amount, ReleaseEra: releaseEra})
}

// releaseMatured removes the chunks released at or before era and returns their sum.
func (d *Delegator) releaseMatured(era atlas.EraIndex) atlas.Balance {
	var (
		released atlas.Balance
		pending  []Unbonding
	)
	for _, u := range d.Unbonding {
		if u.ReleaseEra <= era {
			released = released.Add(u.Amount)
		} else {
			pending = append(pending, u)
		}
	}
	d.Unbonding = pending
	return released
}
