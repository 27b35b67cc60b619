// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards splits an era reward pool between validators and their delegators.
package rewards

import (
	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/era"
)

var (
	// Commission is the part of a validator reward it keeps before sharing.
	Commission = atlas.PerbillFromPercent(10)
	// MaxReputationBonus is the bonus granted on top of a reward at full reputation.
	MaxReputationBonus = atlas.PerbillFromPercent(10)

	hundred = atlas.NewBalance(100)
)

// Share is a validator taking part in a payout.
type Share struct {
	Validator  atlas.Address
	Reputation atlas.Balance
	Exposure   *era.Exposure
}

type Payout struct {
	Who    atlas.Address
	Amount atlas.Balance
}

// ValidatorPayout details the split of one validator reward.
type ValidatorPayout struct {
	Validator  atlas.Address
	Reward     atlas.Balance // stake proportional reward
	Bonus      atlas.Balance // reputation bonus
	Actual     atlas.Balance // reward plus bonus, capped by the remaining pool
	Commission atlas.Balance
	Payouts    []Payout // validator first, then its delegators
}

type Plan struct {
	Validators []ValidatorPayout
	Remainder  atlas.Balance
}

// Distributed returns the part of pool the plan spends.
func (p *Plan) Distributed(pool atlas.Balance) atlas.Balance {
	return pool.Sub(p.Remainder)
}

// Compute splits pool between shares, in order. Every ratio is a Perbill rounded
// down, so rounding dust stays in the remainder. A validator and its delegators
// never get more than its actual reward, so the plan never spends more than pool.
func Compute(pool, eraTotal atlas.Balance, shares []Share) *Plan {
	plan := &Plan{Remainder: pool}
	if eraTotal.IsZero() {
		return plan
	}

	for _, share := range shares {
		exp := share.Exposure
		if exp == nil {
			exp = &era.Exposure{}
		}

		reward := atlas.PerbillFromRational(exp.Total, eraTotal).Mul(pool)
		if reward.IsZero() {
			continue
		}

		factor := atlas.PerbillFromRational(share.Reputation, hundred)
		bonus := MaxReputationBonus.Product(factor).Mul(reward)
		actual := atlas.MinBalance(reward.Add(bonus), plan.Remainder)
		plan.Remainder = plan.Remainder.Sub(actual)

		commission := Commission.Mul(actual)
		delegatorsReward := actual.Sub(commission)
		own := atlas.PerbillFromRational(exp.Own, exp.Total).Mul(delegatorsReward)

		vp := ValidatorPayout{
			Validator:  share.Validator,
			Reward:     reward,
			Bonus:      bonus,
			Actual:     actual,
			Commission: commission,
		}
		if total := own.Add(commission); !total.IsZero() {
			vp.Payouts = append(vp.Payouts, Payout{Who: share.Validator, Amount: total})
		}
		if !delegatorsReward.IsZero() {
			// delegators share what the validator left, even when their values exceed Total-Own
			left := delegatorsReward.Sub(own)
			for _, d := range exp.Delegations {
				amount := atlas.PerbillFromRational(d.Value, exp.Total).Mul(delegatorsReward)
				amount = atlas.MinBalance(amount, left)
				left = left.Sub(amount)
				if !amount.IsZero() {
					vp.Payouts = append(vp.Payouts, Payout{Who: d.Who, Amount: amount})
				}
			}
		}
		plan.Validators = append(plan.Validators, vp)
	}
	return plan
}
