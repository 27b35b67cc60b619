// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
)

// Params configures the staking economics. They are fixed for the life of a chain.
type Params struct {
	EraDuration                atlas.BlockNumber `yaml:"era-duration"`                  // blocks per era
	ValidatorsCount            uint32            `yaml:"validators-count"`              // validators selected per era
	MinValidatorStake          atlas.Balance     `yaml:"min-validator-stake"`           // smallest non zero self stake
	MinDelegationStake         atlas.Balance     `yaml:"min-delegation-stake"`          // smallest delegation per call
	MaxDelegationsPerDelegator uint32            `yaml:"max-delegations-per-delegator"` // distinct validators per delegator
	RewardPaymentDelay         atlas.EraIndex    `yaml:"reward-payment-delay"`          // eras between selection and payout
	BondingDuration            atlas.EraIndex    `yaml:"bonding-duration"`              // eras withdrawn stake stays locked
	ReputationWeight           atlas.Perbill     `yaml:"reputation-weight"`             // share of reputation in the selection score
	EraReward                  atlas.Balance     `yaml:"era-reward"`                    // pool recorded for each new era, zero for none
}

// DefaultParams returns the parameters of a development chain.
func DefaultParams() Params {
	return Params{
		EraDuration:                600,
		ValidatorsCount:            21,
		MinValidatorStake:          atlas.NewBalance(10_000),
		MinDelegationStake:         atlas.NewBalance(100),
		MaxDelegationsPerDelegator: 16,
		RewardPaymentDelay:         2,
		BondingDuration:            28,
		ReputationWeight:           atlas.PerbillFromPercent(20),
	}
}

func (p *Params) Validate() error {
	if p.EraDuration == 0 {
		return errors.New("era-duration must be positive")
	}
	if p.ValidatorsCount == 0 {
		return errors.New("validators-count must be positive")
	}
	if p.MaxDelegationsPerDelegator == 0 {
		return errors.New("max-delegations-per-delegator must be positive")
	}
	if p.MinValidatorStake.IsZero() {
		return errors.New("min-validator-stake must be positive")
	}
	if p.ReputationWeight > atlas.PerbillOne {
		return errors.Errorf("reputation-weight %v exceeds 100%%", p.ReputationWeight)
	}
	return nil
}
