// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/currency"
	"github.com/schoollys/atlas2/log"
	"github.com/schoollys/atlas2/staker"
	"github.com/schoollys/atlas2/staker/origin"
)

var logger = log.WithContext("pkg", "genesis")

// Apply endows the accounts, registers the genesis validators and delegations
// and starts era 0. Validators and delegators are funded with their stake when
// their account is not listed.
func (c *Config) Apply(ledger *currency.Ledger, s *staker.Staker) error {
	if c.IssuanceCeiling != nil {
		if err := ledger.SetIssuanceCeiling(*c.IssuanceCeiling); err != nil {
			return err
		}
	}

	funded := make(map[atlas.Address]bool, len(c.Accounts))
	for _, a := range c.Accounts {
		if _, err := ledger.DepositCreating(a.Address, a.Balance); err != nil {
			return errors.Wrapf(err, "endow %v", a.Address)
		}
		funded[a.Address] = true
	}

	for _, v := range c.Validators {
		if !funded[v.Address] {
			if _, err := ledger.DepositCreating(v.Address, v.Stake); err != nil {
				return errors.Wrapf(err, "fund validator %v", v.Address)
			}
		}
		if err := s.RegisterValidator(origin.Signed(v.Address), v.Stake); err != nil {
			return errors.Wrapf(err, "register validator %v", v.Address)
		}
		if !v.Reputation.IsZero() {
			if err := s.SetReputation(origin.Root(), v.Address, v.Reputation); err != nil {
				return errors.Wrapf(err, "set reputation of %v", v.Address)
			}
		}
	}

	for _, d := range c.Delegations {
		if !funded[d.Delegator] {
			if _, err := ledger.DepositCreating(d.Delegator, d.Amount); err != nil {
				return errors.Wrapf(err, "fund delegator %v", d.Delegator)
			}
		}
		if err := s.Delegate(origin.Signed(d.Delegator), d.Validator, d.Amount); err != nil {
			return errors.Wrapf(err, "delegate %v to %v", d.Delegator, d.Validator)
		}
	}

	if err := s.Initialize(); err != nil {
		return err
	}

	for _, r := range c.Rewards {
		if err := s.SetEraReward(origin.Root(), r.Era, r.Amount); err != nil {
			return errors.Wrapf(err, "set reward of era %d", r.Era)
		}
	}

	logger.Info("applied genesis",
		"accounts", len(c.Accounts),
		"validators", len(c.Validators),
		"delegations", len(c.Delegations),
	)
	return nil
}
