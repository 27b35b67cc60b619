// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/era"
	"github.com/schoollys/atlas2/staker/events"
	"github.com/schoollys/atlas2/staker/reputation"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/staker/rewards"
	"github.com/schoollys/atlas2/staker/selection"
	"github.com/schoollys/atlas2/staker/validation"
)

// OnInitialize runs at the start of block n and starts a new era once the
// current one has lasted EraDuration blocks. It reports whether it did.
func (s *Staker) OnInitialize(n atlas.BlockNumber) (bool, error) {
	current, err := s.eraService.Current()
	if err != nil {
		return false, err
	}
	start, err := s.eraService.StartBlock(current)
	if err != nil {
		return false, err
	}
	if n < start.SaturatingAdd(s.params.EraDuration) {
		return false, nil
	}

	next := current + 1
	logger.Info("🏛 starting era", "era", next, "block", n)

	if err := s.eraService.Start(next, n); err != nil {
		return false, err
	}
	if err := s.refreshReputation(next); err != nil {
		return false, err
	}
	if err := s.selectValidators(next); err != nil {
		return false, err
	}
	if err := s.recordEraReward(next); err != nil {
		return false, err
	}
	if current >= s.params.RewardPaymentDelay {
		payable := current - s.params.RewardPaymentDelay
		if err := s.distributeAtomically(payable); err != nil {
			metricRewardFailures().Add(1)
			logger.Warn("reward distribution skipped", "era", payable, "error", err)
		}
	}
	if err := s.events.Emit(events.NewEra(next)); err != nil {
		return false, err
	}

	metricEras().Add(1)
	metricCurrentEra().Set(int64(next))
	return true, nil
}

// refreshReputation asks the oracle for the score of every validator.
func (s *Staker) refreshReputation(e atlas.EraIndex) error {
	return s.validationService.Iterate(func(v *validation.Validator, _ validation.Status) error {
		score, err := s.oracle.Score(v.Account, v.Reputation.Score, e)
		if err != nil {
			return errors.Wrapf(err, "failed to score validator %v", v.Account)
		}
		v.Reputation = validation.Reputation{Score: reputation.Clamp(score), LastUpdated: e}
		if err := s.validationService.Update(v); err != nil {
			return err
		}
		return s.events.Emit(events.ReputationUpdated(e, v.Account, v.Reputation.Score))
	})
}

// selectValidators picks the validators of era e and freezes their exposures.
func (s *Staker) selectValidators(e atlas.EraIndex) error {
	var (
		candidates []selection.Candidate
		active     int64
	)
	err := s.validationService.Iterate(func(v *validation.Validator, status validation.Status) error {
		if !v.IsActive || status != validation.StatusActive {
			return nil
		}
		active++
		candidates = append(candidates, selection.Candidate{
			Account:    v.Account,
			TotalStake: v.TotalStake,
			Reputation: v.Reputation.Score,
		})
		return nil
	})
	if err != nil {
		return err
	}

	selected := selection.Select(candidates, s.params.ReputationWeight, s.params.ValidatorsCount)
	list := selection.Accounts(selected)
	exposures := make([]*era.Exposure, 0, len(list))
	for _, account := range list {
		exp, err := s.exposureOf(account)
		if err != nil {
			return err
		}
		exposures = append(exposures, exp)
	}
	if err := s.eraService.SetSelection(e, list, selection.TotalStake(selected), exposures); err != nil {
		return err
	}

	logger.Debug("selected validators", "era", e, "candidates", len(candidates), "selected", len(list))
	metricActive().Set(active)
	metricSelected().Set(int64(len(list)))
	s.session.NewValidatorSet(e, list)
	return nil
}

// exposureOf snapshots the stake backing validator right now.
func (s *Staker) exposureOf(validator atlas.Address) (*era.Exposure, error) {
	v, err := s.validationService.GetExisting(validator)
	if err != nil {
		return nil, err
	}
	backers, err := s.delegationService.Backers(validator)
	if err != nil {
		return nil, err
	}
	exp := &era.Exposure{Own: v.SelfStake, Total: v.TotalStake}
	for _, account := range backers {
		d, err := s.delegationService.Get(account)
		if err != nil {
			return nil, err
		}
		if d == nil {
			continue
		}
		if amount := d.AmountTo(validator); !amount.IsZero() {
			exp.Delegations = append(exp.Delegations, era.IndividualExposure{Who: account, Value: amount})
		}
	}
	return exp, nil
}

func (s *Staker) recordEraReward(e atlas.EraIndex) error {
	if s.params.EraReward.IsZero() {
		return nil
	}
	if err := s.eraService.SetReward(e, s.params.EraReward); err != nil {
		return err
	}
	return s.events.Emit(events.EraRewardSet(e, s.params.EraReward))
}

// distributeAtomically pays era e, leaving no partial payout behind on failure.
func (s *Staker) distributeAtomically(e atlas.EraIndex) error {
	checkpoint := s.state.NewCheckpoint()
	if err := s.DistributeRewards(e); err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

// DistributeRewards pays the reward pool of era e to the validators selected for
// it and their delegators, in proportion to their frozen exposures.
func (s *Staker) DistributeRewards(e atlas.EraIndex) error {
	pool, found, err := s.eraService.Reward(e)
	if err != nil {
		return err
	}
	if !found {
		return reverts.ErrNoRewardsForEra
	}
	list, err := s.eraService.ValidatorList(e)
	if err != nil {
		return err
	}
	total, err := s.eraService.TotalStake(e)
	if err != nil {
		return err
	}
	if len(list) == 0 || total.IsZero() {
		logger.Debug("no stake to reward", "era", e)
		return nil
	}

	shares := make([]rewards.Share, 0, len(list))
	for _, account := range list {
		exp, err := s.eraService.Exposure(e, account)
		if err != nil {
			return err
		}
		// the bonus follows the live reputation, zero once the validator is gone
		var score atlas.Balance
		v, err := s.validationService.Get(account)
		if err != nil {
			return err
		}
		if v != nil {
			score = v.Reputation.Score
		}
		shares = append(shares, rewards.Share{Validator: account, Reputation: score, Exposure: exp})
	}

	plan := rewards.Compute(pool, total, shares)
	for _, vp := range plan.Validators {
		for _, p := range vp.Payouts {
			if _, err := s.currency.DepositCreating(p.Who, p.Amount); err != nil {
				return err
			}
		}
	}

	paid := plan.Distributed(pool)
	if err := s.events.Emit(events.RewardsPaid(e, paid)); err != nil {
		return err
	}
	if err := s.eraService.MarkPaid(e); err != nil {
		return err
	}
	if err := s.eraService.ClearExposures(e); err != nil {
		return err
	}

	logger.Info("paid era rewards", "era", e, "pool", pool, "paid", paid)
	metricRewardsPaid().Add(clampInt64(paid))
	return nil
}
