// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/delegation"
	"github.com/schoollys/atlas2/staker/events"
	"github.com/schoollys/atlas2/staker/origin"
	"github.com/schoollys/atlas2/staker/reputation"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/staker/validation"
)

//
// Setters - state change
//

// RegisterValidator locks stake of the caller and makes it an active validator.
func (s *Staker) RegisterValidator(o origin.Origin, stake atlas.Balance) error {
	logger.Debug("registering validator", "origin", o, "stake", stake)

	err := s.registerValidator(o, stake)
	countOperation("register_validator", err)
	if err != nil {
		logger.Info("register validator failed", "origin", o, "error", err)
		return err
	}

	logger.Info("registered validator", "origin", o)
	return nil
}

func (s *Staker) registerValidator(o origin.Origin, stake atlas.Balance) error {
	who, err := origin.EnsureSigned(o)
	if err != nil {
		return err
	}
	exists, err := s.validationService.Exists(who)
	if err != nil {
		return err
	}
	if exists {
		return reverts.ErrAlreadyValidator
	}
	minStake, err := s.MinimumValidatorStake()
	if err != nil {
		return err
	}
	if stake.Lt(minStake) {
		return reverts.ErrInsufficientStake
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}

	if err := s.currency.Lock(ValidatorLockID, who, stake); err != nil {
		return err
	}
	v := &validation.Validator{
		Account:    who,
		SelfStake:  stake,
		TotalStake: stake,
		Reputation: validation.Reputation{LastUpdated: current},
		IsActive:   true,
	}
	if err := s.validationService.Add(v); err != nil {
		return err
	}
	return s.events.Emit(events.ValidatorRegistered(current, who))
}

// DeregisterValidator removes the caller from future selections. The stake stays
// locked until the bonding period has passed and the validator decreases it.
func (s *Staker) DeregisterValidator(o origin.Origin) error {
	logger.Debug("deregistering validator", "origin", o)

	err := s.deregisterValidator(o)
	countOperation("deregister_validator", err)
	if err != nil {
		logger.Info("deregister validator failed", "origin", o, "error", err)
		return err
	}

	logger.Info("deregistered validator", "origin", o)
	return nil
}

func (s *Staker) deregisterValidator(o origin.Origin) error {
	who, err := origin.EnsureSigned(o)
	if err != nil {
		return err
	}
	v, err := s.validationService.GetExisting(who)
	if err != nil {
		return err
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}

	if err := s.deactivate(v, validation.StatusDeregistered, current); err != nil {
		return err
	}
	return s.events.Emit(events.ValidatorDeregistered(current, who))
}

// deactivate stores v as inactive with status, counting it out if it was active.
func (s *Staker) deactivate(v *validation.Validator, status validation.Status, current atlas.EraIndex) error {
	wasActive := v.IsActive
	v.IsActive = false
	if v.DeregisteredEra == nil {
		v.DeregisteredEra = &current
	}
	if err := s.validationService.Update(v); err != nil {
		return err
	}
	if err := s.validationService.SetStatus(v.Account, status); err != nil {
		return err
	}
	if wasActive {
		return s.validationService.DecreaseCount()
	}
	return nil
}

// Delegate locks amount of the caller behind an active validator.
func (s *Staker) Delegate(o origin.Origin, validator atlas.Address, amount atlas.Balance) error {
	logger.Debug("delegating", "origin", o, "validator", validator, "amount", amount)

	err := s.delegate(o, validator, amount)
	countOperation("delegate", err)
	if err != nil {
		logger.Info("delegate failed", "origin", o, "validator", validator, "error", err)
		return err
	}

	logger.Info("delegated", "origin", o, "validator", validator)
	return nil
}

func (s *Staker) delegate(o origin.Origin, validator atlas.Address, amount atlas.Balance) error {
	who, err := origin.EnsureSigned(o)
	if err != nil {
		return err
	}
	v, err := s.validationService.GetExisting(validator)
	if err != nil {
		return err
	}
	if !v.IsActive {
		return reverts.ErrValidatorNotActive
	}
	if amount.Lt(s.params.MinDelegationStake) {
		return reverts.ErrInsufficientDelegationStake
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}

	d, err := s.delegationService.Delegate(who, validator, amount, s.params.MaxDelegationsPerDelegator)
	if err != nil {
		return err
	}
	if err := s.currency.Lock(DelegatorLockID, who, d.Locked()); err != nil {
		return err
	}
	v.TotalStake = v.TotalStake.Add(amount)
	if err := s.validationService.Update(v); err != nil {
		return err
	}
	return s.events.Emit(events.DelegationCreated(current, who, validator, amount))
}

// Undelegate moves amount out of the delegation of the caller to validator. The
// amount stays locked until it is withdrawn after the bonding period.
func (s *Staker) Undelegate(o origin.Origin, validator atlas.Address, amount atlas.Balance) error {
	logger.Debug("undelegating", "origin", o, "validator", validator, "amount", amount)

	err := s.undelegate(o, validator, amount)
	countOperation("undelegate", err)
	if err != nil {
		logger.Info("undelegate failed", "origin", o, "validator", validator, "error", err)
		return err
	}

	logger.Info("undelegated", "origin", o, "validator", validator)
	return nil
}

func (s *Staker) undelegate(o origin.Origin, validator atlas.Address, amount atlas.Balance) error {
	who, err := origin.EnsureSigned(o)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return reverts.ErrInsufficientDelegationStake
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}

	d, err := s.delegationService.Undelegate(who, validator, amount, current.SaturatingAdd(s.params.BondingDuration))
	if err != nil {
		return err
	}
	if err := s.relockDelegator(who, d); err != nil {
		return err
	}

	// tolerate a delegation that outlived its validator record
	v, err := s.validationService.Get(validator)
	if err != nil {
		return err
	}
	if v != nil {
		v.TotalStake = v.TotalStake.Sub(amount)
		if err := s.validationService.Update(v); err != nil {
			return err
		}
	}
	return s.events.Emit(events.DelegationWithdrawn(current, who, validator, amount))
}

// WithdrawUnbonded unlocks every unbonding chunk of the caller released by now.
func (s *Staker) WithdrawUnbonded(o origin.Origin) (atlas.Balance, error) {
	logger.Debug("withdrawing unbonded", "origin", o)

	released, err := s.withdrawUnbonded(o)
	countOperation("withdraw_unbonded", err)
	if err != nil {
		logger.Info("withdraw unbonded failed", "origin", o, "error", err)
		return atlas.Balance{}, err
	}

	logger.Info("withdrew unbonded", "origin", o, "amount", released)
	return released, nil
}

func (s *Staker) withdrawUnbonded(o origin.Origin) (atlas.Balance, error) {
	who, err := origin.EnsureSigned(o)
	if err != nil {
		return atlas.Balance{}, err
	}
	current, err := s.eraService.Current()
	if err != nil {
		return atlas.Balance{}, err
	}

	released, d, err := s.delegationService.WithdrawUnbonded(who, current)
	if err != nil {
		return atlas.Balance{}, err
	}
	if err := s.relockDelegator(who, d); err != nil {
		return atlas.Balance{}, err
	}
	if err := s.events.Emit(events.Withdrawn(current, who, released)); err != nil {
		return atlas.Balance{}, err
	}
	return released, nil
}

func (s *Staker) relockDelegator(who atlas.Address, d *delegation.Delegator) error {
	if d == nil {
		return s.currency.RemoveLock(DelegatorLockID, who)
	}
	return s.currency.Lock(DelegatorLockID, who, d.Locked())
}

// IncreaseStake adds amount to the self stake of the caller.
func (s *Staker) IncreaseStake(o origin.Origin, amount atlas.Balance) error {
	logger.Debug("increasing stake", "origin", o, "amount", amount)

	err := s.increaseStake(o, amount)
	countOperation("increase_stake", err)
	if err != nil {
		logger.Info("increase stake failed", "origin", o, "error", err)
		return err
	}

	logger.Info("increased stake", "origin", o)
	return nil
}

func (s *Staker) increaseStake(o origin.Origin, amount atlas.Balance) error {
	who, err := origin.EnsureSigned(o)
	if err != nil {
		return err
	}
	v, err := s.validationService.GetExisting(who)
	if err != nil {
		return err
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}

	v.SelfStake = v.SelfStake.Add(amount)
	v.TotalStake = v.TotalStake.Add(amount)
	if err := s.currency.Lock(ValidatorLockID, who, v.SelfStake); err != nil {
		return err
	}
	if err := s.validationService.Update(v); err != nil {
		return err
	}
	return s.events.Emit(events.ValidatorStakeIncreased(current, who, amount))
}

// DecreaseStake releases amount of the self stake of a deregistered validator
// whose bonding period has passed. Withdrawing everything removes the validator.
func (s *Staker) DecreaseStake(o origin.Origin, amount atlas.Balance) error {
	logger.Debug("decreasing stake", "origin", o, "amount", amount)

	err := s.decreaseStake(o, amount)
	countOperation("decrease_stake", err)
	if err != nil {
		logger.Info("decrease stake failed", "origin", o, "error", err)
		return err
	}

	logger.Info("decreased stake", "origin", o)
	return nil
}

func (s *Staker) decreaseStake(o origin.Origin, amount atlas.Balance) error {
	who, err := origin.EnsureSigned(o)
	if err != nil {
		return err
	}
	v, err := s.validationService.GetExisting(who)
	if err != nil {
		return err
	}
	if v.IsActive {
		return reverts.ErrCannotWithdrawWhileActive
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}
	if until, ok := v.BondedUntil(s.params.BondingDuration); ok && current < until {
		return reverts.ErrCannotWithdrawBeforeBondingPeriod
	}
	if amount.Gt(v.SelfStake) {
		return reverts.ErrInsufficientStake
	}
	minStake, err := s.MinimumValidatorStake()
	if err != nil {
		return err
	}
	rest := v.SelfStake.Sub(amount)
	if !rest.IsZero() && rest.Lt(minStake) {
		return reverts.ErrInsufficientStake
	}

	if rest.IsZero() {
		if err := s.unbondBackers(who, current); err != nil {
			return err
		}
		if err := s.validationService.Remove(who); err != nil {
			return err
		}
		if err := s.currency.RemoveLock(ValidatorLockID, who); err != nil {
			return err
		}
	} else {
		v.SelfStake = rest
		v.TotalStake = v.TotalStake.Sub(amount)
		if err := s.validationService.Update(v); err != nil {
			return err
		}
		if err := s.currency.Lock(ValidatorLockID, who, rest); err != nil {
			return err
		}
	}
	return s.events.Emit(events.ValidatorStakeDecreased(current, who, amount))
}

// unbondBackers moves every delegation to validator into an unbonding chunk of its
// delegator, so that nothing outlives the validator record.
func (s *Staker) unbondBackers(validator atlas.Address, current atlas.EraIndex) error {
	backers, err := s.delegationService.Backers(validator)
	if err != nil {
		return err
	}
	releaseEra := current.SaturatingAdd(s.params.BondingDuration)
	for _, who := range backers {
		d, err := s.delegationService.Get(who)
		if err != nil {
			return err
		}
		if d == nil {
			continue
		}
		amount := d.AmountTo(validator)
		if d, err = s.delegationService.Undelegate(who, validator, amount, releaseEra); err != nil {
			return err
		}
		if err := s.relockDelegator(who, d); err != nil {
			return err
		}
		if err := s.events.Emit(events.DelegationWithdrawn(current, who, validator, amount)); err != nil {
			return err
		}
	}
	return nil
}

// SlashValidator burns up to amount of the validator self stake and marks it slashed.
func (s *Staker) SlashValidator(o origin.Origin, validator atlas.Address, amount atlas.Balance) error {
	logger.Debug("slashing validator", "origin", o, "validator", validator, "amount", amount)

	err := s.slashValidator(o, validator, amount)
	countOperation("slash_validator", err)
	if err != nil {
		logger.Info("slash validator failed", "validator", validator, "error", err)
		return err
	}

	logger.Info("slashed validator", "validator", validator)
	return nil
}

func (s *Staker) slashValidator(o origin.Origin, validator atlas.Address, amount atlas.Balance) error {
	if err := origin.EnsureRoot(o); err != nil {
		return err
	}
	v, err := s.validationService.GetExisting(validator)
	if err != nil {
		return err
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}

	slashed := atlas.MinBalance(amount, v.SelfStake)
	v.SelfStake = v.SelfStake.Sub(slashed)
	v.TotalStake = v.TotalStake.Sub(slashed)
	if err := s.deactivate(v, validation.StatusSlashed, current); err != nil {
		return err
	}
	if v.SelfStake.IsZero() {
		err = s.currency.RemoveLock(ValidatorLockID, validator)
	} else {
		err = s.currency.Lock(ValidatorLockID, validator, v.SelfStake)
	}
	if err != nil {
		return err
	}
	if _, err := s.currency.Slash(validator, slashed); err != nil {
		return err
	}
	return s.events.Emit(events.ValidatorSlashed(current, validator, slashed))
}

// SetReputation stores the reputation score of a validator, capped at 100.
func (s *Staker) SetReputation(o origin.Origin, validator atlas.Address, score atlas.Balance) error {
	logger.Debug("setting reputation", "validator", validator, "score", score)

	err := s.setReputation(o, validator, score)
	countOperation("set_reputation", err)
	if err != nil {
		logger.Info("set reputation failed", "validator", validator, "error", err)
		return err
	}

	logger.Info("set reputation", "validator", validator)
	return nil
}

func (s *Staker) setReputation(o origin.Origin, validator atlas.Address, score atlas.Balance) error {
	if err := origin.EnsureRoot(o); err != nil {
		return err
	}
	v, err := s.validationService.GetExisting(validator)
	if err != nil {
		return err
	}
	current, err := s.eraService.Current()
	if err != nil {
		return err
	}

	v.Reputation = validation.Reputation{Score: reputation.Clamp(score), LastUpdated: current}
	if err := s.validationService.Update(v); err != nil {
		return err
	}
	return s.events.Emit(events.ReputationUpdated(current, validator, v.Reputation.Score))
}

// SetEraReward records the reward pool paid out for an era.
func (s *Staker) SetEraReward(o origin.Origin, e atlas.EraIndex, amount atlas.Balance) error {
	logger.Debug("setting era reward", "era", e, "amount", amount)

	err := s.setEraReward(o, e, amount)
	countOperation("set_era_reward", err)
	if err != nil {
		logger.Info("set era reward failed", "era", e, "error", err)
		return err
	}

	logger.Info("set era reward", "era", e)
	return nil
}

func (s *Staker) setEraReward(o origin.Origin, e atlas.EraIndex, amount atlas.Balance) error {
	if err := origin.EnsureRoot(o); err != nil {
		return err
	}
	paid, err := s.eraService.IsPaid(e)
	if err != nil {
		return err
	}
	if paid {
		return reverts.ErrRewardsAlreadyClaimed
	}
	if err := s.eraService.SetReward(e, amount); err != nil {
		return err
	}
	return s.events.Emit(events.EraRewardSet(e, amount))
}
