// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/storage"
)

// Service keeps delegator records and, per validator, the sorted list of its delegators.
type Service struct {
	delegators *storage.Mapping[atlas.Address, *Delegator]
	backers    *storage.Mapping[atlas.Address, []atlas.Address]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		delegators: storage.NewMapping[atlas.Address, *Delegator](sctx, "delegators"),
		backers:    storage.NewMapping[atlas.Address, []atlas.Address](sctx, "validator-backers"),
	}
}

// Get returns the delegator record, nil if absent.
func (s *Service) Get(account atlas.Address) (*Delegator, error) {
	d, err := s.delegators.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegator")
	}
	return d, nil
}

func (s *Service) getExisting(account atlas.Address) (*Delegator, error) {
	d, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, reverts.ErrNotDelegator
	}
	return d, nil
}

func (s *Service) set(d *Delegator) error {
	if d.IsEmpty() {
		s.delegators.Delete(d.Account)
		return nil
	}
	if err := s.delegators.Set(d.Account, d); err != nil {
		return errors.Wrap(err, "failed to set delegator")
	}
	return nil
}

// Delegate adds amount to the delegation of account to validator, creating the
// delegation if needed. A new delegation fails once maxDelegations are held.
func (s *Service) Delegate(account, validator atlas.Address, amount atlas.Balance, maxDelegations uint32) (*Delegator, error) {
	d, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = &Delegator{Account: account}
	}

	if i := d.Find(validator); i >= 0 {
		d.Delegations[i].Amount = d.Delegations[i].Amount.Add(amount)
	} else {
		if uint32(len(d.Delegations)) >= maxDelegations {
			return nil, reverts.ErrTooManyDelegations
		}
		d.Delegations = append(d.Delegations, Delegation{Validator: validator, Amount: amount})
		if err := s.addBacker(validator, account); err != nil {
			return nil, err
		}
	}
	d.TotalStaked = d.TotalStaked.Add(amount)

	if err := s.set(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Undelegate moves amount out of the delegation to validator into an unbonding
// chunk released at releaseEra. The returned record is nil once removed.
func (s *Service) Undelegate(account, validator atlas.Address, amount atlas.Balance, releaseEra atlas.EraIndex) (*Delegator, error) {
	d, err := s.getExisting(account)
	if err != nil {
		return nil, err
	}
	i := d.Find(validator)
	if i < 0 {
		return nil, reverts.ErrNotDelegator
	}
	current := d.Delegations[i].Amount
	if amount.Gt(current) {
		return nil, reverts.ErrInsufficientDelegationStake
	}

	if amount.Cmp(current) == 0 {
		d.Delegations = slices.Delete(d.Delegations, i, i+1)
		if err := s.removeBacker(validator, account); err != nil {
			return nil, err
		}
	} else {
		d.Delegations[i].Amount = current.Sub(amount)
	}
	d.TotalStaked = d.TotalStaked.Sub(amount)
	d.addUnbonding(amount, releaseEra)

	if err := s.set(d); err != nil {
		return nil, err
	}
	if d.IsEmpty() {
		return nil, nil
	}
	return d, nil
}

// WithdrawUnbonded releases every chunk matured at era and returns their sum.
// The returned record is nil once removed.
func (s *Service) WithdrawUnbonded(account atlas.Address, era atlas.EraIndex) (atlas.Balance, *Delegator, error) {
	d, err := s.getExisting(account)
	if err != nil {
		return atlas.Balance{}, nil, err
	}
	released := d.releaseMatured(era)
	if released.IsZero() {
		return atlas.Balance{}, nil, reverts.ErrNothingToWithdraw
	}
	if err := s.set(d); err != nil {
		return atlas.Balance{}, nil, err
	}
	if d.IsEmpty() {
		return released, nil, nil
	}
	return released, d, nil
}

// Backers returns the delegators of validator, ascending.
func (s *Service) Backers(validator atlas.Address) ([]atlas.Address, error) {
	list, err := s.backers.Get(validator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get backers")
	}
	return list, nil
}

func (s *Service) addBacker(validator, account atlas.Address) error {
	list, err := s.Backers(validator)
	if err != nil {
		return err
	}
	pos, found := slices.BinarySearchFunc(list, account, atlas.Address.Compare)
	if found {
		return nil
	}
	if err := s.backers.Set(validator, slices.Insert(list, pos, account)); err != nil {
		return errors.Wrap(err, "failed to set backers")
	}
	return nil
}

func (s *Service) removeBacker(validator, account atlas.Address) error {
	list, err := s.Backers(validator)
	if err != nil {
		return err
	}
	pos, found := slices.BinarySearchFunc(list, account, atlas.Address.Compare)
	if !found {
		return nil
	}
	list = slices.Delete(list, pos, pos+1)
	if len(list) == 0 {
		s.backers.Delete(validator)
		return nil
	}
	if err := s.backers.Set(validator, list); err != nil {
		return errors.Wrap(err, "failed to set backers")
	}
	return nil
}
