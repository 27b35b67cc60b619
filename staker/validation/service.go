// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validation

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/storage"
)

// Service keeps validator records, their statuses and a sorted account index
// that makes every iteration deterministic.
type Service struct {
	validators *storage.Mapping[atlas.Address, *Validator]
	statuses   *storage.Mapping[atlas.Address, Status]
	index      *storage.Value[[]atlas.Address]
	count      *storage.Value[uint32]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		validators: storage.NewMapping[atlas.Address, *Validator](sctx, "validators"),
		statuses:   storage.NewMapping[atlas.Address, Status](sctx, "validator-statuses"),
		index:      storage.NewValue[[]atlas.Address](sctx, "validators-index"),
		count:      storage.NewValue[uint32](sctx, "validator-count"),
	}
}

// Get returns the validator record, nil if absent.
func (s *Service) Get(account atlas.Address) (*Validator, error) {
	v, err := s.validators.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get validator")
	}
	return v, nil
}

// GetExisting returns the validator record, failing with ErrNotValidator if absent.
func (s *Service) GetExisting(account atlas.Address) (*Validator, error) {
	v, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, reverts.ErrNotValidator
	}
	return v, nil
}

func (s *Service) Exists(account atlas.Address) (bool, error) {
	ok, err := s.validators.Exists(account)
	if err != nil {
		return false, errors.Wrap(err, "failed to check validator")
	}
	return ok, nil
}

// Status returns the status, StatusDeregistered when none is recorded.
func (s *Service) Status(account atlas.Address) (Status, error) {
	st, err := s.statuses.Get(account)
	if err != nil {
		return StatusDeregistered, errors.Wrap(err, "failed to get validator status")
	}
	return st, nil
}

func (s *Service) SetStatus(account atlas.Address, status Status) error {
	if err := s.statuses.Set(account, status); err != nil {
		return errors.Wrap(err, "failed to set validator status")
	}
	return nil
}

// Add stores a new record with status active and counts it.
func (s *Service) Add(v *Validator) error {
	if err := s.Update(v); err != nil {
		return err
	}
	if err := s.SetStatus(v.Account, StatusActive); err != nil {
		return err
	}

	index, err := s.index.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get validators index")
	}
	pos, found := slices.BinarySearchFunc(index, v.Account, atlas.Address.Compare)
	if !found {
		index = slices.Insert(index, pos, v.Account)
		if err := s.index.Set(index); err != nil {
			return errors.Wrap(err, "failed to set validators index")
		}
	}
	return s.IncreaseCount()
}

func (s *Service) Update(v *Validator) error {
	if err := s.validators.Set(v.Account, v); err != nil {
		return errors.Wrap(err, "failed to set validator")
	}
	return nil
}

// Remove deletes the record and the status of the account.
func (s *Service) Remove(account atlas.Address) error {
	s.validators.Delete(account)
	s.statuses.Delete(account)

	index, err := s.index.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get validators index")
	}
	if pos, found := slices.BinarySearchFunc(index, account, atlas.Address.Compare); found {
		index = slices.Delete(index, pos, pos+1)
		if len(index) == 0 {
			s.index.Delete()
			return nil
		}
		if err := s.index.Set(index); err != nil {
			return errors.Wrap(err, "failed to set validators index")
		}
	}
	return nil
}

// Accounts returns all validator accounts, ascending.
func (s *Service) Accounts() ([]atlas.Address, error) {
	index, err := s.index.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get validators index")
	}
	return index, nil
}

// Iterate visits every validator in account order.
func (s *Service) Iterate(cb func(*Validator, Status) error) error {
	accounts, err := s.Accounts()
	if err != nil {
		return err
	}
	for _, account := range accounts {
		v, err := s.Get(account)
		if err != nil {
			return err
		}
		if v == nil {
			return errors.Errorf("validator %v is indexed but missing", account)
		}
		st, err := s.Status(account)
		if err != nil {
			return err
		}
		if err := cb(v, st); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of validators counted as registered.
func (s *Service) Count() (uint32, error) {
	return s.count.Get()
}

func (s *Service) IncreaseCount() error {
	n, err := s.count.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get validator count")
	}
	return s.count.Set(n + 1)
}

// DecreaseCount decrements the counter, stopping at zero.
func (s *Service) DecreaseCount() error {
	n, err := s.count.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get validator count")
	}
	if n == 0 {
		return nil
	}
	return s.count.Set(n - 1)
}
