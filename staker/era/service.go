// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/storage"
)

// Service keeps the era counters and the per era records.
type Service struct {
	current    *storage.Value[atlas.EraIndex]
	active     *storage.Value[atlas.EraIndex]
	startBlock *storage.Mapping[atlas.EraIndex, atlas.BlockNumber]
	validators *storage.Mapping[atlas.EraIndex, []atlas.Address]
	totalStake *storage.Mapping[atlas.EraIndex, atlas.Balance]
	rewards    *storage.Mapping[atlas.EraIndex, atlas.Balance]
	paid       *storage.Mapping[atlas.EraIndex, bool]
	stakers    *storage.Mapping[stakerKey, *Exposure]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		current:    storage.NewValue[atlas.EraIndex](sctx, "current-era"),
		active:     storage.NewValue[atlas.EraIndex](sctx, "active-era"),
		startBlock: storage.NewMapping[atlas.EraIndex, atlas.BlockNumber](sctx, "era-start-block"),
		validators: storage.NewMapping[atlas.EraIndex, []atlas.Address](sctx, "eras-validator-list"),
		totalStake: storage.NewMapping[atlas.EraIndex, atlas.Balance](sctx, "eras-total-stake"),
		rewards:    storage.NewMapping[atlas.EraIndex, atlas.Balance](sctx, "eras-reward"),
		paid:       storage.NewMapping[atlas.EraIndex, bool](sctx, "eras-paid"),
		stakers:    storage.NewMapping[stakerKey, *Exposure](sctx, "eras-stakers"),
	}
}

func (s *Service) Current() (atlas.EraIndex, error) {
	era, err := s.current.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get current era")
	}
	return era, nil
}

func (s *Service) Active() (atlas.EraIndex, error) {
	era, err := s.active.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get active era")
	}
	return era, nil
}

// Start makes era the current and active era, started at block n.
func (s *Service) Start(era atlas.EraIndex, n atlas.BlockNumber) error {
	if err := s.current.Set(era); err != nil {
		return errors.Wrap(err, "failed to set current era")
	}
	if err := s.active.Set(era); err != nil {
		return errors.Wrap(err, "failed to set active era")
	}
	if err := s.startBlock.Set(era, n); err != nil {
		return errors.Wrap(err, "failed to set era start block")
	}
	return nil
}

// StartBlock returns the block the era started at, zero if unknown.
func (s *Service) StartBlock(era atlas.EraIndex) (atlas.BlockNumber, error) {
	n, err := s.startBlock.Get(era)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get era start block")
	}
	return n, nil
}

// ValidatorList returns the validators selected for era.
func (s *Service) ValidatorList(era atlas.EraIndex) ([]atlas.Address, error) {
	list, err := s.validators.Get(era)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get era validators")
	}
	return list, nil
}

// TotalStake returns the stake of the validators selected for era.
func (s *Service) TotalStake(era atlas.EraIndex) (atlas.Balance, error) {
	total, err := s.totalStake.Get(era)
	if err != nil {
		return atlas.Balance{}, errors.Wrap(err, "failed to get era total stake")
	}
	return total, nil
}

// SetSelection records the selected validators, their summed stake and their exposures.
func (s *Service) SetSelection(era atlas.EraIndex, list []atlas.Address, total atlas.Balance, exposures []*Exposure) error {
	if len(list) != len(exposures) {
		return errors.Errorf("selection of %d validators with %d exposures", len(list), len(exposures))
	}
	if err := s.validators.Set(era, list); err != nil {
		return errors.Wrap(err, "failed to set era validators")
	}
	if err := s.totalStake.Set(era, total); err != nil {
		return errors.Wrap(err, "failed to set era total stake")
	}
	for i, v := range list {
		if err := s.stakers.Set(stakerKey{era, v}, exposures[i]); err != nil {
			return errors.Wrap(err, "failed to set exposure")
		}
	}
	return nil
}

// Exposure returns the exposure of validator in era, a zero exposure if absent.
func (s *Service) Exposure(era atlas.EraIndex, validator atlas.Address) (*Exposure, error) {
	exp, err := s.stakers.Get(stakerKey{era, validator})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get exposure")
	}
	if exp == nil {
		return &Exposure{}, nil
	}
	return exp, nil
}

// ClearExposures removes the exposures of every validator selected for era.
func (s *Service) ClearExposures(era atlas.EraIndex) error {
	list, err := s.ValidatorList(era)
	if err != nil {
		return err
	}
	for _, v := range list {
		s.stakers.Delete(stakerKey{era, v})
	}
	return nil
}

// Reward returns the reward pool of era, and whether one is recorded.
func (s *Service) Reward(era atlas.EraIndex) (atlas.Balance, bool, error) {
	reward, found, err := s.rewards.Find(era)
	if err != nil {
		return atlas.Balance{}, false, errors.Wrap(err, "failed to get era reward")
	}
	return reward, found, nil
}

func (s *Service) SetReward(era atlas.EraIndex, amount atlas.Balance) error {
	if err := s.rewards.Set(era, amount); err != nil {
		return errors.Wrap(err, "failed to set era reward")
	}
	return nil
}

// MarkPaid consumes the reward pool of era.
func (s *Service) MarkPaid(era atlas.EraIndex) error {
	s.rewards.Delete(era)
	if err := s.paid.Set(era, true); err != nil {
		return errors.Wrap(err, "failed to mark era paid")
	}
	return nil
}

func (s *Service) IsPaid(era atlas.EraIndex) (bool, error) {
	paid, err := s.paid.Get(era)
	if err != nil {
		return false, errors.Wrap(err, "failed to get era paid")
	}
	return paid, nil
}
