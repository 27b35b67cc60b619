// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/log"
	"github.com/schoollys/atlas2/staker/delegation"
	"github.com/schoollys/atlas2/staker/era"
	"github.com/schoollys/atlas2/staker/events"
	"github.com/schoollys/atlas2/staker/reputation"
	"github.com/schoollys/atlas2/staker/validation"
	"github.com/schoollys/atlas2/state"
	"github.com/schoollys/atlas2/storage"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker keeps validator and delegator stake, selects the validators of each
// era and pays era rewards out of a minted pool.
type Staker struct {
	state    *state.State
	params   Params
	currency Currency
	oracle   reputation.Oracle
	session  SessionSink

	validationService *validation.Service
	delegationService *delegation.Service
	eraService        *era.Service
	events            *events.Log

	minValidatorStake *storage.Value[atlas.Balance]
}

type Option func(*Staker)

// WithOracle replaces the reputation oracle consulted at each era boundary.
func WithOracle(oracle reputation.Oracle) Option {
	return func(s *Staker) {
		s.oracle = oracle
	}
}

// WithSessionSink sets the receiver of each selected validator set.
func WithSessionSink(sink SessionSink) Option {
	return func(s *Staker) {
		s.session = sink
	}
}

// New create a new instance.
func New(sctx *storage.Context, params Params, currency Currency, opts ...Option) *Staker {
	s := &Staker{
		state:    sctx.State(),
		params:   params,
		currency: currency,
		oracle:   reputation.PassThrough{},
		session:  noopSession{},

		validationService: validation.New(sctx),
		delegationService: delegation.New(sctx),
		eraService:        era.New(sctx),
		events:            events.NewLog(sctx),

		minValidatorStake: storage.NewValue[atlas.Balance](sctx, "minimum-validator-stake"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

//
// Getters - no state change
//

func (s *Staker) Params() Params {
	return s.params
}

// Events returns the event log of the staker.
func (s *Staker) Events() *events.Log {
	return s.events
}

// Validator returns the validator record, nil if the account is not a validator.
func (s *Staker) Validator(account atlas.Address) (*validation.Validator, error) {
	return s.validationService.Get(account)
}

func (s *Staker) Status(account atlas.Address) (validation.Status, error) {
	return s.validationService.Status(account)
}

// Validators lists every validator record in account order.
func (s *Staker) Validators() ([]*validation.Validator, error) {
	var list []*validation.Validator
	err := s.validationService.Iterate(func(v *validation.Validator, _ validation.Status) error {
		list = append(list, v)
		return nil
	})
	return list, err
}

// ValidatorCount returns the number of active validators.
func (s *Staker) ValidatorCount() (uint32, error) {
	return s.validationService.Count()
}

// Delegator returns the delegator record, nil if the account has no delegations.
func (s *Staker) Delegator(account atlas.Address) (*delegation.Delegator, error) {
	return s.delegationService.Get(account)
}

func (s *Staker) CurrentEra() (atlas.EraIndex, error) {
	return s.eraService.Current()
}

func (s *Staker) ActiveEra() (atlas.EraIndex, error) {
	return s.eraService.Active()
}

func (s *Staker) EraStartBlock(e atlas.EraIndex) (atlas.BlockNumber, error) {
	return s.eraService.StartBlock(e)
}

// ErasValidatorList returns the validators selected for an era.
func (s *Staker) ErasValidatorList(e atlas.EraIndex) ([]atlas.Address, error) {
	return s.eraService.ValidatorList(e)
}

// ErasTotalStake returns the summed stake of the validators selected for an era.
func (s *Staker) ErasTotalStake(e atlas.EraIndex) (atlas.Balance, error) {
	return s.eraService.TotalStake(e)
}

// ErasReward returns the unpaid reward pool of an era.
func (s *Staker) ErasReward(e atlas.EraIndex) (atlas.Balance, bool, error) {
	return s.eraService.Reward(e)
}

func (s *Staker) Exposure(e atlas.EraIndex, validator atlas.Address) (*era.Exposure, error) {
	return s.eraService.Exposure(e, validator)
}

// MinimumValidatorStake returns the stored minimum, falling back to the params before genesis.
func (s *Staker) MinimumValidatorStake() (atlas.Balance, error) {
	stake, err := s.minValidatorStake.Get()
	if err != nil {
		return atlas.Balance{}, errors.Wrap(err, "failed to get minimum validator stake")
	}
	if stake.IsZero() {
		return s.params.MinValidatorStake, nil
	}
	return stake, nil
}

// Initialize sets up era 0 at block 0. Genesis validators and delegations must
// be registered before, so that they are selected for the first era.
func (s *Staker) Initialize() error {
	logger.Debug("initializing staker", "validators", s.params.ValidatorsCount, "eraDuration", s.params.EraDuration)

	if err := s.minValidatorStake.Set(s.params.MinValidatorStake); err != nil {
		return errors.Wrap(err, "failed to set minimum validator stake")
	}
	if err := s.eraService.Start(0, 0); err != nil {
		return err
	}
	if err := s.selectValidators(0); err != nil {
		return err
	}
	if err := s.recordEraReward(0); err != nil {
		return err
	}
	if err := s.events.Emit(events.NewEra(0)); err != nil {
		return err
	}

	logger.Info("initialized staker")
	return nil
}
