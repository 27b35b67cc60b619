// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the staking events and the log they are appended to.
package events

import (
	"fmt"

	"github.com/schoollys/atlas2/atlas"
)

type Kind uint8

const (
	KindNewEra Kind = iota + 1
	KindValidatorRegistered
	KindValidatorDeregistered
	KindDelegationCreated
	KindDelegationWithdrawn
	KindValidatorStakeIncreased
	KindValidatorStakeDecreased
	KindReputationUpdated
	KindRewardsPaid
	KindValidatorSlashed
	KindEraRewardSet
	KindWithdrawn
)

var kindNames = map[Kind]string{
	KindNewEra:                  "NewEra",
	KindValidatorRegistered:     "ValidatorRegistered",
	KindValidatorDeregistered:   "ValidatorDeregistered",
	KindDelegationCreated:       "DelegationCreated",
	KindDelegationWithdrawn:     "DelegationWithdrawn",
	KindValidatorStakeIncreased: "ValidatorStakeIncreased",
	KindValidatorStakeDecreased: "ValidatorStakeDecreased",
	KindReputationUpdated:       "ReputationUpdated",
	KindRewardsPaid:             "RewardsPaid",
	KindValidatorSlashed:        "ValidatorSlashed",
	KindEraRewardSet:            "EraRewardSet",
	KindWithdrawn:               "Withdrawn",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a kind by its name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Event is a staking event. Account is the subject, a validator or a delegator.
// Target is the validator of delegation events.
type Event struct {
	Kind    Kind
	Era     atlas.EraIndex
	Account atlas.Address
	Target  atlas.Address
	Amount  atlas.Balance
}

func (e *Event) String() string {
	switch e.Kind {
	case KindNewEra:
		return fmt.Sprintf("%v(%d)", e.Kind, e.Era)
	case KindRewardsPaid, KindEraRewardSet:
		return fmt.Sprintf("%v(%d, %v)", e.Kind, e.Era, e.Amount)
	case KindValidatorRegistered, KindValidatorDeregistered:
		return fmt.Sprintf("%v(%v)", e.Kind, e.Account)
	case KindDelegationCreated, KindDelegationWithdrawn:
		return fmt.Sprintf("%v(%v, %v, %v)", e.Kind, e.Account, e.Target, e.Amount)
	default:
		return fmt.Sprintf("%v(%v, %v)", e.Kind, e.Account, e.Amount)
	}
}

func NewEra(era atlas.EraIndex) *Event {
	return &Event{Kind: KindNewEra, Era: era}
}

func ValidatorRegistered(era atlas.EraIndex, validator atlas.Address) *Event {
	return &Event{Kind: KindValidatorRegistered, Era: era, Account: validator}
}

func ValidatorDeregistered(era atlas.EraIndex, validator atlas.Address) *Event {
	return &Event{Kind: KindValidatorDeregistered, Era: era, Account: validator}
}

func DelegationCreated(era atlas.EraIndex, delegator, validator atlas.Address, amount atlas.Balance) *Event {
	return &Event{Kind: KindDelegationCreated, Era: era, Account: delegator, Target: validator, Amount: amount}
}

func DelegationWithdrawn(era atlas.EraIndex, delegator, validator atlas.Address, amount atlas.Balance) *Event {
	return &Event{Kind: KindDelegationWithdrawn, Era: era, Account: delegator, Target: validator, Amount: amount}
}

func ValidatorStakeIncreased(era atlas.EraIndex, validator atlas.Address, amount atlas.Balance) *Event {
	return &Event{Kind: KindValidatorStakeIncreased, Era: era, Account: validator, Amount: amount}
}

func ValidatorStakeDecreased(era atlas.EraIndex, validator atlas.Address, amount atlas.Balance) *Event {
	return &Event{Kind: KindValidatorStakeDecreased, Era: era, Account: validator, Amount: amount}
}

func ReputationUpdated(era atlas.EraIndex, validator atlas.Address, score atlas.Balance) *Event {
	return &Event{Kind: KindReputationUpdated, Era: era, Account: validator, Amount: score}
}

func RewardsPaid(era atlas.EraIndex, total atlas.Balance) *Event {
	return &Event{Kind: KindRewardsPaid, Era: era, Amount: total}
}

func ValidatorSlashed(era atlas.EraIndex, validator atlas.Address, amount atlas.Balance) *Event {
	return &Event{Kind: KindValidatorSlashed, Era: era, Account: validator, Amount: amount}
}

func EraRewardSet(era atlas.EraIndex, amount atlas.Balance) *Event {
	return &Event{Kind: KindEraRewardSet, Era: era, Amount: amount}
}

func Withdrawn(era atlas.EraIndex, delegator atlas.Address, amount atlas.Balance) *Event {
	return &Event{Kind: KindWithdrawn, Era: era, Account: delegator, Amount: amount}
}
