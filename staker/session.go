// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/currency"
)

const (
	ValidatorLockID = currency.LockID("stakeatls")
	DelegatorLockID = currency.LockID("delgatls")
)

// Currency is the balance capability staking needs.
// Lock replaces the previous value of the lock named id.
type Currency interface {
	Lock(id currency.LockID, who atlas.Address, amount atlas.Balance) error
	RemoveLock(id currency.LockID, who atlas.Address) error
	DepositCreating(who atlas.Address, amount atlas.Balance) (atlas.Balance, error)
	Slash(who atlas.Address, amount atlas.Balance) (atlas.Balance, error)
}

// SessionSink receives the validator set selected for each era, for block production.
type SessionSink interface {
	NewValidatorSet(era atlas.EraIndex, validators []atlas.Address)
}

// SessionSinkFunc adapts a function to SessionSink.
type SessionSinkFunc func(era atlas.EraIndex, validators []atlas.Address)

func (f SessionSinkFunc) NewValidatorSet(era atlas.EraIndex, validators []atlas.Address) {
	f(era, validators)
}

type noopSession struct{}

func (noopSession) NewValidatorSet(atlas.EraIndex, []atlas.Address) {}
