// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// ErrRevert is a user facing validation failure. The call that returns it is rolled back.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Wrap annotates a revert with context while keeping it matchable by errors.Is.
func Wrap(err *ErrRevert, format string, args ...any) error {
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

var (
	ErrNotValidator                      = New("not a validator")
	ErrNotDelegator                      = New("not a delegator")
	ErrAlreadyValidator                  = New("already a validator")
	ErrAlreadyDelegator                  = New("already a delegator")
	ErrValidatorNotActive                = New("validator is not active")
	ErrInsufficientStake                 = New("insufficient stake")
	ErrInsufficientDelegationStake       = New("insufficient delegation stake")
	ErrTooManyDelegations                = New("too many delegations")
	ErrCannotWithdrawWhileActive         = New("cannot withdraw while active")
	ErrCannotWithdrawBeforeBondingPeriod = New("cannot withdraw before bonding period")
	ErrNoRewardsForEra                   = New("no rewards for era")
	ErrRewardsAlreadyClaimed             = New("rewards already claimed")
	ErrNothingToWithdraw                 = New("nothing to withdraw")
)

// Name returns the short name of a known revert, or its message.
func Name(err error) string {
	for name, e := range named {
		if errors.Is(err, e) {
			return name
		}
	}
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.message
	}
	return ""
}

var named = map[string]*ErrRevert{
	"NotValidator":                      ErrNotValidator,
	"NotDelegator":                      ErrNotDelegator,
	"AlreadyValidator":                  ErrAlreadyValidator,
	"AlreadyDelegator":                  ErrAlreadyDelegator,
	"ValidatorNotActive":                ErrValidatorNotActive,
	"InsufficientStake":                 ErrInsufficientStake,
	"InsufficientDelegationStake":       ErrInsufficientDelegationStake,
	"TooManyDelegations":                ErrTooManyDelegations,
	"CannotWithdrawWhileActive":         ErrCannotWithdrawWhileActive,
	"CannotWithdrawBeforeBondingPeriod": ErrCannotWithdrawBeforeBondingPeriod,
	"NoRewardsForEra":                   ErrNoRewardsForEra,
	"RewardsAlreadyClaimed":             ErrRewardsAlreadyClaimed,
	"NothingToWithdraw":                 ErrNothingToWithdraw,
}

// Register adds a named revert declared by another package, so Name can resolve it.
func Register(name string, err *ErrRevert) *ErrRevert {
	named[name] = err
	return err
}
