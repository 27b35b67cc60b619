// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatch

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/origin"
)

type Method string

const (
	MethodRegisterValidator   Method = "register_validator"
	MethodDeregisterValidator Method = "deregister_validator"
	MethodDelegate            Method = "delegate"
	MethodUndelegate          Method = "undelegate"
	MethodIncreaseStake       Method = "increase_stake"
	MethodDecreaseStake       Method = "decrease_stake"
	MethodWithdrawUnbonded    Method = "withdraw_unbonded"
	MethodSlashValidator      Method = "slash_validator"
	MethodSetReputation       Method = "set_reputation"
	MethodSetEraReward        Method = "set_era_reward"
)

// Call is a staking operation submitted by an origin, with rlp encoded arguments.
type Call struct {
	Origin origin.Origin
	Method Method
	Args   rlp.RawValue
}

type (
	noArgs        struct{}
	amountArgs    struct{ Amount atlas.Balance }
	validatorArgs struct {
		Validator atlas.Address
		Amount    atlas.Balance
	}
	eraRewardArgs struct {
		Era    atlas.EraIndex
		Amount atlas.Balance
	}
)

func newCall(o origin.Origin, method Method, args any) *Call {
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		panic(errors.Wrapf(err, "encode %v args", method))
	}
	return &Call{Origin: o, Method: method, Args: data}
}

func RegisterValidator(o origin.Origin, stake atlas.Balance) *Call {
	return newCall(o, MethodRegisterValidator, &amountArgs{stake})
}

func DeregisterValidator(o origin.Origin) *Call {
	return newCall(o, MethodDeregisterValidator, &noArgs{})
}

func Delegate(o origin.Origin, validator atlas.Address, amount atlas.Balance) *Call {
	return newCall(o, MethodDelegate, &validatorArgs{validator, amount})
}

func Undelegate(o origin.Origin, validator atlas.Address, amount atlas.Balance) *Call {
	return newCall(o, MethodUndelegate, &validatorArgs{validator, amount})
}

func IncreaseStake(o origin.Origin, amount atlas.Balance) *Call {
	return newCall(o, MethodIncreaseStake, &amountArgs{amount})
}

func DecreaseStake(o origin.Origin, amount atlas.Balance) *Call {
	return newCall(o, MethodDecreaseStake, &amountArgs{amount})
}

func WithdrawUnbonded(o origin.Origin) *Call {
	return newCall(o, MethodWithdrawUnbonded, &noArgs{})
}

func SlashValidator(o origin.Origin, validator atlas.Address, amount atlas.Balance) *Call {
	return newCall(o, MethodSlashValidator, &validatorArgs{validator, amount})
}

func SetReputation(o origin.Origin, validator atlas.Address, score atlas.Balance) *Call {
	return newCall(o, MethodSetReputation, &validatorArgs{validator, score})
}

func SetEraReward(o origin.Origin, era atlas.EraIndex, amount atlas.Balance) *Call {
	return newCall(o, MethodSetEraReward, &eraRewardArgs{era, amount})
}

// EncodeCalls encodes a batch of calls, as stored with a block.
func EncodeCalls(calls []*Call) ([]byte, error) {
	return rlp.EncodeToBytes(calls)
}

func DecodeCalls(data []byte) ([]*Call, error) {
	var calls []*Call
	if err := rlp.DecodeBytes(data, &calls); err != nil {
		return nil, errors.Wrap(err, "decode calls")
	}
	return calls, nil
}
