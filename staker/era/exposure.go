// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"github.com/schoollys/atlas2/atlas"
)

// IndividualExposure is the stake one delegator backs a validator with.
type IndividualExposure struct {
	Who   atlas.Address
	Value atlas.Balance
}

// Exposure is the stake backing a validator during one era, frozen at selection.
type Exposure struct {
	Own         atlas.Balance
	Total       atlas.Balance
	Delegations []IndividualExposure
}

type stakerKey struct {
	era       atlas.EraIndex
	validator atlas.Address
}

func (k stakerKey) Bytes() []byte {
	return append(k.era.Bytes(), k.validator[:]...)
}
