// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/events"
)

// Event is a staking event together with where it was emitted.
type Event struct {
	BlockNumber atlas.BlockNumber
	Index       uint32
	events.Event
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive block range. To below From means no upper bound.
type Range struct {
	From atlas.BlockNumber
	To   atlas.BlockNumber
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Unset fields match everything.
type EventFilter struct {
	Kinds   []events.Kind
	Account *atlas.Address // matches either side of an event
	Era     *atlas.EraIndex
	Range   *Range
	Options *Options
	Order   Order // default asc
}
