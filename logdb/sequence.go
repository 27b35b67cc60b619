// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"

	"github.com/schoollys/atlas2/atlas"
)

// sequence orders events by block, then by their position in the block.
type sequence int64

func newSequence(n atlas.BlockNumber, index uint32) sequence {
	if (index & math.MaxInt32) != index {
		panic("event index too large")
	}
	return (sequence(n) << 31) | sequence(index)
}

// blockRange returns the first sequence of block from and the last of block to.
func blockRange(from, to atlas.BlockNumber) (sequence, sequence) {
	return newSequence(from, 0), newSequence(to, math.MaxInt32)
}

func (s sequence) BlockNumber() atlas.BlockNumber {
	return atlas.BlockNumber(s >> 31)
}

func (s sequence) Index() uint32 {
	return uint32(s & math.MaxInt32)
}
