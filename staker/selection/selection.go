// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package selection ranks validator candidates by a blend of stake and reputation.
package selection

import (
	"slices"

	"github.com/schoollys/atlas2/atlas"
)

type Candidate struct {
	Account    atlas.Address
	TotalStake atlas.Balance
	Reputation atlas.Balance
}

type Scored struct {
	Candidate
	Score atlas.Balance
}

// Score computes (1-w)*stake + w*reputation. Stake and reputation are not normalized
// against each other, so with any realistic stake the reputation term barely counts.
func Score(c Candidate, w atlas.Perbill) atlas.Balance {
	return w.Complement().Mul(c.TotalStake).Add(w.Mul(c.Reputation))
}

// Select returns at most count candidates, by score descending then account ascending.
func Select(candidates []Candidate, w atlas.Perbill, count uint32) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Scored{Candidate: c, Score: Score(c, w)})
	}
	slices.SortFunc(scored, func(a, b Scored) int {
		if c := b.Score.Cmp(a.Score); c != 0 {
			return c
		}
		return a.Account.Compare(b.Account)
	})
	if uint32(len(scored)) > count {
		scored = scored[:count]
	}
	return scored
}

// TotalStake sums the stake of the selected candidates.
func TotalStake(selected []Scored) atlas.Balance {
	var total atlas.Balance
	for _, s := range selected {
		total = total.Add(s.TotalStake)
	}
	return total
}

// Accounts returns the accounts of the selected candidates, in order.
func Accounts(selected []Scored) []atlas.Address {
	out := make([]atlas.Address, 0, len(selected))
	for _, s := range selected {
		out = append(out, s.Account)
	}
	return out
}
