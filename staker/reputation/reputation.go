// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reputation computes validator reputation scores at era boundaries.
package reputation

import (
	"github.com/schoollys/atlas2/atlas"
)

// MaxScore is the full reputation.
var MaxScore = atlas.NewBalance(100)

// Oracle yields the new score of a validator, given its stored score.
type Oracle interface {
	Score(validator atlas.Address, stored atlas.Balance, era atlas.EraIndex) (atlas.Balance, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(validator atlas.Address, stored atlas.Balance, era atlas.EraIndex) (atlas.Balance, error)

func (f OracleFunc) Score(validator atlas.Address, stored atlas.Balance, era atlas.EraIndex) (atlas.Balance, error) {
	return f(validator, stored, era)
}

// PassThrough keeps the stored score.
type PassThrough struct{}

func (PassThrough) Score(_ atlas.Address, stored atlas.Balance, _ atlas.EraIndex) (atlas.Balance, error) {
	return stored, nil
}

// Clamp bounds score to MaxScore.
func Clamp(score atlas.Balance) atlas.Balance {
	return atlas.MinBalance(score, MaxScore)
}
