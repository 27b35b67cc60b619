// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerbillConstruct(t *testing.T) {
	assert.Equal(t, Perbill(100_000_000), PerbillFromPercent(10))
	assert.Equal(t, PerbillOne, PerbillFromPercent(250))
	assert.Equal(t, PerbillOne, PerbillFromParts(2_000_000_000))
	assert.Equal(t, Perbill(800_000_000), PerbillFromRational(NewBalance(800), NewBalance(1000)))
	assert.Equal(t, Perbill(333_333_333), PerbillFromRational(NewBalance(1), NewBalance(3)))
	assert.Equal(t, PerbillOne, PerbillFromRational(NewBalance(5), NewBalance(5)))
	assert.Equal(t, PerbillOne, PerbillFromRational(NewBalance(6), NewBalance(5)))
	assert.Equal(t, PerbillOne, PerbillFromRational(NewBalance(1), Balance{}))
	assert.Equal(t, Perbill(0), PerbillFromRational(Balance{}, NewBalance(9)))
}

func TestPerbillMul(t *testing.T) {
	assert.Equal(t, NewBalance(720), PerbillFromRational(NewBalance(800), NewBalance(1000)).Mul(NewBalance(900)))
	assert.Equal(t, NewBalance(100), PerbillFromPercent(10).Mul(NewBalance(1000)))
	// truncation, never rounding up
	assert.Equal(t, NewBalance(333), PerbillFromRational(NewBalance(1), NewBalance(3)).Mul(NewBalance(1000)))
	assert.Equal(t, MaxBalance, PerbillOne.Mul(MaxBalance))
	assert.True(t, Perbill(0).Mul(MaxBalance).IsZero())

	assert.Equal(t, PerbillFromPercent(80), PerbillFromPercent(20).Complement())
	assert.Equal(t, Perbill(0), PerbillOne.Complement())
}

func TestPerbillText(t *testing.T) {
	cases := []struct {
		in   string
		want Perbill
	}{
		{"20%", PerbillFromPercent(20)},
		{"12.5%", Perbill(125_000_000)},
		{"0%", 0},
		{"100%", PerbillOne},
		{"250000000", Perbill(250_000_000)},
	}
	for _, c := range cases {
		var p Perbill
		require.NoError(t, p.UnmarshalText([]byte(c.in)), c.in)
		assert.Equal(t, c.want, p, c.in)
	}

	for _, bad := range []string{"101%", "abc", "1.123456789%", "2000000000"} {
		var p Perbill
		assert.Error(t, p.UnmarshalText([]byte(bad)), bad)
	}

	assert.Equal(t, "12.5%", Perbill(125_000_000).String())
	assert.Equal(t, "20%", PerbillFromPercent(20).String())
}

func TestPerbillProduct(t *testing.T) {
	assert.Equal(t, PerbillFromPercent(5), PerbillFromPercent(10).Product(PerbillFromPercent(50)))
	assert.Equal(t, PerbillFromPercent(10), PerbillFromPercent(10).Product(PerbillOne))
	assert.Equal(t, Perbill(0), PerbillFromPercent(10).Product(0))
	// 1 part * 1 part truncates to zero
	assert.Equal(t, Perbill(0), Perbill(1).Product(Perbill(1)))
}
