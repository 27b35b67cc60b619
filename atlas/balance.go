// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atlas

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Balance is an unsigned 256-bit token amount.
// All arithmetic saturates at zero and at MaxBalance instead of wrapping.
type Balance struct {
	v uint256.Int
}

// MaxBalance is the largest representable balance.
var MaxBalance = func() Balance {
	var b Balance
	b.v.SetAllOne()
	return b
}()

// NewBalance creates a balance from an uint64.
func NewBalance(x uint64) Balance {
	var b Balance
	b.v.SetUint64(x)
	return b
}

// BalanceFromUint256 copies x into a balance. A nil x is zero.
func BalanceFromUint256(x *uint256.Int) Balance {
	var b Balance
	if x != nil {
		b.v.Set(x)
	}
	return b
}

// BalanceFromBig converts x into a balance, saturating out of range values.
func BalanceFromBig(x *big.Int) Balance {
	var b Balance
	if x == nil || x.Sign() <= 0 {
		return b
	}
	if overflow := b.v.SetFromBig(x); overflow {
		return MaxBalance
	}
	return b
}

// ParseBalance parses a base 10 amount.
func ParseBalance(s string) (Balance, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Balance{}, errors.Wrapf(err, "parse balance %q", s)
	}
	return BalanceFromUint256(v), nil
}

// MustParseBalance parses a base 10 amount, panic on error.
func MustParseBalance(s string) Balance {
	b, err := ParseBalance(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Add returns b + o, clamped at MaxBalance.
func (b Balance) Add(o Balance) Balance {
	var r Balance
	if _, overflow := r.v.AddOverflow(&b.v, &o.v); overflow {
		return MaxBalance
	}
	return r
}

// Sub returns b - o, clamped at zero.
func (b Balance) Sub(o Balance) Balance {
	var r Balance
	if _, underflow := r.v.SubOverflow(&b.v, &o.v); underflow {
		return Balance{}
	}
	return r
}

// MulDiv returns b * num / den truncated, clamped at MaxBalance. A zero den yields zero.
func (b Balance) MulDiv(num, den Balance) Balance {
	if den.IsZero() {
		return Balance{}
	}
	var r Balance
	if _, overflow := r.v.MulDivOverflow(&b.v, &num.v, &den.v); overflow {
		return MaxBalance
	}
	return r
}

// Cmp compares b and o and returns -1, 0 or +1.
func (b Balance) Cmp(o Balance) int {
	return b.v.Cmp(&o.v)
}

// Lt returns true if b < o.
func (b Balance) Lt(o Balance) bool {
	return b.v.Lt(&o.v)
}

// Gt returns true if b > o.
func (b Balance) Gt(o Balance) bool {
	return b.v.Gt(&o.v)
}

// IsZero returns true if b == 0.
func (b Balance) IsZero() bool {
	return b.v.IsZero()
}

// Uint256 returns a copy of the underlying integer.
func (b Balance) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&b.v)
}

// Big returns b as a big.Int.
func (b Balance) Big() *big.Int {
	return b.v.ToBig()
}

// Uint64 returns b as uint64, clamped at math.MaxUint64.
func (b Balance) Uint64() uint64 {
	if !b.v.IsUint64() {
		return ^uint64(0)
	}
	return b.v.Uint64()
}

// String returns the base 10 representation.
func (b Balance) String() string {
	return b.v.Dec()
}

// MarshalText implements encoding.TextMarshaler.
func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.v.Dec()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Balance) UnmarshalText(text []byte) error {
	parsed, err := ParseBalance(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (b Balance) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, b.v.ToBig())
}

// DecodeRLP implements rlp.Decoder.
func (b *Balance) DecodeRLP(s *rlp.Stream) error {
	var x big.Int
	if err := s.Decode(&x); err != nil {
		return err
	}
	if overflow := b.v.SetFromBig(&x); overflow {
		return errors.New("balance overflows 256 bits")
	}
	return nil
}

// MinBalance returns the smaller of a and b.
func MinBalance(a, b Balance) Balance {
	if a.Lt(b) {
		return a
	}
	return b
}

// SumBalances adds all values, saturating.
func SumBalances(values ...Balance) Balance {
	var sum Balance
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}
