// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atlas

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Perbill is a fraction in parts per billion, within [0, 1].
type Perbill uint32

const (
	// PerbillAccuracy number of parts that make up one.
	PerbillAccuracy = 1_000_000_000
	// PerbillOne the fraction 1.
	PerbillOne = Perbill(PerbillAccuracy)
)

var perbillAccuracy = NewBalance(PerbillAccuracy)

// PerbillFromParts creates a Perbill, clamping parts at one.
func PerbillFromParts(parts uint32) Perbill {
	if parts > PerbillAccuracy {
		return PerbillOne
	}
	return Perbill(parts)
}

// PerbillFromPercent creates a Perbill of p percent, clamping at 100.
func PerbillFromPercent(p uint32) Perbill {
	if p > 100 {
		p = 100
	}
	return Perbill(p * (PerbillAccuracy / 100))
}

// PerbillFromRational computes p/q rounded down.
// A zero q or p >= q yields one.
func PerbillFromRational(p, q Balance) Perbill {
	if q.IsZero() || !p.Lt(q) {
		return PerbillOne
	}
	return Perbill(p.MulDiv(perbillAccuracy, q).Uint64())
}

// Parts returns the raw parts per billion.
func (p Perbill) Parts() uint32 {
	return uint32(p)
}

// Complement returns 1 - p.
func (p Perbill) Complement() Perbill {
	if p >= PerbillOne {
		return 0
	}
	return PerbillOne - p
}

// Product returns p * q, truncated.
func (p Perbill) Product(q Perbill) Perbill {
	return Perbill(uint64(p) * uint64(q) / PerbillAccuracy)
}

// Mul returns p * b, truncated.
func (p Perbill) Mul(b Balance) Balance {
	if p >= PerbillOne {
		return b
	}
	return b.MulDiv(NewBalance(uint64(p)), perbillAccuracy)
}

// String formats p as a percentage.
func (p Perbill) String() string {
	whole := uint32(p) / (PerbillAccuracy / 100)
	frac := uint32(p) % (PerbillAccuracy / 100)
	if frac == 0 {
		return fmt.Sprintf("%d%%", whole)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%07d", whole, frac), "0") + "%"
}

// MarshalText implements encoding.TextMarshaler.
func (p Perbill) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts either a percentage ("20%", "12.5%") or raw parts ("200000000").
func (p *Perbill) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		whole, frac, _ := strings.Cut(pct, ".")
		w, err := strconv.ParseUint(whole, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "parse perbill %q", s)
		}
		if len(frac) > 7 {
			return errors.Errorf("parse perbill %q: too many decimals", s)
		}
		var f uint64
		if frac != "" {
			if f, err = strconv.ParseUint(frac+strings.Repeat("0", 7-len(frac)), 10, 32); err != nil {
				return errors.Wrapf(err, "parse perbill %q", s)
			}
		}
		if w > 100 || (w == 100 && f > 0) {
			return errors.Errorf("parse perbill %q: exceeds 100%%", s)
		}
		*p = Perbill(w*(PerbillAccuracy/100) + f)
		return nil
	}
	parts, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return errors.Wrapf(err, "parse perbill %q", s)
	}
	if parts > PerbillAccuracy {
		return errors.Errorf("parse perbill %q: exceeds one", s)
	}
	*p = Perbill(parts)
	return nil
}
