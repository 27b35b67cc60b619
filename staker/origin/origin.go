// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package origin describes who submitted a call.
package origin

import (
	"fmt"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/reverts"
)

var ErrBadOrigin = reverts.Register("BadOrigin", reverts.New("bad origin"))

type Kind uint8

const (
	KindNone Kind = iota
	KindSigned
	KindRoot
)

// Origin is the caller of a call. Account is only meaningful for signed origins.
type Origin struct {
	Kind    Kind
	Account atlas.Address
}

func Signed(account atlas.Address) Origin {
	return Origin{Kind: KindSigned, Account: account}
}

func Root() Origin {
	return Origin{Kind: KindRoot}
}

func None() Origin {
	return Origin{}
}

// EnsureSigned returns the signing account.
func EnsureSigned(o Origin) (atlas.Address, error) {
	if o.Kind != KindSigned {
		return atlas.Address{}, ErrBadOrigin
	}
	return o.Account, nil
}

func EnsureRoot(o Origin) error {
	if o.Kind != KindRoot {
		return ErrBadOrigin
	}
	return nil
}

func (o Origin) String() string {
	switch o.Kind {
	case KindSigned:
		return fmt.Sprintf("signed(%v)", o.Account)
	case KindRoot:
		return "root"
	default:
		return "none"
	}
}

// Parse accepts "root", "none" or a hex account, which yields a signed origin.
func Parse(s string) (Origin, error) {
	switch s {
	case "root":
		return Root(), nil
	case "", "none":
		return None(), nil
	}
	account, err := atlas.ParseAddress(s)
	if err != nil {
		return Origin{}, err
	}
	return Signed(account), nil
}
