// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/lvldb"
	"github.com/schoollys/atlas2/state"
	"github.com/schoollys/atlas2/storage"
)

var (
	alice = atlas.BytesToAddress([]byte("alice"))
	bob   = atlas.BytesToAddress([]byte("bob"))
)

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db, atlas.Bytes32{}, nil)
	return New(storage.NewContext("currency", st, nil))
}

func bal(x uint64) atlas.Balance { return atlas.NewBalance(x) }

func TestDepositAndIssuance(t *testing.T) {
	l := newLedger(t)

	credited, err := l.DepositCreating(alice, bal(1000))
	require.NoError(t, err)
	assert.Equal(t, bal(1000), credited)

	_, err = l.DepositCreating(bob, bal(500))
	require.NoError(t, err)

	free, err := l.Free(alice)
	require.NoError(t, err)
	assert.Equal(t, bal(1000), free)

	issuance, err := l.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, bal(1500), issuance)
}

func TestIssuanceCeiling(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.SetIssuanceCeiling(bal(1200)))

	credited, err := l.DepositCreating(alice, bal(1000))
	require.NoError(t, err)
	assert.Equal(t, bal(1000), credited)

	credited, err = l.DepositCreating(bob, bal(1000))
	require.NoError(t, err)
	assert.Equal(t, bal(200), credited, "capped at the ceiling")

	credited, err = l.DepositCreating(bob, bal(1))
	require.NoError(t, err)
	assert.True(t, credited.IsZero())

	require.NoError(t, l.SetIssuanceCeiling(atlas.Balance{}))
	credited, err = l.DepositCreating(bob, bal(1))
	require.NoError(t, err)
	assert.Equal(t, bal(1), credited)
}

func TestLocksOverlap(t *testing.T) {
	l := newLedger(t)
	_, err := l.DepositCreating(alice, bal(1000))
	require.NoError(t, err)

	require.NoError(t, l.Lock("stake", alice, bal(600)))
	require.NoError(t, l.Lock("deleg", alice, bal(300)))

	locked, err := l.Locked(alice)
	require.NoError(t, err)
	assert.Equal(t, bal(600), locked)

	usable, err := l.Usable(alice)
	require.NoError(t, err)
	assert.Equal(t, bal(400), usable)

	// replacing, not adding
	require.NoError(t, l.Lock("stake", alice, bal(100)))
	locked, err = l.Locked(alice)
	require.NoError(t, err)
	assert.Equal(t, bal(300), locked)

	require.NoError(t, l.RemoveLock("deleg", alice))
	locks, err := l.Locks(alice)
	require.NoError(t, err)
	assert.Equal(t, []Lock{{ID: "stake", Amount: bal(100)}}, locks)

	require.NoError(t, l.RemoveLock("stake", alice))
	locks, err = l.Locks(alice)
	require.NoError(t, err)
	assert.Empty(t, locks)
}

func TestTransfer(t *testing.T) {
	l := newLedger(t)
	_, err := l.DepositCreating(alice, bal(1000))
	require.NoError(t, err)
	require.NoError(t, l.Lock("stake", alice, bal(700)))

	assert.ErrorIs(t, l.Transfer(alice, bob, bal(2000)), ErrInsufficientBalance)
	assert.ErrorIs(t, l.Transfer(alice, bob, bal(301)), ErrLiquidityRestrictions)
	require.NoError(t, l.Transfer(alice, bob, bal(300)))

	free, err := l.Free(alice)
	require.NoError(t, err)
	assert.Equal(t, bal(700), free)
	free, err = l.Free(bob)
	require.NoError(t, err)
	assert.Equal(t, bal(300), free)

	issuance, err := l.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, bal(1000), issuance)
}

func TestSlash(t *testing.T) {
	l := newLedger(t)
	_, err := l.DepositCreating(alice, bal(1000))
	require.NoError(t, err)
	require.NoError(t, l.Lock("stake", alice, bal(1000)))

	slashed, err := l.Slash(alice, bal(250))
	require.NoError(t, err)
	assert.Equal(t, bal(250), slashed)

	slashed, err = l.Slash(alice, bal(5000))
	require.NoError(t, err)
	assert.Equal(t, bal(750), slashed)

	issuance, err := l.TotalIssuance()
	require.NoError(t, err)
	assert.True(t, issuance.IsZero())

	// the lock survives an empty balance
	locked, err := l.Locked(alice)
	require.NoError(t, err)
	assert.Equal(t, bal(1000), locked)
}
