// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/currency"
	"github.com/schoollys/atlas2/dispatch"
	"github.com/schoollys/atlas2/genesis"
	"github.com/schoollys/atlas2/logdb"
	"github.com/schoollys/atlas2/lvldb"
	"github.com/schoollys/atlas2/staker"
	"github.com/schoollys/atlas2/staker/events"
	"github.com/schoollys/atlas2/staker/origin"
)

var (
	validatorA = atlas.BytesToAddress([]byte("a"))
	validatorB = atlas.BytesToAddress([]byte("b"))
	delegatorD = atlas.BytesToAddress([]byte("d"))
)

func newGenesis() *genesis.Config {
	params := staker.DefaultParams()
	params.EraDuration = 10
	params.ValidatorsCount = 2
	params.MinValidatorStake = atlas.NewBalance(500)
	params.MinDelegationStake = atlas.NewBalance(10)
	params.BondingDuration = 2

	return &genesis.Config{
		Params: params,
		Accounts: []genesis.Account{
			{Address: delegatorD, Balance: atlas.NewBalance(1000)},
		},
		Validators: []genesis.Validator{
			{Address: validatorA, Stake: atlas.NewBalance(800)},
			{Address: validatorB, Stake: atlas.NewBalance(600)},
		},
	}
}

func newTestChain(t *testing.T, opts Options) (*Chain, *logdb.LogDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	c, err := Open(db, logDB, newGenesis(), opts)
	require.NoError(t, err)
	return c, logDB
}

func TestApplyBlock(t *testing.T) {
	c, logDB := newTestChain(t, Options{})
	assert.Equal(t, atlas.BlockNumber(0), c.Head().Number)
	assert.False(t, c.Head().Root.IsZero())

	block, err := c.ApplyBlock([]*dispatch.Call{
		dispatch.Delegate(origin.Signed(delegatorD), validatorA, atlas.NewBalance(100)),
		dispatch.Delegate(origin.Signed(delegatorD), validatorA, atlas.NewBalance(5)),
		dispatch.RegisterValidator(origin.None(), atlas.NewBalance(1000)),
	})
	require.NoError(t, err)
	assert.Equal(t, atlas.BlockNumber(1), block.Number)
	assert.Equal(t, c.Head(), block.Head)
	assert.False(t, block.NewEra)

	require.Len(t, block.Receipts, 3)
	assert.False(t, block.Receipts[0].Reverted())
	assert.NotZero(t, block.Receipts[0].Weight)
	assert.Equal(t, dispatch.MethodDelegate, block.Receipts[0].Method)
	assert.True(t, block.Receipts[1].Reverted())
	assert.Contains(t, block.Receipts[1].Error, "insufficient delegation stake")
	assert.True(t, block.Receipts[2].Reverted())
	assert.Equal(t, uint32(2), block.Receipts[2].Index)

	err = c.View(func(ledger *currency.Ledger, s *staker.Staker) error {
		v, err := s.Validator(validatorA)
		require.NoError(t, err)
		assert.Equal(t, atlas.NewBalance(900), v.TotalStake)

		locked, err := ledger.Locked(delegatorD)
		require.NoError(t, err)
		assert.Equal(t, atlas.NewBalance(100), locked)
		return nil
	})
	require.NoError(t, err)

	evs, err := logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		Range: &logdb.Range{From: 1, To: 1},
	})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, events.KindDelegationCreated, evs[0].Kind)
	assert.Equal(t, delegatorD, evs[0].Account)
	assert.Equal(t, validatorA, evs[0].Target)
}

func TestEraBoundary(t *testing.T) {
	c, logDB := newTestChain(t, Options{})

	for i := 1; i < 10; i++ {
		block, err := c.ApplyBlock(nil)
		require.NoError(t, err)
		assert.False(t, block.NewEra, "block %d", i)
	}
	block, err := c.ApplyBlock(nil)
	require.NoError(t, err)
	assert.True(t, block.NewEra)

	require.NoError(t, c.View(func(_ *currency.Ledger, s *staker.Staker) error {
		era, err := s.CurrentEra()
		require.NoError(t, err)
		assert.Equal(t, atlas.EraIndex(1), era)
		return nil
	}))

	era := atlas.EraIndex(1)
	evs, err := logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		Kinds: []events.Kind{events.KindNewEra},
		Era:   &era,
	})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, atlas.BlockNumber(10), evs[0].BlockNumber)
}

func TestStoreBlocks(t *testing.T) {
	c, _ := newTestChain(t, Options{StoreBlocks: true})

	calls := []*dispatch.Call{
		dispatch.Delegate(origin.Signed(delegatorD), validatorB, atlas.NewBalance(50)),
		dispatch.WithdrawUnbonded(origin.Signed(delegatorD)),
	}
	block, err := c.ApplyBlock(calls)
	require.NoError(t, err)

	got, err := c.GetCalls(1)
	require.NoError(t, err)
	assert.Equal(t, calls, got)

	receipts, err := c.GetReceipts(1)
	require.NoError(t, err)
	assert.Equal(t, block.Receipts, receipts)
	assert.True(t, receipts[1].Reverted())

	_, err = c.GetReceipts(2)
	assert.True(t, c.IsNotFound(err))
}

func TestCallWeightLimit(t *testing.T) {
	c, _ := newTestChain(t, Options{MaxCallWeight: 1})

	block, err := c.ApplyBlock([]*dispatch.Call{
		dispatch.Delegate(origin.Signed(delegatorD), validatorA, atlas.NewBalance(100)),
	})
	require.NoError(t, err)
	require.Len(t, block.Receipts, 1)
	assert.True(t, block.Receipts[0].Reverted())

	require.NoError(t, c.View(func(ledger *currency.Ledger, _ *staker.Staker) error {
		locked, err := ledger.Locked(delegatorD)
		require.NoError(t, err)
		assert.True(t, locked.IsZero())
		return nil
	}))
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	open := func(gen *genesis.Config) (*Chain, func(), error) {
		db, err := lvldb.New(filepath.Join(dir, "state"), lvldb.Options{})
		require.NoError(t, err)
		logDB, err := logdb.New(filepath.Join(dir, "logs.db"))
		require.NoError(t, err)
		closeAll := func() {
			logDB.Close()
			db.Close()
		}
		c, err := Open(db, logDB, gen, Options{StateCacheSize: 128})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		return c, closeAll, nil
	}

	c, closeAll, err := open(newGenesis())
	require.NoError(t, err)
	_, err = c.ApplyBlock([]*dispatch.Call{
		dispatch.Delegate(origin.Signed(delegatorD), validatorA, atlas.NewBalance(100)),
	})
	require.NoError(t, err)
	for range 11 {
		_, err = c.ApplyBlock(nil)
		require.NoError(t, err)
	}
	head := c.Head()
	assert.Equal(t, atlas.BlockNumber(12), head.Number)
	closeAll()

	// no genesis needed once initialized
	c, closeAll, err = open(nil)
	require.NoError(t, err)
	assert.Equal(t, head, c.Head())
	assert.Equal(t, newGenesis().Params, c.Genesis().Params)
	require.NoError(t, c.View(func(_ *currency.Ledger, s *staker.Staker) error {
		era, err := s.CurrentEra()
		require.NoError(t, err)
		assert.Equal(t, atlas.EraIndex(1), era)

		d, err := s.Delegator(delegatorD)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, atlas.NewBalance(100), d.TotalStaked)
		return nil
	}))

	block, err := c.ApplyBlock(nil)
	require.NoError(t, err)
	assert.Equal(t, atlas.BlockNumber(13), block.Number)
	closeAll()

	// events past the head are dropped on open
	logDB, err := logdb.New(filepath.Join(dir, "logs.db"))
	require.NoError(t, err)
	require.NoError(t, logDB.Write(20, []*events.Event{events.NewEra(7)}))
	require.NoError(t, logDB.Close())

	c, closeAll, err = open(newGenesis())
	require.NoError(t, err)
	defer closeAll()
	newest, ok, err := c.logDB.NewestBlock()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.LessOrEqual(t, newest, c.Head().Number)
}

func TestOpenErrors(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	defer logDB.Close()

	_, err = Open(db, logDB, nil, Options{})
	assert.Equal(t, errNoGenesis, err)

	_, err = Open(db, logDB, newGenesis(), Options{})
	require.NoError(t, err)

	other := newGenesis()
	other.Params.EraDuration = 20
	_, err = Open(db, logDB, other, Options{})
	assert.Equal(t, errGenesisMismatch, err)
}
