// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/lvldb"
	"github.com/schoollys/atlas2/state"
	"github.com/schoollys/atlas2/storage"
)

func TestLog(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db, atlas.Bytes32{}, nil)
	log := NewLog(storage.NewContext("staker", st, nil))

	v := atlas.BytesToAddress([]byte{1})
	d := atlas.BytesToAddress([]byte{2})

	require.NoError(t, log.Emit(ValidatorRegistered(0, v)))
	require.NoError(t, log.Emit(DelegationCreated(0, d, v, atlas.NewBalance(200))))

	// a reverted emit leaves no trace
	cp := st.NewCheckpoint()
	require.NoError(t, log.Emit(NewEra(1)))
	st.RevertTo(cp)

	n, err := log.Len()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)

	all, err := log.Drain()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, KindValidatorRegistered, all[0].Kind)
	assert.Equal(t, DelegationCreated(0, d, v, atlas.NewBalance(200)), all[1])

	n, err = log.Len()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n)

	require.NoError(t, log.Emit(NewEra(2)))
	all, err = log.All()
	require.NoError(t, err)
	assert.Equal(t, []*Event{NewEra(2)}, all)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "RewardsPaid", KindRewardsPaid.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())

	k, ok := ParseKind("NewEra")
	assert.True(t, ok)
	assert.Equal(t, KindNewEra, k)
	_, ok = ParseKind("Nope")
	assert.False(t, ok)

	assert.Equal(t, "NewEra(3)", NewEra(3).String())
	assert.Equal(t, "RewardsPaid(3, 1000)", RewardsPaid(3, atlas.NewBalance(1000)).String())
}
