// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollys/atlas2/kv"
	"github.com/schoollys/atlas2/lvldb"
)

func TestBucketGetPut(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, db.Put([]byte("k2"), []byte("v2")))

	tests := []struct {
		b    kv.Bucket
		key  string
		want string
		has  bool
	}{
		{kv.Bucket(""), "k1", "v1", true},
		{kv.Bucket(""), "k2", "v2", true},
		{kv.Bucket("k"), "k1", "", false},
		{kv.Bucket("k"), "1", "v1", true},
		{kv.Bucket("k"), "2", "v2", true},
		{kv.Bucket("k1"), "", "v1", true},
	}
	for _, tt := range tests {
		getter := tt.b.NewGetter(db)
		got, err := getter.Get([]byte(tt.key))
		if tt.has {
			require.NoError(t, err)
		} else {
			assert.True(t, getter.IsNotFound(err))
		}
		assert.Equal(t, tt.want, string(got))

		has, err := getter.Has([]byte(tt.key))
		require.NoError(t, err)
		assert.Equal(t, tt.has, has)
	}

	putter := kv.Bucket("p/").NewPutter(db)
	require.NoError(t, putter.Put([]byte("x"), []byte("y")))
	got, err := db.Get([]byte("p/x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), got)

	require.NoError(t, putter.Delete([]byte("x")))
	_, err = db.Get([]byte("p/x"))
	assert.True(t, db.IsNotFound(err))
}

func TestBucketStore(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := kv.Bucket("s/").NewStore(db)
	bulk := store.Bulk()
	require.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	require.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	require.NoError(t, bulk.Write())
	require.NoError(t, db.Put([]byte("t/z"), []byte("outside")))

	iter := store.Iterate(kv.Range{})
	defer iter.Release()
	var keys, vals []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
		vals = append(vals, string(iter.Value()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, []string{"1", "2"}, vals)

	assert.NoError(t, store.Close())
	// source still usable
	_, err = db.Get([]byte("s/a"))
	assert.NoError(t, err)
}
