// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"slices"

	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/kv"
)

type change struct {
	key atlas.Bytes32
	val []byte
}

// Stage abstracts changes to be committed.
type Stage struct {
	parent  atlas.Bytes32
	changes []change
	cache   *Cache
}

func newStage(parent atlas.Bytes32, m map[atlas.Bytes32][]byte, c *Cache) *Stage {
	changes := make([]change, 0, len(m))
	for k, v := range m {
		changes = append(changes, change{k, v})
	}
	slices.SortFunc(changes, func(a, b change) int {
		return bytes.Compare(a.key[:], b.key[:])
	})
	return &Stage{parent: parent, changes: changes, cache: c}
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes the digest of the state after applying the changes.
// It chains the parent digest with every changed slot in key order.
func (s *Stage) Hash() atlas.Bytes32 {
	if len(s.changes) == 0 {
		return s.parent
	}
	data := make([][]byte, 0, 1+len(s.changes)*2)
	data = append(data, s.parent[:])
	for i := range s.changes {
		data = append(data, s.changes[i].key[:], s.changes[i].val)
	}
	return atlas.Blake2b(data...)
}

// Commit writes the changes into the store atomically and returns the new digest.
func (s *Stage) Commit(store kv.Store) (atlas.Bytes32, error) {
	return s.CommitWith(store, nil)
}

// CommitWith is like Commit, and lets extra put more entries into the same batch.
func (s *Stage) CommitWith(store kv.Store, extra func(w kv.Putter) error) (atlas.Bytes32, error) {
	bulk := store.Bulk()
	for _, c := range s.changes {
		var err error
		if len(c.val) == 0 {
			err = bulk.Delete(c.key[:])
		} else {
			err = bulk.Put(c.key[:], c.val)
		}
		if err != nil {
			return atlas.Bytes32{}, errors.Wrap(err, "stage changes")
		}
	}
	if extra != nil {
		if err := extra(bulk); err != nil {
			return atlas.Bytes32{}, err
		}
	}
	if err := bulk.Write(); err != nil {
		return atlas.Bytes32{}, errors.Wrap(err, "commit changes")
	}
	if s.cache != nil {
		for _, c := range s.changes {
			s.cache.Add(c.key, c.val)
		}
	}
	return s.Hash(), nil
}
