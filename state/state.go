// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/cache"
	"github.com/schoollys/atlas2/kv"
	"github.com/schoollys/atlas2/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cache caches committed slot values across State instances.
type Cache = cache.LRU[atlas.Bytes32, []byte]

// NewCache creates a slot cache holding up to size entries.
func NewCache(size int) (*Cache, error) {
	return cache.NewLRU[atlas.Bytes32, []byte](size)
}

// State is a journaled view of keyed storage slots on top of a kv store.
// Writes stay in memory until staged and committed.
type State struct {
	src   kv.Getter
	root  atlas.Bytes32
	cache *Cache
	sm    *stackedmap.StackedMap[atlas.Bytes32, []byte] // keeps revisions of slots
}

// New create state object. root is the digest of the committed state src holds,
// the cache may be nil.
func New(src kv.Getter, root atlas.Bytes32, c *Cache) *State {
	s := &State{
		src:   src,
		root:  root,
		cache: c,
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// Root returns the digest of the committed state this state was created on.
func (s *State) Root() atlas.Bytes32 {
	return s.root
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key atlas.Bytes32) ([]byte, bool, error) {
	load := func(key atlas.Bytes32) ([]byte, error) {
		val, err := s.src.Get(key[:])
		if err != nil {
			if s.src.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return val, nil
	}

	var (
		val []byte
		err error
	)
	if s.cache != nil {
		val, err = s.cache.GetOrLoad(key, load)
	} else {
		val, err = load(key)
	}
	if err != nil {
		return nil, false, err
	}
	return val, len(val) > 0, nil
}

// GetRaw returns the raw value of the slot, nil if empty.
func (s *State) GetRaw(key atlas.Bytes32) ([]byte, error) {
	val, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return val, nil
}

// SetRaw sets the raw value of the slot. An empty value clears it.
func (s *State) SetRaw(key atlas.Bytes32, val []byte) {
	if len(val) == 0 {
		val = nil
	}
	s.sm.Put(key, val)
}

// EncodeStorage sets the slot to the value produced by enc.
func (s *State) EncodeStorage(key atlas.Bytes32, enc func() ([]byte, error)) error {
	val, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRaw(key, val)
	return nil
}

// DecodeStorage passes the raw slot value to dec, which also gets called for an empty slot.
func (s *State) DecodeStorage(key atlas.Bytes32, dec func([]byte) error) error {
	val, err := s.GetRaw(key)
	if err != nil {
		return err
	}
	if err := dec(val); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the changes since creation, last write wins.
func (s *State) Stage() *Stage {
	changes := make(map[atlas.Bytes32][]byte)
	s.sm.Journal(func(key atlas.Bytes32, val []byte) bool {
		changes[key] = val
		return true
	})
	return newStage(s.root, changes, s.cache)
}
