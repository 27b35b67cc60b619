// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/schoollys/atlas2/atlas"
)

// Key is anything with a stable byte encoding.
type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction. Values are rlp encoded, each in its own slot.
type Mapping[K Key, V any] struct {
	context *Context
	basePos atlas.Bytes32
}

// NewMapping creates a mapping rooted at the named position.
func NewMapping[K Key, V any](context *Context, name string) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: atlas.BytesToBytes32([]byte(name))}
}

func (m *Mapping[K, V]) position(key K) atlas.Bytes32 {
	return m.context.position(m.basePos[:], key.Bytes())
}

// Find returns the value stored at key, and whether it exists.
func (m *Mapping[K, V]) Find(key K) (value V, found bool, err error) {
	m.context.UseWeight(ReadWeight)
	err = m.context.state.DecodeStorage(m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		found = true
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Get returns the value stored at key, the zero value if absent.
func (m *Mapping[K, V]) Get(key K) (V, error) {
	value, _, err := m.Find(key)
	return value, err
}

// Exists returns whether a value is stored at key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	m.context.UseWeight(ReadWeight)
	raw, err := m.context.state.GetRaw(m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Set stores value at key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	m.context.UseWeight(WriteWeight)
	return m.context.state.EncodeStorage(m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot at key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.UseWeight(WriteWeight)
	m.context.state.SetRaw(m.position(key), nil)
}
