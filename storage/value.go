// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/schoollys/atlas2/atlas"
)

// Value is a single rlp encoded storage slot.
type Value[V any] struct {
	context *Context
	pos     atlas.Bytes32
}

// NewValue creates a value at the named position.
func NewValue[V any](context *Context, name string) *Value[V] {
	return &Value[V]{context: context, pos: context.position([]byte(name))}
}

// Get returns the stored value, the zero value if absent.
func (v *Value[V]) Get() (value V, err error) {
	v.context.UseWeight(ReadWeight)
	err = v.context.state.DecodeStorage(v.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores the value.
func (v *Value[V]) Set(value V) error {
	v.context.UseWeight(WriteWeight)
	return v.context.state.EncodeStorage(v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot.
func (v *Value[V]) Delete() {
	v.context.UseWeight(WriteWeight)
	v.context.state.SetRaw(v.pos, nil)
}
