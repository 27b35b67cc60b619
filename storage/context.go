// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/state"
)

// Weight charged per storage access, in picoseconds of reference hardware.
const (
	ReadWeight  uint64 = 25_000_000
	WriteWeight uint64 = 100_000_000
)

// UseWeightFunc is notified of the weight each storage access consumes.
type UseWeightFunc func(weight uint64)

// Context binds keyed storage helpers to a namespace within a state.
type Context struct {
	namespace atlas.Bytes32
	state     *state.State
	charger   UseWeightFunc
}

// NewContext creates a context over st. Slots of different namespaces never collide.
func NewContext(namespace string, st *state.State, charger UseWeightFunc) *Context {
	return &Context{
		namespace: atlas.Blake2b([]byte(namespace)),
		state:     st,
		charger:   charger,
	}
}

// State returns the underlying state.
func (c *Context) State() *state.State {
	return c.state
}

// UseWeight charges weight, if a charger is set.
func (c *Context) UseWeight(weight uint64) {
	if c.charger != nil {
		c.charger(weight)
	}
}

// WithCharger returns a copy of the context that charges to fn.
func (c *Context) WithCharger(fn UseWeightFunc) *Context {
	cpy := *c
	cpy.charger = fn
	return &cpy
}

func (c *Context) position(parts ...[]byte) atlas.Bytes32 {
	data := make([][]byte, 0, len(parts)+1)
	data = append(data, c.namespace[:])
	return atlas.Blake2b(append(data, parts...)...)
}
