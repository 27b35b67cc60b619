// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatch

import (
	"fmt"

	"github.com/schoollys/atlas2/storage"
)

// Charger accumulates the weight used by one call.
type Charger struct {
	reads     uint64
	writes    uint64
	custom    uint64
	total     uint64
	limit     uint64
	exhausted bool
}

// NewCharger creates a charger, limit 0 means unlimited.
func NewCharger(limit uint64) *Charger {
	return &Charger{limit: limit}
}

func (c *Charger) Charge(weight uint64) {
	c.total += weight

	switch {
	case weight == storage.WriteWeight:
		c.writes++
	case weight == storage.ReadWeight:
		c.reads++
	default:
		c.custom += weight
	}

	if c.limit > 0 && c.total > c.limit {
		c.exhausted = true
	}
}

// Total returns the weight used so far.
func (c *Charger) Total() uint64 {
	return c.total
}

// Exhausted reports whether the limit was passed.
func (c *Charger) Exhausted() bool {
	return c.exhausted
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"READ: %d ops (%d) | WRITE: %d ops (%d) | CUSTOM: %d | TOTAL: %d",
		c.reads,
		c.reads*storage.ReadWeight,
		c.writes,
		c.writes*storage.WriteWeight,
		c.custom,
		c.total,
	)
}
