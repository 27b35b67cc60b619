// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atlas

import "encoding/binary"

// EraIndex counts eras from genesis.
type EraIndex uint32

// Bytes returns the big endian encoding, used as storage key.
func (e EraIndex) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(e))
	return b[:]
}

// SaturatingSub returns e - d, clamped at zero.
func (e EraIndex) SaturatingSub(d EraIndex) EraIndex {
	if d > e {
		return 0
	}
	return e - d
}

// SaturatingAdd returns e + d, clamped at the max era.
func (e EraIndex) SaturatingAdd(d EraIndex) EraIndex {
	if s := e + d; s >= e {
		return s
	}
	return ^EraIndex(0)
}

// BlockNumber is the height of a block.
type BlockNumber uint32

// Bytes returns the big endian encoding, used as storage key.
func (n BlockNumber) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	return b[:]
}

// SaturatingAdd returns n + d, clamped at the max block number.
func (n BlockNumber) SaturatingAdd(d BlockNumber) BlockNumber {
	if s := n + d; s >= n {
		return s
	}
	return ^BlockNumber(0)
}
