// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/kv"
)

const (
	propStoreName  = "chain.props"  // for the head and the genesis
	blockStoreName = "chain.blocks" // for calls and receipts

	callsInfix   = byte(0)
	receiptInfix = byte(1)
)

var (
	headKey    = []byte("head")
	genesisKey = []byte("genesis")
)

// Head is the newest applied block.
type Head struct {
	Number    atlas.BlockNumber
	Root      atlas.Bytes32 // state digest after the block
	GenesisID atlas.Bytes32
}

// the key for calls/receipts.
// it consists of: ( block number | infix )
type blockKey [4 + 1]byte

func makeBlockKey(n atlas.BlockNumber, infix byte) (k blockKey) {
	binary.BigEndian.PutUint32(k[:], uint32(n))
	k[4] = infix
	return
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveHead(w kv.Putter, head *Head) error {
	return saveRLP(w, headKey, head)
}

func loadHead(r kv.Getter) (*Head, error) {
	var head Head
	if err := loadRLP(r, headKey, &head); err != nil {
		return nil, err
	}
	return &head, nil
}

func saveReceipts(w kv.Putter, n atlas.BlockNumber, receipts []*Receipt) error {
	key := makeBlockKey(n, receiptInfix)
	return saveRLP(w, key[:], receipts)
}

func loadReceipts(r kv.Getter, n atlas.BlockNumber) ([]*Receipt, error) {
	var receipts []*Receipt
	key := makeBlockKey(n, receiptInfix)
	if err := loadRLP(r, key[:], &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}
