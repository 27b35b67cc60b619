// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain drives the staker block by block on top of a kv store.
package chain

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/currency"
	"github.com/schoollys/atlas2/dispatch"
	"github.com/schoollys/atlas2/genesis"
	"github.com/schoollys/atlas2/kv"
	"github.com/schoollys/atlas2/log"
	"github.com/schoollys/atlas2/logdb"
	"github.com/schoollys/atlas2/staker"
	"github.com/schoollys/atlas2/staker/origin"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/state"
	"github.com/schoollys/atlas2/storage"
)

var logger = log.WithContext("pkg", "chain")

const (
	currencyNamespace = "currency"
	stakerNamespace   = "staker"
)

var (
	errNoGenesis       = errors.New("empty store and no genesis given")
	errGenesisMismatch = errors.New("genesis mismatch")
)

// Options tunes a chain.
type Options struct {
	MaxCallWeight  uint64 // 0 for no bound
	StateCacheSize int    // number of cached state slots, 0 disables the cache
	StoreBlocks    bool   // keep the calls and receipts of every block
	StakerOptions  []staker.Option
}

// Receipt is the outcome of a call. Error is empty for a successful call.
type Receipt struct {
	Index  uint32
	Origin origin.Origin
	Method dispatch.Method
	Weight uint64
	Error  string
}

// Reverted returns whether the call was reverted.
func (r *Receipt) Reverted() bool {
	return r.Error != ""
}

// Block summarizes an applied block.
type Block struct {
	Head
	NewEra   bool
	Receipts []*Receipt
}

// Chain applies blocks of calls to the staker and persists the result.
//
// It's thread-safe.
type Chain struct {
	db         kv.Store
	propStore  kv.Store
	blockStore kv.Store
	logDB      *logdb.LogDB
	cache      *state.Cache
	opts       Options

	mu      sync.RWMutex
	genesis *genesis.Config
	head    Head
}

// Open opens the chain kept in db. An empty db is initialized from gen, a non
// empty one is restored from its head and gen, if given, must be the genesis
// it was initialized from.
func Open(db kv.Store, logDB *logdb.LogDB, gen *genesis.Config, opts Options) (*Chain, error) {
	c := &Chain{
		db:         db,
		propStore:  kv.Bucket(propStoreName).NewStore(db),
		blockStore: kv.Bucket(blockStoreName).NewStore(db),
		logDB:      logDB,
		opts:       opts,
	}
	if opts.StateCacheSize > 0 {
		cache, err := state.NewCache(opts.StateCacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "new state cache")
		}
		c.cache = cache
	}

	head, err := loadHead(c.propStore)
	if err != nil {
		if !c.propStore.IsNotFound(err) {
			return nil, errors.Wrap(err, "load head")
		}
		if gen == nil {
			return nil, errNoGenesis
		}
		if err := c.initGenesis(gen); err != nil {
			return nil, err
		}
		return c, nil
	}

	if gen != nil {
		id, err := gen.ID()
		if err != nil {
			return nil, err
		}
		if id != head.GenesisID {
			return nil, errGenesisMismatch
		}
	}
	data, err := c.propStore.Get(genesisKey)
	if err != nil {
		return nil, errors.Wrap(err, "load genesis")
	}
	if c.genesis, err = genesis.Parse(data); err != nil {
		return nil, errors.Wrap(err, "load genesis")
	}
	c.head = *head

	// events indexed by a block that never got committed
	if err := logDB.Truncate(head.Number + 1); err != nil {
		return nil, err
	}
	metricHeight().Set(int64(head.Number))
	logger.Info("chain restored", "head", head.Number, "root", head.Root)
	return c, nil
}

func (c *Chain) initGenesis(gen *genesis.Config) error {
	id, err := gen.ID()
	if err != nil {
		return err
	}
	data, err := gen.Encode()
	if err != nil {
		return errors.Wrap(err, "encode genesis")
	}

	c.genesis = gen
	st := state.New(c.db, atlas.Bytes32{}, c.cache)
	ledger, s := c.runtime(st, nil)
	if err := gen.Apply(ledger, s); err != nil {
		return errors.Wrap(err, "apply genesis")
	}

	head := Head{Number: 0, GenesisID: id}
	err = c.commit(st, s, &head, func(w kv.Putter) error {
		return kv.Bucket(propStoreName).NewPutter(w).Put(genesisKey, data)
	})
	if err != nil {
		return err
	}
	logger.Info("chain initialized", "genesis", id, "root", head.Root)
	return nil
}

// runtime builds the ledger and the staker on st, charging storage access to charger.
func (c *Chain) runtime(st *state.State, charger storage.UseWeightFunc) (*currency.Ledger, *staker.Staker) {
	ledger := currency.New(storage.NewContext(currencyNamespace, st, charger))
	s := staker.New(storage.NewContext(stakerNamespace, st, charger), c.genesis.Params, ledger, c.opts.StakerOptions...)
	return ledger, s
}

// commit drains the events of s into the log db, then writes the state changes
// together with the head and whatever extra puts.
func (c *Chain) commit(st *state.State, s *staker.Staker, head *Head, extra func(w kv.Putter) error) error {
	evs, err := s.Events().Drain()
	if err != nil {
		return errors.Wrap(err, "drain events")
	}
	if err := c.logDB.Write(head.Number, evs); err != nil {
		return err
	}

	stage := st.Stage()
	head.Root = stage.Hash()
	_, err = stage.CommitWith(c.db, func(w kv.Putter) error {
		if err := saveHead(kv.Bucket(propStoreName).NewPutter(w), head); err != nil {
			return err
		}
		if extra != nil {
			return extra(w)
		}
		return nil
	})
	if err != nil {
		if terr := c.logDB.Truncate(head.Number); terr != nil {
			logger.Warn("failed to drop events of uncommitted block", "number", head.Number, "error", terr)
		}
		return errors.Wrapf(err, "commit block %d", head.Number)
	}

	c.head = *head
	metricHeight().Set(int64(head.Number))
	return nil
}

// ApplyBlock applies calls as the next block. Reverted calls only fail their
// own receipt, any other error aborts the block and the head stays unchanged.
func (c *Chain) ApplyBlock(calls []*dispatch.Call) (*Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	n := c.head.Number + 1
	st := state.New(c.db, c.head.Root, c.cache)
	_, s := c.runtime(st, nil)

	newEra, err := s.OnInitialize(n)
	if err != nil {
		return nil, errors.Wrapf(err, "initialize block %d", n)
	}

	dispatcher := dispatch.New(st, func(charger storage.UseWeightFunc) *staker.Staker {
		_, charged := c.runtime(st, charger)
		return charged
	}, c.opts.MaxCallWeight)

	var (
		receipts = make([]*Receipt, 0, len(calls))
		reverted int
	)
	for i, call := range calls {
		weight, err := dispatcher.Apply(call)
		r := &Receipt{
			Index:  uint32(i),
			Origin: call.Origin,
			Method: call.Method,
			Weight: weight,
		}
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return nil, errors.Wrapf(err, "apply call %d of block %d", i, n)
			}
			r.Error = err.Error()
			reverted++
		}
		receipts = append(receipts, r)
	}

	var extra func(w kv.Putter) error
	if c.opts.StoreBlocks {
		extra = func(w kv.Putter) error {
			data, err := dispatch.EncodeCalls(calls)
			if err != nil {
				return err
			}
			bw := kv.Bucket(blockStoreName).NewPutter(w)
			key := makeBlockKey(n, callsInfix)
			if err := bw.Put(key[:], data); err != nil {
				return err
			}
			return saveReceipts(bw, n, receipts)
		}
	}

	head := Head{Number: n, GenesisID: c.head.GenesisID}
	if err := c.commit(st, s, &head, extra); err != nil {
		return nil, err
	}

	metricBlocks().Add(1)
	metricBlockDuration().Observe(time.Since(start).Milliseconds())
	metricReceipts().AddWithLabel(int64(len(receipts)-reverted), map[string]string{"result": "ok"})
	metricReceipts().AddWithLabel(int64(reverted), map[string]string{"result": "reverted"})
	if c.cache != nil {
		if changed, hit, miss := c.cache.Stats.Stats(); changed {
			metricCacheHitMiss().SetWithLabel(hit, map[string]string{"event": "hit"})
			metricCacheHitMiss().SetWithLabel(miss, map[string]string{"event": "miss"})
		}
	}

	logger.Debug("applied block", "number", n, "calls", len(calls), "reverted", reverted, "newEra", newEra, "elapsed", time.Since(start))
	return &Block{Head: head, NewEra: newEra, Receipts: receipts}, nil
}

// Head returns the newest applied block.
func (c *Chain) Head() Head {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.head
}

// Genesis returns the genesis the chain was initialized from.
func (c *Chain) Genesis() *genesis.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.genesis
}

// View calls fn with the ledger and the staker at the head. Changes made by fn are discarded.
func (c *Chain) View(fn func(ledger *currency.Ledger, s *staker.Staker) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := state.New(c.db, c.head.Root, c.cache)
	return fn(c.runtime(st, nil))
}

// GetCalls returns the calls of block n. Only kept with Options.StoreBlocks.
func (c *Chain) GetCalls(n atlas.BlockNumber) ([]*dispatch.Call, error) {
	key := makeBlockKey(n, callsInfix)
	data, err := c.blockStore.Get(key[:])
	if err != nil {
		return nil, err
	}
	return dispatch.DecodeCalls(data)
}

// GetReceipts returns the receipts of block n. Only kept with Options.StoreBlocks.
func (c *Chain) GetReceipts(n atlas.BlockNumber) ([]*Receipt, error) {
	return loadReceipts(c.blockStore, n)
}

// IsNotFound returns if the given error means not found.
func (c *Chain) IsNotFound(err error) bool {
	return c.blockStore.IsNotFound(err)
}
