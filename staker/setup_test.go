// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/currency"
	"github.com/schoollys/atlas2/lvldb"
	"github.com/schoollys/atlas2/staker/origin"
	"github.com/schoollys/atlas2/staker/validation"
	"github.com/schoollys/atlas2/state"
	"github.com/schoollys/atlas2/storage"
)

func bal(x uint64) atlas.Balance { return atlas.NewBalance(x) }

func addr(name string) atlas.Address {
	return atlas.BytesToAddress([]byte(name))
}

func testParams() Params {
	return Params{
		EraDuration:                10,
		ValidatorsCount:            3,
		MinValidatorStake:          bal(500),
		MinDelegationStake:         bal(10),
		MaxDelegationsPerDelegator: 4,
		RewardPaymentDelay:         2,
		BondingDuration:            2,
		ReputationWeight:           atlas.PerbillFromPercent(20),
	}
}

type testEnv struct {
	state  *state.State
	ledger *currency.Ledger
	staker *Staker
}

func newTestEnv(t *testing.T, params Params, opts ...Option) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, atlas.Bytes32{}, nil)
	ledger := currency.New(storage.NewContext("currency", st, nil))
	return &testEnv{
		state:  st,
		ledger: ledger,
		staker: New(storage.NewContext("staker", st, nil), params, ledger, opts...),
	}
}

// newTestEnvWithCurrency builds an env whose staker talks to wrap(ledger).
func newTestEnvWithCurrency(t *testing.T, params Params, wrap func(*currency.Ledger) Currency) *testEnv {
	env := newTestEnv(t, params)
	env.staker = New(storage.NewContext("staker", env.state, nil), params, wrap(env.ledger))
	return env
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Fund(who atlas.Address, amount atlas.Balance) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.env.ledger.DepositCreating(who, amount); err != nil {
			t.Fatalf("failed to fund %s: %v", who, err)
		}
	})
}

func (st *TestSequence) RegisterValidator(who atlas.Address, stake atlas.Balance) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.RegisterValidator(origin.Signed(who), stake); err != nil {
			t.Fatalf("failed to register validator %s: %v", who, err)
		}
		t.Logf("registered validator %s", who)
	})
}

func (st *TestSequence) DeregisterValidator(who atlas.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.DeregisterValidator(origin.Signed(who)); err != nil {
			t.Fatalf("failed to deregister validator %s: %v", who, err)
		}
		t.Logf("deregistered validator %s", who)
	})
}

func (st *TestSequence) Delegate(who, validator atlas.Address, amount atlas.Balance) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.Delegate(origin.Signed(who), validator, amount); err != nil {
			t.Fatalf("failed to delegate %s to %s: %v", who, validator, err)
		}
		t.Logf("delegated %v from %s to %s", amount, who, validator)
	})
}

func (st *TestSequence) Undelegate(who, validator atlas.Address, amount atlas.Balance) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.Undelegate(origin.Signed(who), validator, amount); err != nil {
			t.Fatalf("failed to undelegate %s from %s: %v", who, validator, err)
		}
		t.Logf("undelegated %v from %s to %s", amount, who, validator)
	})
}

func (st *TestSequence) SetReputation(validator atlas.Address, score uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.SetReputation(origin.Root(), validator, bal(score)); err != nil {
			t.Fatalf("failed to set reputation of %s: %v", validator, err)
		}
	})
}

func (st *TestSequence) SetEraReward(e atlas.EraIndex, amount atlas.Balance) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.SetEraReward(origin.Root(), e, amount); err != nil {
			t.Fatalf("failed to set reward of era %d: %v", e, err)
		}
	})
}

func (st *TestSequence) Initialize() *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.Initialize(); err != nil {
			t.Fatalf("failed to initialize: %v", err)
		}
	})
}

// Blocks runs the block hook for every block in [from, to].
func (st *TestSequence) Blocks(from, to atlas.BlockNumber) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		for n := from; n <= to; n++ {
			if _, err := st.env.staker.OnInitialize(n); err != nil {
				t.Fatalf("failed to initialize block %d: %v", n, err)
			}
		}
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type ValidatorAssertions struct {
	staker  *Staker
	account atlas.Address

	status     *validation.Status
	active     *bool
	selfStake  *atlas.Balance
	totalStake *atlas.Balance
	reputation *atlas.Balance
}

func AssertValidator(staker *Staker, account atlas.Address) *ValidatorAssertions {
	return &ValidatorAssertions{staker: staker, account: account}
}

func (va *ValidatorAssertions) Status(expected validation.Status) *ValidatorAssertions {
	va.status = &expected
	return va
}

func (va *ValidatorAssertions) Active(expected bool) *ValidatorAssertions {
	va.active = &expected
	return va
}

func (va *ValidatorAssertions) SelfStake(expected uint64) *ValidatorAssertions {
	b := bal(expected)
	va.selfStake = &b
	return va
}

func (va *ValidatorAssertions) TotalStake(expected uint64) *ValidatorAssertions {
	b := bal(expected)
	va.totalStake = &b
	return va
}

func (va *ValidatorAssertions) Reputation(expected uint64) *ValidatorAssertions {
	b := bal(expected)
	va.reputation = &b
	return va
}

func (va *ValidatorAssertions) Assert(t *testing.T) {
	v, err := va.staker.Validator(va.account)
	require.NoError(t, err, "failed to get validator %s", va.account)
	require.NotNil(t, v, "validator %s not found", va.account)

	if va.status != nil {
		status, err := va.staker.Status(va.account)
		require.NoError(t, err)
		assert.Equal(t, *va.status, status, "validator %s status mismatch", va.account)
	}
	if va.active != nil {
		assert.Equal(t, *va.active, v.IsActive, "validator %s active mismatch", va.account)
	}
	if va.selfStake != nil {
		assert.Equal(t, *va.selfStake, v.SelfStake, "validator %s self stake mismatch", va.account)
	}
	if va.totalStake != nil {
		assert.Equal(t, *va.totalStake, v.TotalStake, "validator %s total stake mismatch", va.account)
	}
	if va.reputation != nil {
		assert.Equal(t, *va.reputation, v.Reputation.Score, "validator %s reputation mismatch", va.account)
	}
}

// assertFree checks the free balance of who.
func assertFree(t *testing.T, env *testEnv, who atlas.Address, expected uint64) {
	free, err := env.ledger.Free(who)
	require.NoError(t, err)
	assert.Equal(t, bal(expected), free, "free balance of %s", who)
}

// assertLocked checks the largest lock held by who.
func assertLocked(t *testing.T, env *testEnv, who atlas.Address, expected uint64) {
	locked, err := env.ledger.Locked(who)
	require.NoError(t, err)
	assert.Equal(t, bal(expected), locked, "locked balance of %s", who)
}
