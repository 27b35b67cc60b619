// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/currency"
	"github.com/schoollys/atlas2/staker/delegation"
	"github.com/schoollys/atlas2/staker/events"
	"github.com/schoollys/atlas2/staker/origin"
	"github.com/schoollys/atlas2/staker/reputation"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/staker/validation"
)

func kinds(t *testing.T, s *Staker) []events.Kind {
	all, err := s.Events().All()
	require.NoError(t, err)
	list := make([]events.Kind, 0, len(all))
	for _, ev := range all {
		list = append(list, ev.Kind)
	}
	return list
}

func TestRegisterValidator(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v := addr("v")

	assert.ErrorIs(t, s.RegisterValidator(origin.None(), bal(1000)), origin.ErrBadOrigin)
	assert.ErrorIs(t, s.RegisterValidator(origin.Signed(v), bal(499)), reverts.ErrInsufficientStake)

	NewSequence(env).
		Fund(v, bal(2000)).
		RegisterValidator(v, bal(1000)).
		Run(t)

	AssertValidator(s, v).
		Status(validation.StatusActive).
		Active(true).
		SelfStake(1000).
		TotalStake(1000).
		Reputation(0).
		Assert(t)
	assertLocked(t, env, v, 1000)

	count, err := s.ValidatorCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)

	assert.ErrorIs(t, s.RegisterValidator(origin.Signed(v), bal(1000)), reverts.ErrAlreadyValidator)
	assert.Equal(t, []events.Kind{events.KindValidatorRegistered}, kinds(t, s))
}

func TestDelegateAndUndelegate(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v, d := addr("v"), addr("d")

	NewSequence(env).
		Fund(v, bal(1000)).
		Fund(d, bal(500)).
		RegisterValidator(v, bal(1000)).
		Delegate(d, v, bal(200)).
		Run(t)

	AssertValidator(s, v).TotalStake(1200).SelfStake(1000).Assert(t)
	del, err := s.Delegator(d)
	require.NoError(t, err)
	assert.Equal(t, bal(200), del.TotalStaked)
	assertLocked(t, env, d, 200)

	NewSequence(env).Undelegate(d, v, bal(50)).Run(t)

	AssertValidator(s, v).TotalStake(1150).Assert(t)
	del, err = s.Delegator(d)
	require.NoError(t, err)
	assert.Equal(t, bal(150), del.TotalStaked)
	assert.Equal(t, bal(50), del.TotalUnbonding())
	// unbonding stake stays locked
	assertLocked(t, env, d, 200)

	assert.Equal(t, []events.Kind{
		events.KindValidatorRegistered,
		events.KindDelegationCreated,
		events.KindDelegationWithdrawn,
	}, kinds(t, s))
}

func TestDelegateChecks(t *testing.T) {
	params := testParams()
	params.MaxDelegationsPerDelegator = 2
	env := newTestEnv(t, params)
	s := env.staker
	d := addr("d")
	v1, v2, v3, gone := addr("v1"), addr("v2"), addr("v3"), addr("gone")

	NewSequence(env).
		Fund(d, bal(10_000)).
		RegisterValidator(v1, bal(1000)).
		RegisterValidator(v2, bal(1000)).
		RegisterValidator(v3, bal(1000)).
		RegisterValidator(gone, bal(1000)).
		DeregisterValidator(gone).
		Run(t)

	assert.ErrorIs(t, s.Delegate(origin.Root(), v1, bal(100)), origin.ErrBadOrigin)
	assert.ErrorIs(t, s.Delegate(origin.Signed(d), addr("nobody"), bal(100)), reverts.ErrNotValidator)
	assert.ErrorIs(t, s.Delegate(origin.Signed(d), gone, bal(100)), reverts.ErrValidatorNotActive)
	assert.ErrorIs(t, s.Delegate(origin.Signed(d), v1, bal(9)), reverts.ErrInsufficientDelegationStake)

	NewSequence(env).
		Delegate(d, v1, bal(100)).
		Delegate(d, v2, bal(100)).
		Delegate(d, v1, bal(50)).
		Run(t)
	assert.ErrorIs(t, s.Delegate(origin.Signed(d), v3, bal(100)), reverts.ErrTooManyDelegations)

	del, err := s.Delegator(d)
	require.NoError(t, err)
	require.Len(t, del.Delegations, 2)
	assert.Equal(t, v1, del.Delegations[0].Validator)
	assert.Equal(t, bal(150), del.Delegations[0].Amount)
	assert.Equal(t, bal(250), del.TotalStaked)

	assert.ErrorIs(t, s.Undelegate(origin.Signed(d), v3, bal(10)), reverts.ErrNotDelegator)
	assert.ErrorIs(t, s.Undelegate(origin.Signed(addr("x")), v1, bal(10)), reverts.ErrNotDelegator)
	assert.ErrorIs(t, s.Undelegate(origin.Signed(d), v1, bal(151)), reverts.ErrInsufficientDelegationStake)
	n, err := s.Events().Len()
	require.NoError(t, err)
	assert.ErrorIs(t, s.Undelegate(origin.Signed(d), v1, atlas.Balance{}), reverts.ErrInsufficientDelegationStake)
	after, err := s.Events().Len()
	require.NoError(t, err)
	assert.Equal(t, n, after, "no event for a zero undelegation")
}

func TestIncreaseStake(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v := addr("v")

	assert.ErrorIs(t, s.IncreaseStake(origin.Signed(v), bal(10)), reverts.ErrNotValidator)

	NewSequence(env).
		Fund(v, bal(2000)).
		RegisterValidator(v, bal(1000)).
		Delegate(addr("d"), v, bal(100)).
		Run(t)
	require.NoError(t, s.IncreaseStake(origin.Signed(v), bal(300)))

	AssertValidator(s, v).SelfStake(1300).TotalStake(1400).Assert(t)
	assertLocked(t, env, v, 1300)
}

func TestDecreaseStakeWhileActive(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v := addr("v")

	NewSequence(env).
		Fund(v, bal(1000)).
		RegisterValidator(v, bal(1000)).
		Run(t)

	assert.ErrorIs(t, s.DecreaseStake(origin.Signed(v), bal(100)), reverts.ErrCannotWithdrawWhileActive)
	AssertValidator(s, v).SelfStake(1000).TotalStake(1000).Active(true).Assert(t)
	assertLocked(t, env, v, 1000)
}

func TestValidatorBonding(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v := addr("v")

	NewSequence(env).
		Fund(v, bal(1000)).
		RegisterValidator(v, bal(1000)).
		Initialize().
		DeregisterValidator(v).
		Run(t)

	AssertValidator(s, v).Status(validation.StatusDeregistered).Active(false).Assert(t)
	count, err := s.ValidatorCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	// deregistered in era 0, bonded until era 2
	NewSequence(env).Blocks(1, 10).Run(t)
	assert.ErrorIs(t, s.DecreaseStake(origin.Signed(v), bal(100)), reverts.ErrCannotWithdrawBeforeBondingPeriod)

	NewSequence(env).Blocks(11, 20).Run(t)
	assert.ErrorIs(t, s.DecreaseStake(origin.Signed(v), bal(1001)), reverts.ErrInsufficientStake)
	assert.ErrorIs(t, s.DecreaseStake(origin.Signed(v), bal(600)), reverts.ErrInsufficientStake)

	require.NoError(t, s.DecreaseStake(origin.Signed(v), bal(400)))
	AssertValidator(s, v).SelfStake(600).TotalStake(600).Assert(t)
	assertLocked(t, env, v, 600)

	require.NoError(t, s.DecreaseStake(origin.Signed(v), bal(600)))
	rec, err := s.Validator(v)
	require.NoError(t, err)
	assert.Nil(t, rec)
	status, err := s.Status(v)
	require.NoError(t, err)
	assert.Equal(t, validation.StatusDeregistered, status)
	assertLocked(t, env, v, 0)
	assertFree(t, env, v, 1000)
}

func TestDelegatorUnbonding(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v, d := addr("v"), addr("d")

	assert.ErrorIs(t, withdraw(s, d), reverts.ErrNotDelegator)

	NewSequence(env).
		Fund(v, bal(1000)).
		Fund(d, bal(300)).
		RegisterValidator(v, bal(1000)).
		Delegate(d, v, bal(200)).
		Initialize().
		Undelegate(d, v, bal(50)).
		Run(t)

	assert.ErrorIs(t, withdraw(s, d), reverts.ErrNothingToWithdraw)

	NewSequence(env).Blocks(1, 20).Run(t)
	released, err := s.WithdrawUnbonded(origin.Signed(d))
	require.NoError(t, err)
	assert.Equal(t, bal(50), released)
	assertLocked(t, env, d, 150)

	// removing the whole delegation drops the record once withdrawn
	NewSequence(env).Undelegate(d, v, bal(150)).Blocks(21, 40).Run(t)
	released, err = s.WithdrawUnbonded(origin.Signed(d))
	require.NoError(t, err)
	assert.Equal(t, bal(150), released)
	assertLocked(t, env, d, 0)

	rec, err := s.Delegator(d)
	require.NoError(t, err)
	assert.Nil(t, rec)
	AssertValidator(s, v).TotalStake(1000).Assert(t)
}

func withdraw(s *Staker, who atlas.Address) error {
	_, err := s.WithdrawUnbonded(origin.Signed(who))
	return err
}

// assertStakeBacked checks that the total stake of validator is its self stake
// plus the delegations its backers hold.
func assertStakeBacked(t *testing.T, s *Staker, validator atlas.Address) {
	v, err := s.Validator(validator)
	require.NoError(t, err)
	backers, err := s.delegationService.Backers(validator)
	require.NoError(t, err)
	if v == nil {
		assert.Empty(t, backers, "backers of removed validator %s", validator)
		return
	}
	sum := v.SelfStake
	for _, who := range backers {
		d, err := s.Delegator(who)
		require.NoError(t, err)
		require.NotNil(t, d, "backer %s of %s has no record", who, validator)
		sum = sum.Add(d.AmountTo(validator))
	}
	assert.Equal(t, sum, v.TotalStake, "total stake of %s", validator)
}

func TestRemovedValidatorReleasesDelegations(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v, d := addr("v"), addr("d")

	NewSequence(env).
		Fund(v, bal(1000)).
		Fund(d, bal(500)).
		RegisterValidator(v, bal(1000)).
		Delegate(d, v, bal(500)).
		Initialize().
		DeregisterValidator(v).
		Blocks(1, 20).
		Run(t)
	assertStakeBacked(t, s, v)

	// withdrawing everything in era 2 unbonds the delegation until era 4
	require.NoError(t, s.DecreaseStake(origin.Signed(v), bal(1000)))
	assertStakeBacked(t, s, v)
	del, err := s.Delegator(d)
	require.NoError(t, err)
	assert.Empty(t, del.Delegations)
	assert.True(t, del.TotalStaked.IsZero())
	assert.Equal(t, []delegation.Unbonding{{Amount: bal(500), ReleaseEra: 4}}, del.Unbonding)
	assertLocked(t, env, d, 500)

	all, err := s.Events().All()
	require.NoError(t, err)
	last := all[len(all)-2]
	assert.Equal(t, events.KindDelegationWithdrawn, last.Kind)
	assert.Equal(t, bal(500), last.Amount)

	// the account comes back with no backers
	NewSequence(env).
		RegisterValidator(v, bal(1000)).
		SetEraReward(3, bal(1000)).
		Run(t)
	assertStakeBacked(t, s, v)
	AssertValidator(s, v).SelfStake(1000).TotalStake(1000).Assert(t)
	assert.ErrorIs(t, s.Undelegate(origin.Signed(d), v, bal(500)), reverts.ErrNotDelegator)

	NewSequence(env).Blocks(21, 59).Run(t)
	exp, err := s.Exposure(3, v)
	require.NoError(t, err)
	assert.Equal(t, bal(1000), exp.Own)
	assert.Equal(t, bal(1000), exp.Total)
	assert.Empty(t, exp.Delegations)

	released, err := s.WithdrawUnbonded(origin.Signed(d))
	require.NoError(t, err)
	assert.Equal(t, bal(500), released)
	assertLocked(t, env, d, 0)

	before, err := env.ledger.TotalIssuance()
	require.NoError(t, err)
	NewSequence(env).Blocks(60, 60).Run(t)
	after, err := env.ledger.TotalIssuance()
	require.NoError(t, err)
	assert.False(t, after.Sub(before).Gt(bal(1000)), "minted %v of a pool of 1000", after.Sub(before))

	assertFree(t, env, v, 2000)
	assertFree(t, env, d, 500)
	assertStakeBacked(t, s, v)
}

func TestSelection(t *testing.T) {
	var sets [][]atlas.Address
	sink := SessionSinkFunc(func(_ atlas.EraIndex, list []atlas.Address) {
		sets = append(sets, list)
	})

	env := newTestEnv(t, testParams(), WithSessionSink(sink))
	s := env.staker
	a, b, c, f, e := addr("a"), addr("b"), addr("c"), addr("f"), addr("e")

	NewSequence(env).
		RegisterValidator(a, bal(1000)).
		RegisterValidator(b, bal(2000)).
		RegisterValidator(c, bal(1500)).
		RegisterValidator(f, bal(1000)).
		RegisterValidator(e, bal(5000)).
		DeregisterValidator(e).
		Initialize().
		Run(t)

	// a and f tie on score, a has the lower account
	list, err := s.ErasValidatorList(0)
	require.NoError(t, err)
	assert.Equal(t, []atlas.Address{b, c, a}, list)
	total, err := s.ErasTotalStake(0)
	require.NoError(t, err)
	assert.Equal(t, bal(4500), total)

	exp, err := s.Exposure(0, b)
	require.NoError(t, err)
	assert.Equal(t, bal(2000), exp.Own)
	assert.Equal(t, bal(2000), exp.Total)

	// reputation breaks the tie for the next era
	NewSequence(env).SetReputation(f, 100).Blocks(1, 10).Run(t)
	list, err = s.ErasValidatorList(1)
	require.NoError(t, err)
	assert.Equal(t, []atlas.Address{b, c, f}, list)

	require.Len(t, sets, 2)
	assert.Equal(t, []atlas.Address{b, c, a}, sets[0])
	assert.Equal(t, []atlas.Address{b, c, f}, sets[1])
}

func TestEraBoundaries(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker

	NewSequence(env).Initialize().Run(t)

	for _, tt := range []struct {
		block   atlas.BlockNumber
		started bool
		era     atlas.EraIndex
	}{
		{1, false, 0},
		{9, false, 0},
		{10, true, 1},
		{11, false, 1},
		{19, false, 1},
		{20, true, 2},
		{30, true, 3},
	} {
		started, err := s.OnInitialize(tt.block)
		require.NoError(t, err)
		assert.Equal(t, tt.started, started, "block %d", tt.block)

		current, err := s.CurrentEra()
		require.NoError(t, err)
		assert.Equal(t, tt.era, current, "block %d", tt.block)
		active, err := s.ActiveEra()
		require.NoError(t, err)
		assert.Equal(t, current, active)
	}

	start, err := s.EraStartBlock(2)
	require.NoError(t, err)
	assert.Equal(t, atlas.BlockNumber(20), start)

	var eras []atlas.EraIndex
	all, err := s.Events().All()
	require.NoError(t, err)
	for _, ev := range all {
		if ev.Kind == events.KindNewEra {
			eras = append(eras, ev.Era)
		}
	}
	assert.Equal(t, []atlas.EraIndex{0, 1, 2, 3}, eras)
}

func TestRewardDistribution(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v, d := addr("v"), addr("d")

	NewSequence(env).
		Fund(v, bal(800)).
		Fund(d, bal(200)).
		RegisterValidator(v, bal(800)).
		Delegate(d, v, bal(200)).
		Initialize().
		SetEraReward(0, bal(1000)).
		Blocks(1, 29).
		Run(t)

	// era 0 is paid when era 3 starts
	assertFree(t, env, v, 800)
	_, found, err := s.ErasReward(0)
	require.NoError(t, err)
	assert.True(t, found)

	NewSequence(env).Blocks(30, 30).Run(t)

	assertFree(t, env, v, 800+820)
	assertFree(t, env, d, 200+180)
	assertLocked(t, env, v, 800)
	assertLocked(t, env, d, 200)

	issuance, err := env.ledger.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, bal(2000), issuance)

	_, found, err = s.ErasReward(0)
	require.NoError(t, err)
	assert.False(t, found)
	exp, err := s.Exposure(0, v)
	require.NoError(t, err)
	assert.True(t, exp.Total.IsZero())

	all, err := s.Events().All()
	require.NoError(t, err)
	var paid []*events.Event
	for _, ev := range all {
		if ev.Kind == events.KindRewardsPaid {
			paid = append(paid, ev)
		}
	}
	require.Len(t, paid, 1)
	assert.Equal(t, atlas.EraIndex(0), paid[0].Era)
	assert.Equal(t, bal(1000), paid[0].Amount)

	assert.ErrorIs(t, s.SetEraReward(origin.Root(), 0, bal(1)), reverts.ErrRewardsAlreadyClaimed)
}

func TestDistributeTwice(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v := addr("v")

	NewSequence(env).
		RegisterValidator(v, bal(1000)).
		Initialize().
		SetEraReward(0, bal(500)).
		Run(t)

	require.NoError(t, s.DistributeRewards(0))
	assertFree(t, env, v, 500)
	assert.ErrorIs(t, s.DistributeRewards(0), reverts.ErrNoRewardsForEra)
	assert.ErrorIs(t, s.DistributeRewards(7), reverts.ErrNoRewardsForEra)
	assertFree(t, env, v, 500)
}

func TestDistributeWithoutStake(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker

	NewSequence(env).Initialize().SetEraReward(0, bal(500)).Run(t)

	require.NoError(t, s.DistributeRewards(0))
	// the pool stays in place
	pool, found, err := s.ErasReward(0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, bal(500), pool)
}

type flakyCurrency struct {
	*currency.Ledger
	deposits int
	failAt   int
}

func (c *flakyCurrency) DepositCreating(who atlas.Address, amount atlas.Balance) (atlas.Balance, error) {
	c.deposits++
	if c.deposits == c.failAt {
		return atlas.Balance{}, errors.New("deposit rejected")
	}
	return c.Ledger.DepositCreating(who, amount)
}

func TestDistributionFailureReverts(t *testing.T) {
	env := newTestEnvWithCurrency(t, testParams(), func(l *currency.Ledger) Currency {
		return &flakyCurrency{Ledger: l, failAt: 2}
	})
	s := env.staker
	v, d := addr("v"), addr("d")

	NewSequence(env).
		Fund(v, bal(800)).
		Fund(d, bal(200)).
		RegisterValidator(v, bal(800)).
		Delegate(d, v, bal(200)).
		Initialize().
		SetEraReward(0, bal(1000)).
		Blocks(1, 30).
		Run(t)

	// the validator payout went through before the delegator one failed
	assertFree(t, env, v, 800)
	assertFree(t, env, d, 200)
	pool, found, err := s.ErasReward(0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, bal(1000), pool)
	assert.NotContains(t, kinds(t, s), events.KindRewardsPaid)

	current, err := s.CurrentEra()
	require.NoError(t, err)
	assert.Equal(t, atlas.EraIndex(3), current)
}

func TestSlashValidator(t *testing.T) {
	env := newTestEnv(t, testParams())
	s := env.staker
	v := addr("v")

	NewSequence(env).
		Fund(v, bal(1000)).
		RegisterValidator(v, bal(1000)).
		Delegate(addr("d"), v, bal(100)).
		Run(t)

	assert.ErrorIs(t, s.SlashValidator(origin.Signed(v), v, bal(300)), origin.ErrBadOrigin)
	assert.ErrorIs(t, s.SlashValidator(origin.Root(), addr("x"), bal(300)), reverts.ErrNotValidator)

	require.NoError(t, s.SlashValidator(origin.Root(), v, bal(300)))
	AssertValidator(s, v).
		Status(validation.StatusSlashed).
		Active(false).
		SelfStake(700).
		TotalStake(800).
		Assert(t)
	assertLocked(t, env, v, 700)
	assertFree(t, env, v, 700)

	count, err := s.ValidatorCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	// slashing is capped by the self stake
	require.NoError(t, s.SlashValidator(origin.Root(), v, bal(5000)))
	AssertValidator(s, v).SelfStake(0).TotalStake(100).Assert(t)
	assertLocked(t, env, v, 0)
	count, err = s.ValidatorCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReputation(t *testing.T) {
	oracle := reputation.OracleFunc(func(_ atlas.Address, stored atlas.Balance, _ atlas.EraIndex) (atlas.Balance, error) {
		return stored.Add(bal(60)), nil
	})
	env := newTestEnv(t, testParams(), WithOracle(oracle))
	s := env.staker
	v := addr("v")

	NewSequence(env).RegisterValidator(v, bal(1000)).Initialize().Run(t)

	assert.ErrorIs(t, s.SetReputation(origin.Signed(v), v, bal(10)), origin.ErrBadOrigin)
	NewSequence(env).SetReputation(v, 250).Run(t)
	AssertValidator(s, v).Reputation(100).Assert(t)

	NewSequence(env).SetReputation(v, 20).Blocks(1, 10).Run(t)
	AssertValidator(s, v).Reputation(80).Assert(t)
	rec, err := s.Validator(v)
	require.NoError(t, err)
	assert.Equal(t, atlas.EraIndex(1), rec.Reputation.LastUpdated)

	NewSequence(env).Blocks(11, 20).Run(t)
	AssertValidator(s, v).Reputation(100).Assert(t)
}

func TestDelegationInvariants(t *testing.T) {
	type op struct {
		Delegator  uint8
		Validator  uint8
		Amount     uint16
		Undelegate bool
	}

	env := newTestEnv(t, testParams())
	s := env.staker
	validators := []atlas.Address{addr("v1"), addr("v2"), addr("v3")}
	delegators := []atlas.Address{addr("d1"), addr("d2"), addr("d3")}

	seq := NewSequence(env)
	for _, v := range validators {
		seq.RegisterValidator(v, bal(1000))
	}
	seq.Run(t)

	var ops []op
	fuzz.NewWithSeed(42).NilChance(0).NumElements(200, 300).Fuzz(&ops)

	for _, o := range ops {
		who := delegators[int(o.Delegator)%len(delegators)]
		v := validators[int(o.Validator)%len(validators)]
		amount := bal(uint64(o.Amount % 300))

		var err error
		if o.Undelegate {
			err = s.Undelegate(origin.Signed(who), v, amount)
		} else {
			err = s.Delegate(origin.Signed(who), v, amount)
		}
		if err != nil {
			require.True(t, reverts.IsRevertErr(err), "unexpected error %v", err)
		}

		backed := make(map[atlas.Address]atlas.Balance)
		for _, d := range delegators {
			rec, err := s.Delegator(d)
			require.NoError(t, err)
			if rec == nil {
				assertLocked(t, env, d, 0)
				continue
			}
			var sum atlas.Balance
			for _, del := range rec.Delegations {
				sum = sum.Add(del.Amount)
				backed[del.Validator] = backed[del.Validator].Add(del.Amount)
			}
			assert.Equal(t, sum, rec.TotalStaked)
			locked, err := env.ledger.Locked(d)
			require.NoError(t, err)
			assert.Equal(t, rec.Locked(), locked)
		}
		for _, v := range validators {
			rec, err := s.Validator(v)
			require.NoError(t, err)
			assert.Equal(t, rec.SelfStake.Add(backed[v]), rec.TotalStake)
		}
	}
}
