// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatch

import (
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/schoollys/atlas2/log"
	"github.com/schoollys/atlas2/metrics"
	"github.com/schoollys/atlas2/staker"
	"github.com/schoollys/atlas2/staker/origin"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/state"
	"github.com/schoollys/atlas2/storage"
)

var (
	logger = log.WithContext("pkg", "dispatch")

	ErrUnknownMethod = reverts.Register("UnknownMethod", reverts.New("unknown method"))
	ErrBadArgs       = reverts.Register("BadArgs", reverts.New("malformed arguments"))
	ErrOutOfWeight   = reverts.Register("OutOfWeight", reverts.New("call weight limit exceeded"))

	metricCalls    = metrics.LazyLoadCounterVec("dispatch_calls_total", []string{"method", "result"})
	metricWeight   = metrics.LazyLoadHistogramVec("dispatch_call_weight_millions", []string{"method"}, metrics.BucketWeight)
	metricDuration = metrics.LazyLoadHistogram("dispatch_call_duration_ms", metrics.BucketMillis)
)

type method struct {
	args func() any
	run  func(s *staker.Staker, o origin.Origin, args any) error
}

var methods = make(map[Method]*method)

func init() {
	defines := []struct {
		name Method
		args func() any
		run  func(s *staker.Staker, o origin.Origin, args any) error
	}{
		{MethodRegisterValidator, func() any { return &amountArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			return s.RegisterValidator(o, args.(*amountArgs).Amount)
		}},
		{MethodDeregisterValidator, func() any { return &noArgs{} }, func(s *staker.Staker, o origin.Origin, _ any) error {
			return s.DeregisterValidator(o)
		}},
		{MethodDelegate, func() any { return &validatorArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			a := args.(*validatorArgs)
			return s.Delegate(o, a.Validator, a.Amount)
		}},
		{MethodUndelegate, func() any { return &validatorArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			a := args.(*validatorArgs)
			return s.Undelegate(o, a.Validator, a.Amount)
		}},
		{MethodIncreaseStake, func() any { return &amountArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			return s.IncreaseStake(o, args.(*amountArgs).Amount)
		}},
		{MethodDecreaseStake, func() any { return &amountArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			return s.DecreaseStake(o, args.(*amountArgs).Amount)
		}},
		{MethodWithdrawUnbonded, func() any { return &noArgs{} }, func(s *staker.Staker, o origin.Origin, _ any) error {
			_, err := s.WithdrawUnbonded(o)
			return err
		}},
		{MethodSlashValidator, func() any { return &validatorArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			a := args.(*validatorArgs)
			return s.SlashValidator(o, a.Validator, a.Amount)
		}},
		{MethodSetReputation, func() any { return &validatorArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			a := args.(*validatorArgs)
			return s.SetReputation(o, a.Validator, a.Amount)
		}},
		{MethodSetEraReward, func() any { return &eraRewardArgs{} }, func(s *staker.Staker, o origin.Origin, args any) error {
			a := args.(*eraRewardArgs)
			return s.SetEraReward(o, a.Era, a.Amount)
		}},
	}
	for _, def := range defines {
		if _, found := methods[def.name]; found {
			panic("method defined twice: " + string(def.name))
		}
		methods[def.name] = &method{args: def.args, run: def.run}
	}
}

// Methods lists the known methods, sorted.
func Methods() []Method {
	list := make([]Method, 0, len(methods))
	for name := range methods {
		list = append(list, name)
	}
	slices.Sort(list)
	return list
}

// StakerFunc builds a staker whose storage accesses are charged to charger.
type StakerFunc func(charger storage.UseWeightFunc) *staker.Staker

// Dispatcher applies calls to the staker, one state checkpoint per call.
type Dispatcher struct {
	state     *state.State
	newStaker StakerFunc
	maxWeight uint64
}

// New creates a dispatcher. maxWeight bounds the weight of a single call, 0 for no bound.
func New(st *state.State, newStaker StakerFunc, maxWeight uint64) *Dispatcher {
	return &Dispatcher{
		state:     st,
		newStaker: newStaker,
		maxWeight: maxWeight,
	}
}

// Apply runs call and returns the weight it used. A failed call leaves no trace
// in state. Revert errors are the caller's fault, any other error is not.
func (d *Dispatcher) Apply(call *Call) (uint64, error) {
	start := time.Now()
	charger := NewCharger(d.maxWeight)

	err := d.apply(call, charger)

	result := "ok"
	if err != nil {
		result = "reverted"
		if !reverts.IsRevertErr(err) {
			result = "failed"
		}
	}
	metricCalls().AddWithLabel(1, map[string]string{"method": string(call.Method), "result": result})
	metricWeight().ObserveWithLabels(int64(charger.Total()/1_000_000), map[string]string{"method": string(call.Method)})
	metricDuration().Observe(time.Since(start).Milliseconds())

	logger.Trace("applied call", "method", call.Method, "origin", call.Origin, "weight", charger.Breakdown(), "error", err)
	return charger.Total(), err
}

func (d *Dispatcher) apply(call *Call, charger *Charger) error {
	m, ok := methods[call.Method]
	if !ok {
		return reverts.Wrap(ErrUnknownMethod, "%q", call.Method)
	}
	args := m.args()
	if err := rlp.DecodeBytes(call.Args, args); err != nil {
		return reverts.Wrap(ErrBadArgs, "%v: %v", call.Method, err)
	}

	checkpoint := d.state.NewCheckpoint()
	err := m.run(d.newStaker(charger.Charge), call.Origin, args)
	if err == nil && charger.Exhausted() {
		err = ErrOutOfWeight
	}
	if err != nil {
		d.state.RevertTo(checkpoint)
	}
	return err
}
