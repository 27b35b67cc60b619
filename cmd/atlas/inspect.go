// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/chain"
	"github.com/schoollys/atlas2/currency"
	"github.com/schoollys/atlas2/logdb"
	"github.com/schoollys/atlas2/staker"
	"github.com/schoollys/atlas2/staker/events"
)

func printHead(c *chain.Chain) error {
	head := c.Head()
	return c.View(func(_ *currency.Ledger, s *staker.Staker) error {
		era, err := s.CurrentEra()
		if err != nil {
			return err
		}
		list, err := s.ErasValidatorList(era)
		if err != nil {
			return err
		}
		fmt.Printf("Head:        #%d %v\n", head.Number, head.Root)
		fmt.Printf("Genesis:     %v\n", head.GenesisID)
		fmt.Printf("Current era: %d (%d validators)\n", era, len(list))
		return nil
	})
}

// openExisting opens the chain of a data dir initialized by run.
func openExisting(ctx *cli.Context) (*chain.Chain, func(), error) {
	if _, err := requireDataDir(ctx, mainDBName); err != nil {
		return nil, nil, err
	}
	c, _, closeAll, err := openChain(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return c, closeAll, nil
}

func parseAccount(ctx *cli.Context) (atlas.Address, error) {
	s := ctx.String(accountFlag.Name)
	if s == "" {
		return atlas.Address{}, errors.Errorf("--%s is required", accountFlag.Name)
	}
	return atlas.ParseAddress(s)
}

func inspectEraAction(ctx *cli.Context) error {
	c, closeAll, err := openExisting(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	return c.View(func(_ *currency.Ledger, s *staker.Staker) error {
		current, err := s.CurrentEra()
		if err != nil {
			return err
		}
		era := current
		if e := ctx.Int(eraFlag.Name); e >= 0 {
			era = atlas.EraIndex(e)
		}
		if era > current {
			return errors.Errorf("era %d not started, current era is %d", era, current)
		}

		start, err := s.EraStartBlock(era)
		if err != nil {
			return err
		}
		total, err := s.ErasTotalStake(era)
		if err != nil {
			return err
		}
		reward, pending, err := s.ErasReward(era)
		if err != nil {
			return err
		}
		list, err := s.ErasValidatorList(era)
		if err != nil {
			return err
		}

		fmt.Printf("Era %d (current %d), started at block #%d\n", era, current, start)
		fmt.Printf("Total stake: %v\n", total)
		if pending {
			fmt.Printf("Reward pool: %v (unpaid)\n", reward)
		}
		fmt.Printf("%-44s %16s %16s %s\n", "VALIDATOR", "OWN", "TOTAL", "BACKERS")
		for _, v := range list {
			exp, err := s.Exposure(era, v)
			if err != nil {
				return err
			}
			fmt.Printf("%-44v %16v %16v %d\n", v, exp.Own, exp.Total, len(exp.Delegations))
		}
		return nil
	})
}

func inspectValidatorAction(ctx *cli.Context) error {
	account, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	c, closeAll, err := openExisting(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	return c.View(func(ledger *currency.Ledger, s *staker.Staker) error {
		v, err := s.Validator(account)
		if err != nil {
			return err
		}
		if v == nil {
			return errors.Errorf("%v is not a validator", account)
		}
		status, err := s.Status(account)
		if err != nil {
			return err
		}
		fmt.Printf("Validator:   %v (%v)\n", v.Account, status)
		fmt.Printf("Active:      %v\n", v.IsActive)
		fmt.Printf("Self stake:  %v\n", v.SelfStake)
		fmt.Printf("Delegated:   %v\n", v.DelegatedStake())
		fmt.Printf("Reputation:  %v (era %d)\n", v.Reputation.Score, v.Reputation.LastUpdated)
		if until, ok := v.BondedUntil(s.Params().BondingDuration); ok {
			fmt.Printf("Bonded until era %d\n", until)
		}
		return printBalances(ledger, account)
	})
}

func inspectDelegatorAction(ctx *cli.Context) error {
	account, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	c, closeAll, err := openExisting(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	return c.View(func(ledger *currency.Ledger, s *staker.Staker) error {
		d, err := s.Delegator(account)
		if err != nil {
			return err
		}
		if d == nil {
			return errors.Errorf("%v is not a delegator", account)
		}
		fmt.Printf("Delegator:   %v\n", d.Account)
		fmt.Printf("Staked:      %v\n", d.TotalStaked)
		for _, del := range d.Delegations {
			fmt.Printf("  -> %v %v\n", del.Validator, del.Amount)
		}
		for _, u := range d.Unbonding {
			fmt.Printf("  unbonding %v until era %d\n", u.Amount, u.ReleaseEra)
		}
		return printBalances(ledger, account)
	})
}

func printBalances(ledger *currency.Ledger, account atlas.Address) error {
	free, err := ledger.Free(account)
	if err != nil {
		return err
	}
	locked, err := ledger.Locked(account)
	if err != nil {
		return err
	}
	fmt.Printf("Free:        %v\n", free)
	fmt.Printf("Locked:      %v\n", locked)
	return nil
}

func eventsAction(ctx *cli.Context) error {
	path, err := requireDataDir(ctx, logDBName)
	if err != nil {
		return err
	}
	logDB, err := logdb.New(path)
	if err != nil {
		return err
	}
	defer logDB.Close()

	filter := &logdb.EventFilter{
		Range:   blockRange(ctx),
		Options: &logdb.Options{Limit: ctx.Uint64(limitFlag.Name)},
	}
	for _, name := range ctx.StringSlice(kindFlag.Name) {
		kind, ok := events.ParseKind(name)
		if !ok {
			return errors.Errorf("unknown event kind %q", name)
		}
		filter.Kinds = append(filter.Kinds, kind)
	}
	if ctx.IsSet(accountFlag.Name) {
		account, err := parseAccount(ctx)
		if err != nil {
			return err
		}
		filter.Account = &account
	}
	if e := ctx.Int(eraFlag.Name); e >= 0 {
		era := atlas.EraIndex(e)
		filter.Era = &era
	}
	if ctx.Bool(descFlag.Name) {
		filter.Order = logdb.DESC
	}

	evs, err := logDB.FilterEvents(context.Background(), filter)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Printf("#%-8d %-4d era %-6d %s\n", ev.BlockNumber, ev.Index, ev.Era, ev.String())
	}
	if len(evs) == 0 {
		fmt.Println("no events")
	}
	return nil
}

// blockRange returns the range given by flags, nil for every block.
func blockRange(ctx *cli.Context) *logdb.Range {
	from := atlas.BlockNumber(ctx.Uint64(fromFlag.Name))
	if !ctx.IsSet(toFlag.Name) {
		if from == 0 {
			return nil
		}
		// open ended
		return &logdb.Range{From: from, To: from - 1}
	}
	return &logdb.Range{From: from, To: atlas.BlockNumber(ctx.Uint64(toFlag.Name))}
}
