// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/schoollys/atlas2/chain"
	"github.com/schoollys/atlas2/log"
	"github.com/schoollys/atlas2/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "atlas")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "Atlas",
		Usage:   "Simulator of the Aura-R validator economics",
		Flags: []cli.Flag{
			verbosityFlag,
			jsonLogsFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			return nil
		},
		Commands: []cli.Command{
			{
				Name:  "run",
				Usage: "apply blocks from a genesis, submitting the calls of a scenario",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					devnetFlag,
					blocksFlag,
					scenarioFlag,
					maxCallWeightFlag,
					storeBlocksFlag,
					cacheFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: runAction,
			},
			{
				Name:  "inspect",
				Usage: "print the staking state of a data dir",
				Subcommands: []cli.Command{
					{
						Name:   "era",
						Usage:  "print the validators selected for an era",
						Flags:  []cli.Flag{dataDirFlag, eraFlag},
						Action: inspectEraAction,
					},
					{
						Name:   "validator",
						Usage:  "print a validator and its balances",
						Flags:  []cli.Flag{dataDirFlag, accountFlag},
						Action: inspectValidatorAction,
					},
					{
						Name:   "delegator",
						Usage:  "print a delegator and its balances",
						Flags:  []cli.Flag{dataDirFlag, accountFlag},
						Action: inspectDelegatorAction,
					},
				},
			},
			{
				Name:  "events",
				Usage: "query the staking events of a data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					kindFlag,
					accountFlag,
					eraFlag,
					fromFlag,
					toFlag,
					limitFlag,
					descFlag,
				},
				Action: eventsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	sc, err := loadScenario(ctx.String(scenarioFlag.Name))
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	c, _, closeAll, err := openChain(ctx, gen)
	if err != nil {
		return err
	}
	defer closeAll()

	runCtx, cancel := context.WithCancel(handleExitSignal())
	defer cancel()
	group, gctx := errgroup.WithContext(runCtx)

	if ctx.Bool(enableMetricsFlag.Name) {
		listener, url, err := listenMetrics(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		logger.Info("metrics server started", "url", url)
		group.Go(func() error {
			return serveMetrics(gctx, listener)
		})
	}
	group.Go(func() error {
		defer cancel()
		return simulate(gctx, c, sc, ctx.Uint64(blocksFlag.Name))
	})

	if err := group.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted", "head", c.Head().Number)
			return nil
		}
		return err
	}
	return printHead(c)
}

// simulate applies count blocks on top of the head.
func simulate(ctx context.Context, c *chain.Chain, sc scenario, count uint64) error {
	start := time.Now()
	first := c.Head().Number + 1

	bar := pb.New64(int64(count)).SetMaxWidth(90)
	bar.NotPrint = !isatty.IsTerminal(os.Stdout.Fd())
	bar.Start()
	defer bar.Finish()

	var reverted int
	for range count {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := c.Head().Number + 1
		block, err := c.ApplyBlock(sc.callsAt(n))
		if err != nil {
			return err
		}
		for _, r := range block.Receipts {
			if r.Reverted() {
				reverted++
				logger.Debug("call reverted", "block", n, "index", r.Index, "origin", r.Origin, "method", r.Method, "error", r.Error)
			}
		}
		if block.NewEra {
			logger.Info("new era", "block", n)
		}
		bar.Increment()
	}
	logger.Info("blocks applied", "from", first, "to", c.Head().Number, "reverted", reverted, "elapsed", time.Since(start))
	return nil
}
