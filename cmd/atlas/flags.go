// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the state and event databases, in memory if empty",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a genesis YAML file",
	}
	devnetFlag = cli.IntFlag{
		Name:  "devnet",
		Usage: "use a development genesis with the given number of validators",
	}
	blocksFlag = cli.Uint64Flag{
		Name:  "blocks",
		Value: 100,
		Usage: "number of blocks to apply",
	}
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "path to a YAML file of calls to submit at given blocks",
	}
	maxCallWeightFlag = cli.Uint64Flag{
		Name:  "max-call-weight",
		Value: 2_000_000_000,
		Usage: "weight limit of a single call, 0 for none",
	}
	storeBlocksFlag = cli.BoolFlag{
		Name:  "store-blocks",
		Usage: "keep the calls and receipts of every block",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 64,
		Usage: "megabytes of ram allocated to the state database",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	// inspect and events
	eraFlag = cli.IntFlag{
		Name:  "era",
		Value: -1,
		Usage: "era to inspect, the current one if negative",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "account address",
	}
	kindFlag = cli.StringSliceFlag{
		Name:  "kind",
		Usage: "event kind, e.g. NewEra (repeatable)",
	}
	fromFlag = cli.Uint64Flag{
		Name:  "from",
		Usage: "first block of the range",
	}
	toFlag = cli.Uint64Flag{
		Name:  "to",
		Usage: "last block of the range, no bound if below from",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 100,
		Usage: "maximum number of events to print",
	}
	descFlag = cli.BoolFlag{
		Name:  "desc",
		Usage: "newest events first",
	}
)
