// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/schoollys/atlas2/chain"
	"github.com/schoollys/atlas2/genesis"
	"github.com/schoollys/atlas2/log"
	"github.com/schoollys/atlas2/logdb"
	"github.com/schoollys/atlas2/lvldb"
	"github.com/schoollys/atlas2/metrics"
)

const (
	mainDBName = "main.db"
	logDBName  = "logs.db"
)

func initLogger(ctx *cli.Context) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

// selectGenesis returns the genesis given by flags, nil if none is.
func selectGenesis(ctx *cli.Context) (*genesis.Config, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.Load(path)
	}
	if n := ctx.Int(devnetFlag.Name); n > 0 {
		return genesis.NewDevnet(n), nil
	}
	return nil, nil
}

// openChain opens the chain in the data dir, or in memory if no dir is given.
func openChain(ctx *cli.Context, gen *genesis.Config) (*chain.Chain, *logdb.LogDB, func(), error) {
	var (
		mainDB *lvldb.LevelDB
		logDB  *logdb.LogDB
		err    error
	)
	if dir := ctx.String(dataDirFlag.Name); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, nil, nil, errors.Wrap(err, "create data dir")
		}
		if mainDB, err = lvldb.New(filepath.Join(dir, mainDBName), lvldb.Options{
			CacheSize:              ctx.Int(cacheFlag.Name),
			OpenFilesCacheCapacity: 64,
		}); err != nil {
			return nil, nil, nil, err
		}
		if logDB, err = logdb.New(filepath.Join(dir, logDBName)); err != nil {
			mainDB.Close()
			return nil, nil, nil, errors.Wrap(err, "open log db")
		}
	} else {
		if mainDB, err = lvldb.NewMem(); err != nil {
			return nil, nil, nil, err
		}
		if logDB, err = logdb.NewMem(); err != nil {
			mainDB.Close()
			return nil, nil, nil, err
		}
	}
	closeAll := func() {
		logger.Info("closing log database...")
		logDB.Close()
		logger.Info("closing main database...")
		mainDB.Close()
	}

	c, err := chain.Open(mainDB, logDB, gen, chain.Options{
		MaxCallWeight:  ctx.Uint64(maxCallWeightFlag.Name),
		StateCacheSize: 4096,
		StoreBlocks:    ctx.Bool(storeBlocksFlag.Name),
	})
	if err != nil {
		closeAll()
		return nil, nil, nil, err
	}
	return c, logDB, closeAll, nil
}

// requireDataDir returns the path of name in the data dir, which must already exist.
func requireDataDir(ctx *cli.Context, name string) (string, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return "", errors.Errorf("--%s is required", dataDirFlag.Name)
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(err, "no %s in %s", name, dir)
	}
	return path, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// serveMetrics serves the metrics on listener until ctx is done.
func serveMetrics(ctx context.Context, listener net.Listener) error {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	srv := &http.Server{
		Handler:           handlers.CompressHandler(router),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve metrics")
	}
	return nil
}

func listenMetrics(addr string) (net.Listener, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	return listener, fmt.Sprintf("http://%v/metrics", listener.Addr()), nil
}
