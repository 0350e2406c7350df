// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/lockuplabs/lockup/api"
	"github.com/lockuplabs/lockup/event"
	"github.com/lockuplabs/lockup/genesis"
	"github.com/lockuplabs/lockup/log"
	"github.com/lockuplabs/lockup/metrics"
	"github.com/lockuplabs/lockup/runtime"
	"github.com/lockuplabs/lockup/state"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
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
		Version:   fullVersion(),
		Name:      "Lockup",
		Usage:     "Token staking ledger daemon",
		Copyright: "2026 The Lockup developers",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			enableAPILogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		srv := startMetricsServer(ctx)
		defer func() { logger.Info("stopping metrics server..."); srv.Shutdown(context.Background()) }()
	}

	gene := selectGenesis(ctx)

	db := openDB(ctx)
	defer func() { logger.Info("closing database..."); db.Close() }()

	st := state.New(db)
	if err := gene.Apply(st); err != nil {
		return err
	}

	bus := event.NewBus()
	rt := runtime.New(st, bus)

	handler, closeSubs := api.New(rt, bus, gene, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	defer closeSubs()

	srv, apiURL := startAPIServer(ctx, handler)
	defer func() { logger.Info("stopping API server..."); srv.Shutdown(context.Background()) }()

	printStartupMessage(gene, apiURL)

	<-handleExitSignal()
	logger.Info("exit signal received")
	return nil
}

func startAPIServer(ctx *cli.Context, handler http.HandlerFunc) (*http.Server, string) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("API server stopped", "err", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/"
}

func startMetricsServer(ctx *cli.Context) *http.Server {
	addr := ctx.String(metricsAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen metrics addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: metrics.HTTPHandler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	logger.Info("metrics server started", "addr", listener.Addr().String())
	return srv
}

func printStartupMessage(gene *genesis.Genesis, apiURL string) {
	fmt.Printf(`Starting %v
    Version     %v
    Owner       %v
    Periods     %v
    API portal  %v
`,
		"Lockup",
		fullVersion(),
		gene.Owner(),
		gene.CommitmentPeriods(),
		apiURL,
	)
}
