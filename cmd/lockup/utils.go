// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/lockuplabs/lockup/genesis"
	"github.com/lockuplabs/lockup/kv"
	"github.com/lockuplabs/lockup/log"
	"github.com/lockuplabs/lockup/lvldb"
)

func fatal(args ...any) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	var lvl slog.LevelVar
	lvl.Set(level)
	useColor := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewTerminalHandlerWithLevel(os.Stderr, &lvl, useColor))
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.Default()
	}
	gene, err := genesis.LoadFile(path)
	if err != nil {
		fatal(err)
	}
	return gene
}

func openDB(ctx *cli.Context) kv.GetPutCloser {
	if ctx.Bool(memFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			fatal(err)
		}
		return db
	}
	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(err)
	}
	db, err := lvldb.New(filepath.Join(dataDir, "ledger.db"), lvldb.Options{})
	if err != nil {
		fatal(err)
	}
	return db
}

func handleExitSignal() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.lockuplabs.lockup")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.lockuplabs.lockup")
		}
		return filepath.Join(home, ".org.lockuplabs.lockup")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
