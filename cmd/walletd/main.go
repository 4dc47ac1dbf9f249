// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/xmrcore/walletcore/internal/address"
	"github.com/xmrcore/walletcore/internal/config"
	"github.com/xmrcore/walletcore/internal/daemon"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/logging"
	"github.com/xmrcore/walletcore/internal/metrics"
	"github.com/xmrcore/walletcore/internal/version"
	"github.com/xmrcore/walletcore/internal/wallet"
)

const programName = "walletd"

var cmdlineFlags struct {
	configFile          string
	version             bool
	passwordFile        string
	restoreMnemonicFile string
	restoreHeight       uint64
	create              bool
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.BoolVar(&cmdlineFlags.version, "version", false, "show version")
	flag.StringVar(&cmdlineFlags.passwordFile, "password-file", "", "path to a file holding the wallet password")
	flag.StringVar(&cmdlineFlags.restoreMnemonicFile, "restore-mnemonic-file", "", "path to a file holding a 25-word mnemonic to restore from")
	flag.Uint64Var(&cmdlineFlags.restoreHeight, "restore-height", 0, "block height to begin scanning from when restoring")
	flag.BoolVar(&cmdlineFlags.create, "create", false, "create a new wallet file if one doesn't already exist at the configured path")
	flag.Parse()

	if cmdlineFlags.version {
		fmt.Printf("%s %s\n", programName, version.GetVersionString())
		os.Exit(0)
	}

	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	logging.Configure()
	logger := logging.GetLogger()
	defer func() {
		if err := logger.Sync(); err != nil {
			return
		}
	}()

	met := metrics.New()

	mux := http.NewServeMux()
	mux.Handle("/metrics", met.Handler())
	if cfg.Debug.ListenPort > 0 {
		logger.Infof("starting debug listener on %s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort)
		go func() {
			addr := fmt.Sprintf("%s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Fatalf("failed to start debug listener: %s", err)
			}
		}()
	}

	network, err := parseNetwork(cfg.Network)
	if err != nil {
		logger.Fatalf("%s", err)
	}

	password, err := readPassword(cmdlineFlags.passwordFile)
	if err != nil {
		logger.Fatalf("failed to read wallet password: %s", err)
	}

	d := daemon.Instrument(daemon.NewHTTPDaemon(
		cfg.Daemon.URL,
		time.Duration(cfg.Daemon.TimeoutSeconds)*time.Second,
		daemonOptions(cfg)...,
	), met)

	w, err := openOrCreateWallet(cfg, network, d, met, password)
	if err != nil {
		logger.Fatalf("failed to open wallet: %s", err)
	}
	defer w.Close()

	primary, err := w.PrimaryAddress()
	if err != nil {
		logger.Fatalf("failed to derive primary address: %s", err)
	}
	logger.Infof("wallet opened, primary address %s", primary)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	w.StartSync(ctx)
	go logSyncEvents(logger, w)

	<-ctx.Done()
	logger.Info("shutting down")
	w.StopSync()
}

func daemonOptions(cfg *config.Config) []daemon.HTTPDaemonOption {
	var opts []daemon.HTTPDaemonOption
	if cfg.Daemon.Username != "" {
		opts = append(opts, daemon.WithBasicAuth(cfg.Daemon.Username, cfg.Daemon.Password))
	}
	if cfg.Sync.MaxRetries > 0 {
		opts = append(opts, daemon.WithMaxRetries(uint64(cfg.Sync.MaxRetries)))
	}
	return opts
}

func parseNetwork(name string) (address.Network, error) {
	switch name {
	case "mainnet":
		return address.Mainnet, nil
	case "stagenet":
		return address.Stagenet, nil
	case "testnet":
		return address.Testnet, nil
	default:
		return 0, fmt.Errorf("unknown network name: %s", name)
	}
}

func readPassword(path string) ([]byte, error) {
	if path == "" {
		if v := os.Getenv("WALLETCORE_PASSWORD"); v != "" {
			return []byte(v), nil
		}
		return nil, fmt.Errorf("no -password-file given and WALLETCORE_PASSWORD is unset")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimRight(string(b), "\r\n")), nil
}

func openOrCreateWallet(cfg *config.Config, network address.Network, d daemon.Daemon, met *metrics.Metrics, password []byte) (*wallet.Wallet, error) {
	path := cfg.Storage.Path
	if _, err := os.Stat(path); err == nil {
		return wallet.Open(path, password, network, d, cfg, met)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if cmdlineFlags.restoreMnemonicFile != "" {
		b, err := os.ReadFile(cmdlineFlags.restoreMnemonicFile)
		if err != nil {
			return nil, err
		}
		phrase := strings.TrimSpace(string(b))
		return wallet.Restore(path, password, phrase, network, d, cfg, met, cmdlineFlags.restoreHeight)
	}

	if !cmdlineFlags.create {
		return nil, fmt.Errorf("no wallet file at %s (pass -create or -restore-mnemonic-file)", path)
	}

	w, seed, err := wallet.Create(path, password, network, d, cfg, met)
	if err != nil {
		return nil, err
	}
	fmt.Printf("New wallet created. Write down this mnemonic; it will not be shown again:\n\n%s\n\n",
		keychain.Mnemonic(seed))
	return w, nil
}

func logSyncEvents(logger interface{ Infof(string, ...any) }, w *wallet.Wallet) {
	for ev := range w.SyncEvents() {
		logger.Infof("sync event: %+v", ev)
	}
}
