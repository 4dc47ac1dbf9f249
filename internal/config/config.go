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

// Package config loads and holds the wallet daemon's runtime
// configuration: a YAML file overlaid with environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Logging       LoggingConfig `yaml:"logging"`
	Debug         DebugConfig   `yaml:"debug"`
	Daemon        DaemonConfig  `yaml:"daemon"`
	Storage       StorageConfig `yaml:"storage"`
	Sync          SyncConfig    `yaml:"sync"`
	UTXO          UTXOConfig    `yaml:"utxo"`
	Decoy         DecoyConfig   `yaml:"decoy"`
	KDF           KDFConfig     `yaml:"kdf"`
	Network       string        `yaml:"network" envconfig:"NETWORK"`
	ListenAddress string        `yaml:"listenAddress" envconfig:"LISTEN_ADDRESS"`
	ListenPort    uint          `yaml:"port" envconfig:"PORT"`
}

type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
}

type DebugConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DEBUG_ADDRESS"`
	ListenPort    uint   `yaml:"port" envconfig:"DEBUG_PORT"`
}

// DaemonConfig addresses the monerod JSON-RPC/HTTP collaborator
// (spec.md §6.2).
type DaemonConfig struct {
	URL            string `yaml:"url" envconfig:"DAEMON_URL"`
	Username       string `yaml:"username" envconfig:"DAEMON_USERNAME"`
	Password       string `yaml:"password" envconfig:"DAEMON_PASSWORD"`
	TimeoutSeconds uint   `yaml:"timeoutSeconds" envconfig:"DAEMON_TIMEOUT_SECONDS"`
}

type StorageConfig struct {
	// Path is the single encrypted wallet document (spec.md §4.10,
	// §6.3), not a directory.
	Path string `yaml:"path" envconfig:"STORAGE_PATH"`
	// CacheDirectory holds the disposable, unencrypted block-hash/daemon
	// response cache (internal/synccache).
	CacheDirectory string `yaml:"cacheDir" envconfig:"STORAGE_CACHE_DIR"`
}

// SyncConfig tunes the block-fetch batching and retry behavior of
// internal/sync (spec.md §4.11).
type SyncConfig struct {
	BatchSize        uint `yaml:"batchSize" envconfig:"SYNC_BATCH_SIZE"`
	MaxRetries       uint `yaml:"maxRetries" envconfig:"SYNC_MAX_RETRIES"`
	ReorgScanDepth   uint `yaml:"reorgScanDepth" envconfig:"SYNC_REORG_SCAN_DEPTH"`
	ThrottleMillis   uint `yaml:"throttleMillis" envconfig:"SYNC_THROTTLE_MILLIS"`
	AutoRetry        bool `yaml:"autoRetry" envconfig:"SYNC_AUTO_RETRY"`
	RetryDelayMillis uint `yaml:"retryDelayMillis" envconfig:"SYNC_RETRY_DELAY_MILLIS"`
}

// UTXOConfig holds the default coin-selection policy (spec.md §4.6).
type UTXOConfig struct {
	DefaultStrategy  string `yaml:"defaultStrategy" envconfig:"UTXO_DEFAULT_STRATEGY"`
	MinConfirmations uint   `yaml:"minConfirmations" envconfig:"UTXO_MIN_CONFIRMATIONS"`
}

// DecoyConfig holds the ring-selection policy (spec.md §4.7).
type DecoyConfig struct {
	MinAge     uint `yaml:"minAge" envconfig:"DECOY_MIN_AGE"`
	AttemptCap uint `yaml:"attemptCap" envconfig:"DECOY_ATTEMPT_CAP"`
}

// KDFConfig holds Argon2id cost parameters (spec.md §9's open KDF
// question). internal/aead does not read them: it seals the wallet file
// with its own fixed cost constants.
type KDFConfig struct {
	TimeCost    uint `yaml:"timeCost" envconfig:"KDF_TIME_COST"`
	MemoryKiB   uint `yaml:"memoryKiB" envconfig:"KDF_MEMORY_KIB"`
	Parallelism uint `yaml:"parallelism" envconfig:"KDF_PARALLELISM"`
}

// validNetworks are the network names the wallet accepts (spec.md §3's
// address-prefix table).
var validNetworks = map[string]bool{
	"mainnet":  true,
	"stagenet": true,
	"testnet":  true,
}

// Singleton config instance with default values
var globalConfig = &Config{
	Network:    "mainnet",
	ListenPort: 18082,
	Logging: LoggingConfig{
		Level: "info",
	},
	Debug: DebugConfig{
		ListenAddress: "localhost",
		ListenPort:    0,
	},
	Daemon: DaemonConfig{
		URL:            "http://127.0.0.1:18081",
		TimeoutSeconds: 30,
	},
	Storage: StorageConfig{
		Path:           "./wallet.keys",
		CacheDirectory: "./.walletcore-cache",
	},
	Sync: SyncConfig{
		BatchSize:        100,
		MaxRetries:       5,
		ReorgScanDepth:   100,
		ThrottleMillis:   0,
		AutoRetry:        true,
		RetryDelayMillis: 5000,
	},
	UTXO: UTXOConfig{
		DefaultStrategy:  "smallest_first",
		MinConfirmations: 10,
	},
	Decoy: DecoyConfig{
		MinAge:     10,
		AttemptCap: 100,
	},
	KDF: KDFConfig{
		TimeCost:    3,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
	},
}

// Load reads configFile (if given) as YAML over the defaults, then
// overlays environment variables, and validates the result.
func Load(configFile string) (*Config, error) {
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %s", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %s", err)
		}
	}
	// We use "dummy" as the app name here to (mostly) prevent picking up
	// env vars that we hadn't explicitly specified in annotations above
	if err := envconfig.Process("dummy", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %s", err)
	}
	if !validNetworks[globalConfig.Network] {
		return nil, fmt.Errorf("unknown network name: %s", globalConfig.Network)
	}
	return globalConfig, nil
}

// GetConfig returns the global config instance.
func GetConfig() *Config {
	return globalConfig
}
