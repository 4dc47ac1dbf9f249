package config

import "testing"

func TestLoadRejectsUnknownNetwork(t *testing.T) {
	globalConfig.Network = "not-a-real-network"
	defer func() { globalConfig.Network = "mainnet" }()

	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for an unknown network name")
	}
}

func TestLoadAcceptsDefaults(t *testing.T) {
	globalConfig.Network = "mainnet"
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Daemon.URL == "" {
		t.Fatalf("expected a default daemon URL")
	}
	if cfg.Storage.Path == "" {
		t.Fatalf("expected a default wallet storage path")
	}
}
