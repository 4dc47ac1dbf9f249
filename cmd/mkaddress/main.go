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
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/xmrcore/walletcore/internal/address"
	"github.com/xmrcore/walletcore/internal/keychain"
)

var cmdlineFlags struct {
	mnemonic string
	seedHex  string
	network  string
	major    uint
	minor    uint
}

func main() {
	flag.StringVar(&cmdlineFlags.mnemonic, "mnemonic", "", "25-word mnemonic to derive from")
	flag.StringVar(&cmdlineFlags.seedHex, "seed-hex", "", "hex-encoded 32-byte seed to derive from, instead of -mnemonic")
	flag.StringVar(&cmdlineFlags.network, "network", "mainnet", "network to generate the address for (mainnet, stagenet, testnet)")
	flag.UintVar(&cmdlineFlags.major, "major", 0, "account index")
	flag.UintVar(&cmdlineFlags.minor, "minor", 0, "subaddress index within the account")
	flag.Parse()

	if cmdlineFlags.mnemonic == "" && cmdlineFlags.seedHex == "" {
		fmt.Printf("ERROR: you must specify -mnemonic or -seed-hex\n")
		os.Exit(1)
	}

	network, err := parseNetwork(cmdlineFlags.network)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	seed, err := resolveSeed()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	keys, err := keychain.FromSeed(seed)
	if err != nil {
		fmt.Printf("ERROR: failed to derive keys from seed: %s\n", err)
		os.Exit(1)
	}

	sub, err := keychain.DeriveSubaddress(keys, uint32(cmdlineFlags.major), uint32(cmdlineFlags.minor))
	if err != nil {
		fmt.Printf("ERROR: failed to derive subaddress %d/%d: %s\n", cmdlineFlags.major, cmdlineFlags.minor, err)
		os.Exit(1)
	}

	kind := address.Standard
	if cmdlineFlags.major != 0 || cmdlineFlags.minor != 0 {
		kind = address.Subaddress
	}
	addr := address.Encode(address.Address{
		Network:  network,
		Kind:     kind,
		PubSpend: sub.PubSpend,
		PubView:  sub.PubView,
	})

	fmt.Printf("Account:          %d/%d\n", cmdlineFlags.major, cmdlineFlags.minor)
	fmt.Printf("Public spend key: %s\n", hex.EncodeToString(sub.PubSpend[:]))
	fmt.Printf("Public view key:  %s\n", hex.EncodeToString(sub.PubView[:]))
	fmt.Printf("Address:          %s\n", addr)
}

func resolveSeed() ([32]byte, error) {
	if cmdlineFlags.seedHex != "" {
		b, err := hex.DecodeString(cmdlineFlags.seedHex)
		if err != nil {
			return [32]byte{}, fmt.Errorf("decode -seed-hex: %w", err)
		}
		if len(b) != 32 {
			return [32]byte{}, fmt.Errorf("-seed-hex must decode to 32 bytes, got %d", len(b))
		}
		var seed [32]byte
		copy(seed[:], b)
		return seed, nil
	}
	seed, _, err := keychain.FromMnemonic(cmdlineFlags.mnemonic)
	if err != nil {
		return [32]byte{}, fmt.Errorf("decode -mnemonic: %w", err)
	}
	return seed, nil
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
		return 0, fmt.Errorf("unknown named network: %s", name)
	}
}
