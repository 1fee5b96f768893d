package config

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const DefaultNetwork = "testnet"

//go:embed networks.toml
var networksTOML string

// NetworkProfile holds the defaults of one Stellar network.
type NetworkProfile struct {
	Name                  string   `toml:"-" json:"name"`
	WalletNetwork         string   `toml:"wallet_network" json:"wallet_network"`
	Passphrase            string   `toml:"passphrase" json:"passphrase"`
	RPCURLs               []string `toml:"rpc_urls" json:"rpc_urls"`
	LocalRPCURL           string   `toml:"local_rpc_url" json:"local_rpc_url"`
	ContractID            string   `toml:"contract_id" json:"contract_id"`
	ServiceFeeDestination string   `toml:"service_fee_destination" json:"service_fee_destination"`
	MinRPCVersion         string   `toml:"min_rpc_version" json:"min_rpc_version"`
}

var ErrUnknownNetwork = errors.New("unknown network")

// NetworkProfiles decodes the bundled network profiles.
func NetworkProfiles() (map[string]NetworkProfile, error) {
	profiles := map[string]NetworkProfile{}

	md, err := toml.Decode(networksTOML, &profiles)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode network profiles")
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown network profile keys: %v", undecoded)
	}

	for name, p := range profiles {
		p.Name = name
		profiles[name] = p
	}

	return profiles, nil
}

// LookupNetwork returns the profile called name (case-insensitive).
func LookupNetwork(name string) (NetworkProfile, error) {
	profiles, err := NetworkProfiles()
	if err != nil {
		return NetworkProfile{}, err
	}

	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(profiles))
		for n := range profiles {
			names = append(names, n)
		}
		sort.Strings(names)

		return NetworkProfile{}, errors.Wrapf(ErrUnknownNetwork, "%q, expected one of %s", name, strings.Join(names, ", "))
	}

	return p, nil
}
