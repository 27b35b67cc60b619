// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker"
)

// Config is user customized genesis.
type Config struct {
	Params          staker.Params  `yaml:"params"`
	IssuanceCeiling *atlas.Balance `yaml:"issuance-ceiling,omitempty"`
	Accounts        []Account      `yaml:"accounts"`
	Validators      []Validator    `yaml:"validators"`
	Delegations     []Delegation   `yaml:"delegations"`
	Rewards         []EraReward    `yaml:"rewards"`
}

// Account is an endowed account.
type Account struct {
	Address atlas.Address `yaml:"address"`
	Balance atlas.Balance `yaml:"balance"`
}

// Validator is registered at genesis, so it is selected for era 0.
type Validator struct {
	Address    atlas.Address `yaml:"address"`
	Stake      atlas.Balance `yaml:"stake"`
	Reputation atlas.Balance `yaml:"reputation"`
}

type Delegation struct {
	Delegator atlas.Address `yaml:"delegator"`
	Validator atlas.Address `yaml:"validator"`
	Amount    atlas.Balance `yaml:"amount"`
}

// EraReward is a reward pool recorded for a single era, on top of params.era-reward.
type EraReward struct {
	Era    atlas.EraIndex `yaml:"era"`
	Amount atlas.Balance  `yaml:"amount"`
}

// Load reads the config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes a YAML config, rejecting unknown fields, and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode returns the YAML form of the config.
func (c *Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}

// ID identifies the genesis, so that a data dir is never reused with another one.
func (c *Config) ID() (atlas.Bytes32, error) {
	data, err := c.Encode()
	if err != nil {
		return atlas.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return atlas.Blake2b(data), nil
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return errors.Wrap(err, "params")
	}

	validators := make(map[atlas.Address]bool, len(c.Validators))
	for _, v := range c.Validators {
		if validators[v.Address] {
			return errors.Errorf("validator %v: listed twice", v.Address)
		}
		validators[v.Address] = true
		if v.Stake.Lt(c.Params.MinValidatorStake) {
			return errors.Errorf("validator %v: stake %v below minimum %v", v.Address, v.Stake, c.Params.MinValidatorStake)
		}
	}
	for _, d := range c.Delegations {
		if !validators[d.Validator] {
			return errors.Errorf("delegation of %v: %v is not a genesis validator", d.Delegator, d.Validator)
		}
		if d.Amount.Lt(c.Params.MinDelegationStake) {
			return errors.Errorf("delegation of %v: amount %v below minimum %v", d.Delegator, d.Amount, c.Params.MinDelegationStake)
		}
	}
	return nil
}
