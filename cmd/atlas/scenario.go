// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/dispatch"
	"github.com/schoollys/atlas2/staker/origin"
)

// scenario holds the calls to submit, by block number.
type scenario map[atlas.BlockNumber][]*dispatch.Call

func (s scenario) callsAt(n atlas.BlockNumber) []*dispatch.Call {
	return s[n]
}

type scenarioFile struct {
	Blocks []scenarioBlock `yaml:"blocks"`
}

type scenarioBlock struct {
	At    atlas.BlockNumber `yaml:"at"`
	Calls []scenarioCall    `yaml:"calls"`
}

type scenarioCall struct {
	Origin    string         `yaml:"origin"`
	Method    string         `yaml:"method"`
	Validator atlas.Address  `yaml:"validator"`
	Amount    atlas.Balance  `yaml:"amount"`
	Era       atlas.EraIndex `yaml:"era"`
}

func loadScenario(path string) (scenario, error) {
	if path == "" {
		return scenario{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (scenario, error) {
	var file scenarioFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}

	s := make(scenario)
	for _, b := range file.Blocks {
		if b.At == 0 {
			return nil, errors.New("scenario: block 0 is the genesis")
		}
		for i, c := range b.Calls {
			call, err := c.toCall()
			if err != nil {
				return nil, errors.Wrapf(err, "scenario: block %d call %d", b.At, i)
			}
			s[b.At] = append(s[b.At], call)
		}
	}
	return s, nil
}

func (c *scenarioCall) toCall() (*dispatch.Call, error) {
	o, err := origin.Parse(c.Origin)
	if err != nil {
		return nil, err
	}
	switch dispatch.Method(c.Method) {
	case dispatch.MethodRegisterValidator:
		return dispatch.RegisterValidator(o, c.Amount), nil
	case dispatch.MethodDeregisterValidator:
		return dispatch.DeregisterValidator(o), nil
	case dispatch.MethodDelegate:
		return dispatch.Delegate(o, c.Validator, c.Amount), nil
	case dispatch.MethodUndelegate:
		return dispatch.Undelegate(o, c.Validator, c.Amount), nil
	case dispatch.MethodIncreaseStake:
		return dispatch.IncreaseStake(o, c.Amount), nil
	case dispatch.MethodDecreaseStake:
		return dispatch.DecreaseStake(o, c.Amount), nil
	case dispatch.MethodWithdrawUnbonded:
		return dispatch.WithdrawUnbonded(o), nil
	case dispatch.MethodSlashValidator:
		return dispatch.SlashValidator(o, c.Validator, c.Amount), nil
	case dispatch.MethodSetReputation:
		return dispatch.SetReputation(o, c.Validator, c.Amount), nil
	case dispatch.MethodSetEraReward:
		return dispatch.SetEraReward(o, c.Era, c.Amount), nil
	default:
		return nil, errors.Errorf("unknown method %q", c.Method)
	}
}
