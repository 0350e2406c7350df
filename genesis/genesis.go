// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial ledger state from a deployment
// config.
package genesis

import (
	"io"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lockuplabs/lockup/builtin"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/log"
	"github.com/lockuplabs/lockup/state"
)

var logger = log.WithContext("pkg", "genesis")

// Config is the YAML shape of a deployment.
type Config struct {
	Owner       string `yaml:"owner"`
	Commitments struct {
		Periods []uint32 `yaml:"periods"`
	} `yaml:"commitments"`
	SingleSlot struct {
		LockPeriodsMonths []uint32 `yaml:"lockPeriodsMonths"`
	} `yaml:"singleSlot"`
	Allocations []Allocation `yaml:"allocations"`
}

// Allocation funds one account at genesis. Balance is a decimal
// string.
type Allocation struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

type allocation struct {
	address lockup.Address
	balance *big.Int
}

// Genesis is a validated deployment config.
type Genesis struct {
	owner       lockup.Address
	periods     []uint32
	lockPeriods []uint64
	allocations []allocation
}

// devOwner is the well-known owner of the development deployment.
const devOwner = "0x000000000000000000006c6f636b75702d646576"

// Default returns the development deployment: the standard period set
// for both ledgers and a fixed owner.
func Default() *Genesis {
	g, err := FromConfig(&Config{
		Owner: devOwner,
		Commitments: struct {
			Periods []uint32 `yaml:"periods"`
		}{Periods: []uint32{3, 6, 12, 18}},
		SingleSlot: struct {
			LockPeriodsMonths []uint32 `yaml:"lockPeriodsMonths"`
		}{LockPeriodsMonths: []uint32{3, 6, 12, 18}},
	})
	if err != nil {
		panic(err)
	}
	return g
}

// FromYAML reads and validates a deployment config.
func FromYAML(r io.Reader) (*Genesis, error) {
	var config Config
	if err := yaml.NewDecoder(r).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode genesis config")
	}
	return FromConfig(&config)
}

// LoadFile reads a deployment config from disk.
func LoadFile(path string) (*Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open genesis file")
	}
	defer f.Close()
	return FromYAML(f)
}

// FromConfig validates a parsed config.
func FromConfig(config *Config) (*Genesis, error) {
	owner, err := lockup.ParseAddress(config.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid owner address")
	}
	if owner.IsZero() {
		return nil, errors.New("owner must not be zero")
	}
	if len(config.Commitments.Periods) == 0 {
		return nil, errors.New("commitment periods must not be empty")
	}
	if len(config.SingleSlot.LockPeriodsMonths) == 0 {
		return nil, errors.New("single-slot lock periods must not be empty")
	}

	lockPeriods := make([]uint64, 0, len(config.SingleSlot.LockPeriodsMonths))
	for _, months := range config.SingleSlot.LockPeriodsMonths {
		lockPeriods = append(lockPeriods, uint64(months)*lockup.SecondsPerMonth)
	}

	allocations := make([]allocation, 0, len(config.Allocations))
	for _, a := range config.Allocations {
		addr, err := lockup.ParseAddress(a.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid allocation address %q", a.Address)
		}
		balance, ok := new(big.Int).SetString(a.Balance, 10)
		if !ok || balance.Sign() < 0 {
			return nil, errors.Errorf("invalid allocation balance %q", a.Balance)
		}
		allocations = append(allocations, allocation{address: *addr, balance: balance})
	}

	return &Genesis{
		owner:       *owner,
		periods:     config.Commitments.Periods,
		lockPeriods: lockPeriods,
		allocations: allocations,
	}, nil
}

// Owner returns the deployment owner.
func (g *Genesis) Owner() lockup.Address {
	return g.owner
}

// CommitmentPeriods returns the initial commitment-ledger policy.
func (g *Genesis) CommitmentPeriods() []uint32 {
	return g.periods
}

// SingleSlotLockPeriods returns the single-slot lock set in seconds.
func (g *Genesis) SingleSlotLockPeriods() []uint64 {
	return g.lockPeriods
}

// Apply initializes an empty state with the deployment. Applying to an
// already initialized state verifies the stored owner, so a daemon
// restart is harmless but a config pointed at the wrong data dir fails
// at startup.
func (g *Genesis) Apply(st *state.State) error {
	ledger := builtin.Commitments.WithState(st)
	owner, err := ledger.Owner()
	if err != nil {
		return err
	}
	if !owner.IsZero() {
		if owner != g.owner {
			return errors.Errorf("stored owner %v differs from configured owner %v", owner, g.owner)
		}
		return nil
	}

	if err := ledger.Initialize(g.owner, g.periods); err != nil {
		return errors.Wrap(err, "failed to initialize commitment ledger")
	}
	for _, a := range g.allocations {
		st.SetBalance(a.address, a.balance)
	}
	if err := st.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit genesis state")
	}
	logger.Info("genesis applied", "owner", g.owner, "periods", len(g.periods), "allocations", len(g.allocations))
	return nil
}
