// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/builtin"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/lvldb"
	"github.com/lockuplabs/lockup/state"
)

const testConfig = `
owner: "0x0000000000000000000000000000000000000abc"
commitments:
  periods: [3, 6, 18]
singleSlot:
  lockPeriodsMonths: [12, 24]
allocations:
  - address: "0x0000000000000000000000000000000000000001"
    balance: "1000"
`

func TestFromYAML(t *testing.T) {
	g, err := FromYAML(strings.NewReader(testConfig))
	require.NoError(t, err)

	assert.Equal(t, lockup.MustParseAddress("0x0000000000000000000000000000000000000abc"), g.Owner())
	assert.Equal(t, []uint32{3, 6, 18}, g.CommitmentPeriods())
	assert.Equal(t, []uint64{12 * lockup.SecondsPerMonth, 24 * lockup.SecondsPerMonth}, g.SingleSlotLockPeriods())
}

func TestFromConfigRejections(t *testing.T) {
	_, err := FromConfig(&Config{Owner: "not-an-address"})
	assert.Error(t, err)

	_, err = FromConfig(&Config{Owner: "0x0000000000000000000000000000000000000000"})
	assert.Error(t, err)

	_, err = FromYAML(strings.NewReader(`owner: "0x0000000000000000000000000000000000000abc"`))
	assert.Error(t, err, "empty period sets are rejected")
}

func TestApply(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db)

	g, err := FromYAML(strings.NewReader(testConfig))
	require.NoError(t, err)
	require.NoError(t, g.Apply(st))

	ledger := builtin.Commitments.WithState(st)
	owner, err := ledger.Owner()
	require.NoError(t, err)
	assert.Equal(t, g.Owner(), owner)

	ok, err := ledger.IsStakingPeriodValid(18)
	require.NoError(t, err)
	assert.True(t, ok)

	balance, err := st.GetBalance(lockup.MustParseAddress("0x0000000000000000000000000000000000000001"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), balance)

	// a second apply is a no-op
	require.NoError(t, g.Apply(st))
	count, err := ledger.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestApplyOwnerMismatch(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db)

	g, err := FromYAML(strings.NewReader(testConfig))
	require.NoError(t, err)
	require.NoError(t, g.Apply(st))

	// a config naming a different owner must fail at startup instead of
	// silently keeping the stored one
	other, err := FromYAML(strings.NewReader(strings.Replace(testConfig, "abc", "def", 1)))
	require.NoError(t, err)
	err = other.Apply(st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differs from configured owner")
}

func TestDefault(t *testing.T) {
	g := Default()
	assert.False(t, g.Owner().IsZero())
	assert.NotEmpty(t, g.CommitmentPeriods())
	assert.NotEmpty(t, g.SingleSlotLockPeriods())
}
