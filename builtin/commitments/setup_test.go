// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitments

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/lvldb"
	"github.com/lockuplabs/lockup/state"
	"github.com/lockuplabs/lockup/xenv"
)

var (
	contractAddr = lockup.BytesToAddress([]byte("commitments"))
	ownerAddr    = lockup.BytesToAddress([]byte("owner"))
	aliceAddr    = lockup.BytesToAddress([]byte("alice"))
	bobAddr      = lockup.BytesToAddress([]byte("bob"))

	defaultPeriods = []uint32{3, 6, 12, 18}
)

func newTestLedger(t *testing.T) (*Ledger, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	ledger := New(contractAddr, st)
	require.NoError(t, ledger.Initialize(ownerAddr, defaultPeriods))
	return ledger, st
}

func newEnv(st *state.State, caller lockup.Address, value *big.Int, now uint64) *xenv.Environment {
	return xenv.New(contractAddr, st, &xenv.CallContext{
		Caller: caller,
		Value:  value,
		Time:   now,
	})
}

// stakeFor funds the staker, moves the attached value to the contract
// account the way the runtime does, then records the commitment.
func stakeFor(t *testing.T, ledger *Ledger, st *state.State, staker lockup.Address, amount int64, months uint32, now uint64) uint64 {
	value := big.NewInt(amount)
	balance, err := st.GetBalance(staker)
	require.NoError(t, err)
	st.SetBalance(staker, new(big.Int).Add(balance, value))
	require.NoError(t, st.Transfer(staker, contractAddr, value))

	index, err := ledger.Stake(newEnv(st, staker, value, now), months)
	require.NoError(t, err)
	return index
}

func mustBalance(t *testing.T, st *state.State, addr lockup.Address) *big.Int {
	balance, err := st.GetBalance(addr)
	require.NoError(t, err)
	return balance
}
