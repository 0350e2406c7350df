// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/event"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/lvldb"
	"github.com/lockuplabs/lockup/state"
	"github.com/lockuplabs/lockup/xenv"
)

var (
	contractAddr = lockup.BytesToAddress([]byte("contract"))
	callerAddr   = lockup.BytesToAddress([]byte("caller"))
	storageKey   = lockup.BytesToBytes32([]byte("key"))
)

func newTestRuntime(t *testing.T) (*Runtime, *state.State, *event.Bus) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	bus := event.NewBus()
	return New(st, bus), st, bus
}

func TestCallCommitsAndPublishes(t *testing.T) {
	rt, st, bus := newTestRuntime(t)
	st.SetBalance(callerAddr, big.NewInt(10))
	require.NoError(t, st.Commit())

	_, ch := bus.Subscribe(event.TypeStaked)

	err := rt.Call(contractAddr, &xenv.CallContext{
		Caller: callerAddr,
		Value:  big.NewInt(10),
		Time:   1000,
	}, "stake", func(env *xenv.Environment) error {
		env.State().SetStorage(contractAddr, storageKey, lockup.BytesToBytes32([]byte{1}))
		env.Emit(event.TypeStaked, "payload")
		return nil
	})
	require.NoError(t, err)

	// attached value moved to the contract
	balance, err := st.GetBalance(contractAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), balance)

	stored, err := st.GetStorage(contractAddr, storageKey)
	require.NoError(t, err)
	assert.Equal(t, lockup.BytesToBytes32([]byte{1}), stored)

	select {
	case evt := <-ch:
		assert.Equal(t, "payload", evt.Data)
	default:
		t.Fatal("expected a published event")
	}
}

func TestCallRevertsOnError(t *testing.T) {
	rt, st, bus := newTestRuntime(t)
	st.SetBalance(callerAddr, big.NewInt(10))
	require.NoError(t, st.Commit())

	_, ch := bus.Subscribe()

	err := rt.Call(contractAddr, &xenv.CallContext{
		Caller: callerAddr,
		Value:  big.NewInt(10),
		Time:   1000,
	}, "stake", func(env *xenv.Environment) error {
		env.State().SetStorage(contractAddr, storageKey, lockup.BytesToBytes32([]byte{1}))
		env.Emit(event.TypeStaked, nil)
		return errors.New("boom")
	})
	require.Error(t, err)

	// the value transfer rolled back with everything else
	balance, err := st.GetBalance(callerAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), balance)

	stored, err := st.GetStorage(contractAddr, storageKey)
	require.NoError(t, err)
	assert.True(t, stored.IsZero())

	assert.Empty(t, ch, "no events published for a reverted call")
}

func TestCallRejectsUnfundedValue(t *testing.T) {
	rt, _, _ := newTestRuntime(t)

	err := rt.Call(contractAddr, &xenv.CallContext{
		Caller: callerAddr,
		Value:  big.NewInt(1),
	}, "stake", func(env *xenv.Environment) error {
		t.Fatal("handler must not run")
		return nil
	})
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	rt, st, _ := newTestRuntime(t)
	st.SetBalance(callerAddr, big.NewInt(7))
	require.NoError(t, st.Commit())

	var got *big.Int
	require.NoError(t, rt.Read(func(st *state.State) error {
		var err error
		got, err = st.GetBalance(callerAddr)
		return err
	}))
	assert.Equal(t, big.NewInt(7), got)
}
