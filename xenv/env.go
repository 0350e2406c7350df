// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/lockuplabs/lockup/event"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/state"
)

// CallContext carries the host-supplied facts of one call: the
// authenticated caller, the attached value and the clock reading. The
// ledger trusts all of them completely.
type CallContext struct {
	Caller lockup.Address
	Value  *big.Int
	Time   uint64
}

// Environment an env to execute a contract operation.
// It collects emitted notifications, the runtime publishes them only
// after the call commits.
type Environment struct {
	contract lockup.Address
	state    *state.State
	callCtx  *CallContext
	events   []event.Event
}

// New create a new env.
func New(contract lockup.Address, state *state.State, callCtx *CallContext) *Environment {
	if callCtx.Value == nil {
		callCtx.Value = new(big.Int)
	}
	return &Environment{
		contract: contract,
		state:    state,
		callCtx:  callCtx,
	}
}

func (env *Environment) State() *state.State       { return env.state }
func (env *Environment) CallContext() *CallContext { return env.callCtx }
func (env *Environment) Caller() lockup.Address    { return env.callCtx.Caller }
func (env *Environment) To() lockup.Address        { return env.contract }
func (env *Environment) Value() *big.Int           { return env.callCtx.Value }

// Now returns the host clock reading for this call.
func (env *Environment) Now() uint64 { return env.callCtx.Time }

// Transfer moves funds between accounts within the call's state.
func (env *Environment) Transfer(from, to lockup.Address, amount *big.Int) error {
	return env.state.Transfer(from, to, amount)
}

// Emit records a notification. Events are fire-and-forget, never read
// back by the ledger.
func (env *Environment) Emit(eventType event.Type, data any) {
	env.events = append(env.events, event.New(eventType, env.callCtx.Time, data))
}

// Events returns the notifications emitted so far.
func (env *Environment) Events() []event.Event {
	return env.events
}
