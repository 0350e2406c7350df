// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/state"
)

// Context binds storage slots to a contract account.
type Context struct {
	address lockup.Address
	state   *state.State
}

func NewContext(address lockup.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() lockup.Address {
	return c.address
}
