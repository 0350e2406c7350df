// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin holds the well-known addresses of the ledger
// contracts and their state bindings.
package builtin

import (
	"github.com/lockuplabs/lockup/builtin/commitments"
	"github.com/lockuplabs/lockup/builtin/singleslot"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/state"
)

// Contract addresses binding.
var (
	Commitments = &commitmentsContract{contract{lockup.BytesToAddress([]byte("lockup-commitments"))}}
	SingleSlot  = &singleSlotContract{contract{lockup.BytesToAddress([]byte("lockup-singleslot"))}}
)

type contract struct {
	Address lockup.Address
}

type (
	commitmentsContract struct{ contract }
	singleSlotContract  struct{ contract }
)

func (c *commitmentsContract) WithState(st *state.State) *commitments.Ledger {
	return commitments.New(c.Address, st)
}

func (c *singleSlotContract) WithState(st *state.State, owner lockup.Address, lockPeriods []uint64) *singleslot.Ledger {
	return singleslot.New(c.Address, st, owner, lockPeriods)
}
