// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package singleslot

import (
	"math/big"

	"github.com/lockuplabs/lockup/lockup"
)

// StakedEvent notifies a filled slot.
type StakedEvent struct {
	Staker     lockup.Address `json:"staker"`
	Amount     *big.Int       `json:"amount"`
	LockPeriod uint64         `json:"lockPeriod"`
	APR        uint32         `json:"apr"`
	StartTime  uint64         `json:"startTime"`
}

// WithdrawnEvent notifies a cleared slot.
type WithdrawnEvent struct {
	Staker lockup.Address `json:"staker"`
	Amount *big.Int       `json:"amount"`
	Reward *big.Int       `json:"reward"`
}

// BalanceUpdatedEvent notifies a change of the contract account's
// funds. Amount is negative on outflow.
type BalanceUpdatedEvent struct {
	Account lockup.Address `json:"account"`
	Amount  *big.Int       `json:"amount"`
}
