// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitments

import (
	"math/big"

	"github.com/lockuplabs/lockup/lockup"
)

// StakedEvent notifies a new commitment.
type StakedEvent struct {
	Staker       lockup.Address `json:"staker"`
	Amount       *big.Int       `json:"amount"`
	PeriodMonths uint32         `json:"periodMonths"`
	Index        uint64         `json:"index"`
	StartTime    uint64         `json:"startTime"`
	EndTime      uint64         `json:"endTime"`
}

// CommitmentAddedEvent notifies the position a new commitment took in
// the global sequence.
type CommitmentAddedEvent struct {
	Index uint64 `json:"index"`
}

// WithdrawnEvent notifies a completed withdrawal.
type WithdrawnEvent struct {
	Staker lockup.Address `json:"staker"`
	Amount *big.Int       `json:"amount"`
	Index  uint64         `json:"index"`
}

// PolicyChangedEvent carries the cardinality of the new period set,
// deliberately not its contents.
type PolicyChangedEvent struct {
	Size uint64 `json:"size"`
}

// BalanceUpdatedEvent notifies a treasury balance move.
type BalanceUpdatedEvent struct {
	Account lockup.Address `json:"account"`
	Amount  *big.Int       `json:"amount"`
}
