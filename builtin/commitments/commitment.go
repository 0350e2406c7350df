// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitments

import (
	"math/big"

	"github.com/lockuplabs/lockup/lockup"
)

// Commitment is one staking record. All fields except Withdrawn are
// immutable once the record is appended.
type Commitment struct {
	Staker       lockup.Address `json:"staker"`
	Amount       *big.Int       `json:"amount"`
	PeriodMonths uint32         `json:"periodMonths"`
	StartTime    uint64         `json:"startTime"`
	EndTime      uint64         `json:"endTime"`
	Withdrawn    bool           `json:"withdrawn"`
}

// Matured reports whether the lock period has elapsed at the given
// time. The boundary is inclusive, a withdrawal exactly at EndTime
// succeeds.
func (c *Commitment) Matured(now uint64) bool {
	return now >= c.EndTime
}
