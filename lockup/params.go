// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockup

// Constants of the staking protocol.
const (
	// SecondsPerMonth a fixed 30-day month approximation, not calendar-accurate.
	SecondsPerMonth uint64 = 30 * 24 * 60 * 60

	// SecondsPerYear used by the reward formula. Reward accrues per whole
	// elapsed year of lock period, fractions truncate to zero.
	SecondsPerYear uint64 = 365 * 24 * 60 * 60

	// PercentDivisor APR values are plain percentages.
	PercentDivisor uint64 = 100
)
