// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package event

// Type identifies a kind of ledger notification.
type Type string

const (
	TypeStaked          Type = "staked"
	TypeWithdrawn       Type = "withdrawn"
	TypeCommitmentAdded Type = "commitment_added"
	TypePolicyChanged   Type = "policy_changed"
	TypeBalanceUpdated  Type = "balance_updated"
)

// Event is a fire-and-forget notification emitted by the ledgers.
// Seq is assigned by the bus on publish, in global publish order.
type Event struct {
	Seq       uint64 `json:"seq"`
	Type      Type   `json:"type"`
	Timestamp uint64 `json:"timestamp"`
	Data      any    `json:"data"`
}

// New creates an event. Seq stays zero until the bus publishes it.
func New(eventType Type, timestamp uint64, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: timestamp,
		Data:      data,
	}
}
