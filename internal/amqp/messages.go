package amqp

import (
	"encoding/json"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/remote"
)

// BudgetSavedMessage carries a saved budget to the archive worker. The
// budget travels as the flat wire map (income plus per-category amounts);
// derived totals are recomputed on the consuming side.
type BudgetSavedMessage struct {
	Budget    map[string]int64 `json:"budget"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewBudgetSavedMessage builds a message from a snapshot.
func NewBudgetSavedMessage(s core.Snapshot) *BudgetSavedMessage {
	return &BudgetSavedMessage{
		Budget:    remote.Encode(s),
		Timestamp: time.Now(),
	}
}

// Snapshot rebuilds the snapshot against reg, recomputing derived totals.
func (m *BudgetSavedMessage) Snapshot(reg *core.Registry) core.Snapshot {
	return remote.Decode(reg, m.Budget)
}

// ToJSON converts the message to JSON bytes.
func (m *BudgetSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetSavedMessageFromJSON creates a message from JSON bytes.
func BudgetSavedMessageFromJSON(data []byte) (*BudgetSavedMessage, error) {
	var msg BudgetSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
