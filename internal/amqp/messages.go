package amqp

import (
	"encoding/json"
	"time"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// TransactionEvent tells the report worker that an income or expense row
// changed. It carries only the identity and the raw tanggal; the worker
// re-reads the full rows from the database before recomputing.
type TransactionEvent struct {
	Kind      core.TransactionKind `json:"kind"`
	ID        int64                `json:"id"`
	Action    string               `json:"action"`
	Tanggal   string               `json:"tanggal"`
	Timestamp time.Time            `json:"timestamp"`
}

func NewTransactionEvent(kind core.TransactionKind, id int64, action, tanggal string) *TransactionEvent {
	return &TransactionEvent{
		Kind:      kind,
		ID:        id,
		Action:    action,
		Tanggal:   tanggal,
		Timestamp: time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
