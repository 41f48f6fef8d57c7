package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionRecorded  = "transaction.recorded"
	EventTransactionsImported = "transactions.imported"
)

// TransactionEvent announces a change to the ledger.
type TransactionEvent struct {
	Event     string    `json:"event"`
	Amount    string    `json:"amount,omitempty"`
	Type      string    `json:"type,omitempty"`
	Category  string    `json:"category,omitempty"`
	Date      string    `json:"date,omitempty"`
	Count     int       `json:"count"`
	Source    string    `json:"source,omitempty"` // import file
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordedEvent(amount, kind, category, date string) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventTransactionRecorded,
		Amount:    amount,
		Type:      kind,
		Category:  category,
		Date:      date,
		Count:     1,
		Timestamp: time.Now().UTC(),
	}
}

func NewImportedEvent(source string, count int) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventTransactionsImported,
		Count:     count,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
