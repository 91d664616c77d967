package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

// TransactionMessage carries a full transaction snapshot so consumers
// never have to read the primary store.
type TransactionMessage struct {
	Action        string          `json:"action"`
	TransactionID string          `json:"transaction_id"`
	OwnerID       string          `json:"owner_id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewTransactionMessage builds a message for the given action and transaction
func NewTransactionMessage(action string, t core.Transaction) *TransactionMessage {
	return &TransactionMessage{
		Action:        action,
		TransactionID: t.ID,
		OwnerID:       t.OwnerID,
		AccountID:     t.AccountID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Balance:       t.Balance,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON creates a message from JSON bytes
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
