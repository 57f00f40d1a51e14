package domain

import "time"

type TransactionType string

const (
	TransactionPurchase  TransactionType = "purchase"
	TransactionDeduction TransactionType = "deduction"
	TransactionRefund    TransactionType = "refund"
	TransactionManual    TransactionType = "manual"
)

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted; the sum of a user's amounts must equal the user's balance.
type Transaction struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id" gorm:"index;not null"`
	Type           TransactionType `json:"type" gorm:"type:varchar(20);not null"`
	Amount         int             `json:"amount"`
	Description    string          `json:"description"`
	SubscriptionID *int64          `json:"subscription_id,omitempty"`
	BookingID      *int64          `json:"booking_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
