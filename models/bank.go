package models

import (
	"gorm.io/gorm"
)

// Transaction types. EARN and returned allocations add to the balance,
// WITHDRAW and ALLOCATE subtract; REDEEM consumes pot points without
// touching the balance.
const (
	TxEarn     = "EARN"
	TxWithdraw = "WITHDRAW"
	TxAllocate = "ALLOCATE"
	TxRedeem   = "REDEEM"
)

// BankAccount holds a user's point balance. Exactly one per user, created
// lazily on first access. The balance is always the signed sum of the
// account's transactions and never negative.
type BankAccount struct {
	gorm.Model
	UserID        uint `gorm:"uniqueIndex;not null" json:"user_id"`
	PointsBalance int  `gorm:"not null;default:0" json:"points_balance"`
}

// BankTransaction is an immutable, append-only ledger row. EarnDate is set
// only on EARN rows; the unique index on (bank_account_id, earn_date) is what
// enforces at-most-one-EARN-per-date, even under concurrent requests.
type BankTransaction struct {
	gorm.Model
	BankAccountID      uint    `gorm:"index;uniqueIndex:uniq_account_earn_date;not null" json:"bank_account_id"`
	Reference          string  `gorm:"uniqueIndex;not null" json:"reference"`
	Type               string  `gorm:"not null" json:"type"`
	Points             int     `gorm:"not null" json:"points"`
	CaloriesEquivalent int     `gorm:"not null" json:"calories_equivalent"` // derived at creation, never recomputed
	Note               string  `json:"note"`
	EarnDate           *string `gorm:"uniqueIndex:uniq_account_earn_date" json:"earn_date,omitempty"` // YYYY-MM-DD
	PotID              *uint   `json:"pot_id,omitempty"`
	Pot                *Pot    `json:"pot,omitempty"`
}
