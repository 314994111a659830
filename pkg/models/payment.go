package models

import (
	"time"

	"github.com/luminshop/payments/pkg/migration"
)

type PaymentAttempt struct {
	ID             uint   `gorm:"primaryKey"`
	Channel        string `gorm:"size:32"`         // direct, step_up, hosted_form, hosted_wallet, hosted_wallet_quick
	ConversationID string `gorm:"size:64;index"`   // 我方关联ID
	TransactionID  string `gorm:"size:100;index"`  // 网关支付ID或表单token
	SessionID      string `gorm:"size:64"`
	Amount         int64  `gorm:"not null"`        // 金额（分）
	Currency       string `gorm:"size:10;default:'USD'"`
	Status         string `gorm:"size:20"`         // pending, completed, failed
	ErrorCode      string `gorm:"size:40"`
	ErrorMessage   string `gorm:"size:255"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func (p *PaymentAttempt) TableName() string {
	return "shop_payment_attempts"
}

func init() {
	migration.RegisterAutoMigrateModels(&PaymentAttempt{})
}
