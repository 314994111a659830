package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCompletedEvent 支付完成后通知业务系统
type PaymentCompletedEvent struct {
	AttemptHashID  string           `json:"attempt_hash_id"`
	Channel        PaymentChannel   `json:"channel"`
	TransactionID  string           `json:"transaction_id"`
	ConversationID string           `json:"conversation_id"`
	Amount         *decimal.Decimal `json:"amount"`
	Currency       string           `json:"currency"`
	CompletedAt    time.Time        `json:"completed_at"`
}

// PaymentFailedEvent 终态失败通知
type PaymentFailedEvent struct {
	AttemptHashID  string         `json:"attempt_hash_id"`
	Channel        PaymentChannel `json:"channel"`
	ConversationID string         `json:"conversation_id"`
	ErrorCode      string         `json:"error_code"`
	ErrorMessage   string         `json:"error_message"`
	FailedAt       time.Time      `json:"failed_at"`
}
