package payment

import (
	"log"
	"time"

	"github.com/luminshop/payments/pkg/database"
	"github.com/luminshop/payments/pkg/errors"
	"github.com/luminshop/payments/pkg/events"
	"github.com/luminshop/payments/pkg/hashid"
	"github.com/luminshop/payments/pkg/models"
	"github.com/luminshop/payments/pkg/notify"
	"github.com/luminshop/payments/pkg/types"
	"github.com/shopspring/decimal"
)

var HashIDTypeAttempt = hashid.NewType("pa-", "payment-attempt", 6)

// EncodeAttemptID 对外的支付流水ID
func EncodeAttemptID(id uint) string {
	return hashid.Encode(HashIDTypeAttempt, id)
}

func DecodeAttemptHashID(hashID string) (uint, error) {
	return hashid.Decode(HashIDTypeAttempt, hashID)
}

// GetAttempt 按对外流水ID查支付流水，订单结果页用
func GetAttempt(attemptHashID string) (*models.PaymentAttempt, error) {
	id, err := DecodeAttemptHashID(attemptHashID)
	if err != nil {
		return nil, errors.ErrAttemptNotFound
	}
	if !database.Enabled() {
		return nil, errors.ErrAttemptNotFound
	}

	var attempt models.PaymentAttempt
	if err := database.Database().Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, errors.ErrAttemptNotFound
	}
	return &attempt, nil
}

// attachAttemptID 终态结果带上对外流水ID，成功回跳的订单页据此查询结果
func attachAttemptID(result *types.PaymentResult, attempt *models.PaymentAttempt) {
	if attempt == nil {
		return
	}
	if result.Fields == nil {
		result.Fields = map[string]interface{}{}
	}
	result.Fields["attemptId"] = EncodeAttemptID(attempt.ID)
}

// recordPendingAttempt 往返渠道发起成功后落一条pending流水，回调终态时更新
func recordPendingAttempt(channel types.PaymentChannel, sessionID, conversationID, transactionID string, amount int64, currency string) uint {
	if !database.Enabled() {
		return 0
	}

	attempt := &models.PaymentAttempt{
		Channel:        string(channel),
		ConversationID: conversationID,
		TransactionID:  transactionID,
		SessionID:      sessionID,
		Amount:         amount,
		Currency:       currency,
		Status:         "pending",
	}
	if err := database.Database().Create(attempt).Error; err != nil {
		log.Printf("Failed to create payment attempt: %v", err)
		return 0
	}
	return attempt.ID
}

// recordTerminalAttempt direct渠道或发起即失败的场景，一步写入终态流水
func recordTerminalAttempt(channel types.PaymentChannel, sessionID, conversationID, transactionID string, amount int64, currency string, result *types.PaymentResult) *models.PaymentAttempt {
	if !database.Enabled() {
		return nil
	}

	now := time.Now()
	attempt := &models.PaymentAttempt{
		Channel:        string(channel),
		ConversationID: conversationID,
		TransactionID:  transactionID,
		SessionID:      sessionID,
		Amount:         amount,
		Currency:       currency,
		Status:         attemptStatus(result),
		ErrorCode:      result.ErrorCode,
		ErrorMessage:   result.ErrorMessage,
		CompletedAt:    &now,
	}
	if err := database.Database().Create(attempt).Error; err != nil {
		log.Printf("Failed to create payment attempt: %v", err)
		return nil
	}
	return attempt
}

// finalizeAttempt 回调终态时更新发起阶段的pending流水
func finalizeAttempt(attemptID uint, result *types.PaymentResult) *models.PaymentAttempt {
	if attemptID == 0 || !database.Enabled() {
		return nil
	}

	var attempt models.PaymentAttempt
	if err := database.Database().Where("id = ?", attemptID).First(&attempt).Error; err != nil {
		log.Printf("Payment attempt %d not found: %v", attemptID, err)
		return nil
	}

	now := time.Now()
	err := database.Database().Model(&attempt).Updates(map[string]interface{}{
		"status":        attemptStatus(result),
		"error_code":    result.ErrorCode,
		"error_message": result.ErrorMessage,
		"completed_at":  &now,
	}).Error
	if err != nil {
		log.Printf("Failed to update payment attempt %d: %v", attemptID, err)
		return nil
	}
	return &attempt
}

func attemptStatus(result *types.PaymentResult) string {
	if result.Status == types.StatusSuccess {
		return "completed"
	}
	return "failed"
}

// announce 终态结果通知业务系统；pending不通知
func announce(result *types.PaymentResult, attempt *models.PaymentAttempt, conversationID string) {
	hashID := ""
	var amount *decimal.Decimal
	currency := ""
	if attempt != nil {
		hashID = EncodeAttemptID(attempt.ID)
		v := decimal.NewFromInt(attempt.Amount).Div(dec100)
		amount = &v
		currency = attempt.Currency
	}

	transactionID := ""
	if result.Fields != nil {
		if v, ok := result.Fields["paymentId"].(string); ok {
			transactionID = v
		} else if v, ok := result.Fields["token"].(string); ok {
			transactionID = v
		}
	}

	switch result.Status {
	case types.StatusSuccess:
		event := &types.PaymentCompletedEvent{
			AttemptHashID:  hashID,
			Channel:        result.Channel,
			TransactionID:  transactionID,
			ConversationID: conversationID,
			Amount:         amount,
			Currency:       currency,
			CompletedAt:    time.Now(),
		}
		if err := events.EmitPaymentCompleted(event); err != nil {
			log.Printf("Payment completed handler failed: %v", err)
		}
		notify.PublishPaymentCompleted(event)
	case types.StatusFailed:
		event := &types.PaymentFailedEvent{
			AttemptHashID:  hashID,
			Channel:        result.Channel,
			ConversationID: conversationID,
			ErrorCode:      result.ErrorCode,
			ErrorMessage:   result.ErrorMessage,
			FailedAt:       time.Now(),
		}
		if err := events.EmitPaymentFailed(event); err != nil {
			log.Printf("Payment failed handler failed: %v", err)
		}
	}
}
