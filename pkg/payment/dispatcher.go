package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/luminshop/payments/pkg/contextstore"
	"github.com/luminshop/payments/pkg/gateway"
	"github.com/luminshop/payments/pkg/helper"
	"github.com/luminshop/payments/pkg/types"
	"github.com/shopspring/decimal"
)

var dec100 = decimal.NewFromInt(100)

// CheckoutRequest 卡支付入参，Use3D决定direct还是step_up渠道
type CheckoutRequest struct {
	ConversationID string        `json:"conversation_id"`
	Amount         int64         `json:"amount" binding:"required"` // 金额（分）
	Currency       string        `json:"currency" binding:"required"`
	Use3D          bool          `json:"use3d"`
	Buyer          gateway.Buyer `json:"buyer"`
	Card           gateway.Card  `json:"card"`
}

// HostedRequest 托管渠道入参，卡信息由网关页面采集
type HostedRequest struct {
	ConversationID string        `json:"conversation_id"`
	Amount         int64         `json:"amount" binding:"required"` // 金额（分）
	Currency       string        `json:"currency" binding:"required"`
	Buyer          gateway.Buyer `json:"buyer"`
}

// Dispatcher 支付发起入口：选择渠道、调用网关、写入回调关联上下文
type Dispatcher struct {
	gw    gateway.Client
	store contextstore.Store
}

func NewDispatcher(gw gateway.Client, store contextstore.Store) *Dispatcher {
	return &Dispatcher{gw: gw, store: store}
}

// Checkout direct渠道同步返回终态；step_up渠道返回pending和认证页面内容
func (d *Dispatcher) Checkout(ctx context.Context, sessionID string, req *CheckoutRequest) *types.PaymentResult {
	channel := types.ChannelDirect
	if req.Use3D {
		channel = types.ChannelStepUp
	}

	return guard(channel, func() (*types.PaymentResult, error) {
		conversationID := req.ConversationID
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		greq := &gateway.InitiateRequest{
			ConversationID: conversationID,
			Amount:         decimal.NewFromInt(req.Amount).Div(dec100),
			Currency:       req.Currency,
			Buyer:          req.Buyer,
			Card:           &req.Card,
		}

		if channel == types.ChannelDirect {
			slog.Info("[Dispatcher] Initiating direct payment", "conversation_id", conversationID, "amount", req.Amount)
			r, err := d.gw.InitiateDirect(ctx, greq)
			if err != nil {
				return nil, err
			}
			result := resultFromGateway(channel, r)
			attempt := recordTerminalAttempt(channel, sessionID, conversationID, r.PaymentID, req.Amount, req.Currency, result)
			attachAttemptID(result, attempt)
			announce(result, attempt, conversationID)
			return result, nil
		}

		greq.CallbackURL = helper.BuildURL("/payment/callback/3ds")

		slog.Info("[Dispatcher] Initiating step-up payment", "conversation_id", conversationID, "amount", req.Amount)
		r, err := d.gw.InitiateStepUp(ctx, greq)
		if err != nil {
			return nil, err
		}
		if !r.Succeeded() {
			result := resultFromGateway(channel, &r.Result)
			attempt := recordTerminalAttempt(channel, sessionID, conversationID, r.PaymentID, req.Amount, req.Currency, result)
			attachAttemptID(result, attempt)
			announce(result, attempt, conversationID)
			return result, nil
		}

		attemptID := recordPendingAttempt(channel, sessionID, conversationID, r.PaymentID, req.Amount, req.Currency)
		if err := d.writeContext(ctx, sessionID, channel, &contextstore.CorrelationContext{
			TransactionID:       r.PaymentID,
			ConversationID:      conversationID,
			Channel:             channel,
			PresentationPayload: r.HTMLContent,
			AttemptID:           attemptID,
			CreatedAt:           time.Now(),
		}); err != nil {
			return nil, err
		}

		return &types.PaymentResult{
			Status:  types.StatusPending,
			Channel: channel,
			Fields: map[string]interface{}{
				"conversationId":     conversationID,
				"paymentId":          r.PaymentID,
				"threeDSHtmlContent": r.HTMLContent,
			},
		}, nil
	})
}

// InitHosted 托管渠道初始化：表单渠道返回token与嵌入内容，钱包渠道返回跳转地址
func (d *Dispatcher) InitHosted(ctx context.Context, sessionID string, channel types.PaymentChannel, req *HostedRequest) *types.PaymentResult {
	return guard(channel, func() (*types.PaymentResult, error) {
		conversationID := req.ConversationID
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		greq := &gateway.InitiateRequest{
			ConversationID: conversationID,
			Amount:         decimal.NewFromInt(req.Amount).Div(dec100),
			Currency:       req.Currency,
			Buyer:          req.Buyer,
			CallbackURL:    helper.BuildURL("/payment/" + callbackPath(channel)),
		}

		var r *gateway.HostedInitResult
		var err error
		switch channel {
		case types.ChannelHostedForm:
			r, err = d.gw.InitiateHostedForm(ctx, greq)
		case types.ChannelHostedWallet:
			r, err = d.gw.InitiateHostedWallet(ctx, greq)
		case types.ChannelHostedWalletQuick:
			r, err = d.gw.InitiateHostedWalletQuick(ctx, greq)
		default:
			return failedResult(channel, types.ErrCodeChannelNotFound, "unsupported hosted channel"), nil
		}
		if err != nil {
			return nil, err
		}

		slog.Info("[Dispatcher] Hosted initiation returned", "channel", channel, "status", r.Status)

		if !r.Succeeded() {
			result := resultFromGateway(channel, &r.Result)
			attempt := recordTerminalAttempt(channel, sessionID, conversationID, r.Token, req.Amount, req.Currency, result)
			attachAttemptID(result, attempt)
			announce(result, attempt, conversationID)
			return result, nil
		}

		attemptID := recordPendingAttempt(channel, sessionID, conversationID, r.Token, req.Amount, req.Currency)
		if err := d.writeContext(ctx, sessionID, channel, &contextstore.CorrelationContext{
			TransactionID:  r.Token,
			ConversationID: conversationID,
			Channel:        channel,
			AttemptID:      attemptID,
			CreatedAt:      time.Now(),
		}); err != nil {
			return nil, err
		}

		fields := map[string]interface{}{
			"conversationId": conversationID,
			"token":          r.Token,
		}
		if r.CheckoutFormContent != "" {
			fields["checkoutFormContent"] = r.CheckoutFormContent
		}
		if r.RedirectURL != "" {
			fields["redirectUrl"] = r.RedirectURL
		}

		return &types.PaymentResult{
			Status:  types.StatusPending,
			Channel: channel,
			Fields:  fields,
		}, nil
	})
}

// writeContext 同渠道已有在途上下文时直接覆盖（last-write-wins），留日志供排查
func (d *Dispatcher) writeContext(ctx context.Context, sessionID string, channel types.PaymentChannel, cc *contextstore.CorrelationContext) error {
	existing, err := d.store.Get(ctx, sessionID, channel)
	if err != nil {
		return err
	}
	if existing != nil {
		slog.Warn("[Dispatcher] Replacing pending correlation context",
			"channel", channel,
			"old_transaction_id", existing.TransactionID,
			"new_transaction_id", cc.TransactionID)
	}
	return d.store.Set(ctx, sessionID, channel, cc)
}

func callbackPath(channel types.PaymentChannel) string {
	switch channel {
	case types.ChannelStepUp:
		return "callback/3ds"
	case types.ChannelHostedForm:
		return "callback/form"
	case types.ChannelHostedWallet:
		return "callback/wallet"
	case types.ChannelHostedWalletQuick:
		return "callback/wallet/quick"
	}
	return "callback"
}
