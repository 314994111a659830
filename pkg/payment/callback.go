package payment

import (
	"context"
	"log/slog"

	"github.com/luminshop/payments/pkg/contextstore"
	"github.com/luminshop/payments/pkg/gateway"
	"github.com/luminshop/payments/pkg/models"
	"github.com/luminshop/payments/pkg/types"
)

// HandleStepUpCallback step_up渠道回调：归属判定 → 认证校验 → 第二阶段调用。
// 归属判定失败不调网关；认证校验失败也不调，避免完成一笔未认证的交易。
func (d *Dispatcher) HandleStepUpCallback(ctx context.Context, ev *CallbackEvent) *types.PaymentResult {
	channel := types.ChannelStepUp

	return guard(channel, func() (*types.PaymentResult, error) {
		cc, err := d.store.Get(ctx, ev.SessionID, channel)
		if err != nil {
			return nil, err
		}

		correlation, ok := ResolveCorrelation(ev, cc, "paymentId")
		if !ok {
			slog.Warn("[Callback] Missing correlation", "channel", channel, "session_id", ev.SessionID)
			return failedResult(channel, types.ErrCodeMissingCorrelation, "unable to match callback to a pending payment"), nil
		}

		if !VerifyStepUp(ev.Value("status"), ev.Value("mdStatus")) {
			slog.Warn("[Callback] Step-up verification failed",
				"payment_id", correlation.TransactionID,
				"status", ev.Value("status"),
				"md_status", ev.Value("mdStatus"))
			d.store.Delete(ctx, ev.SessionID, channel)

			result := failedResult(channel, types.ErrCodeAuthFailed, "card authentication failed")
			attempt := finalizeFromContext(cc, result)
			attachAttemptID(result, attempt)
			announce(result, attempt, correlation.ConversationID)
			return result, nil
		}

		r, err := d.gw.CompleteStepUp(ctx, &gateway.CompleteRequest{
			PaymentID:        correlation.TransactionID,
			ConversationID:   correlation.ConversationID,
			ConversationData: NormalizeConversationData(ev.Value("conversationData")),
		})
		if err != nil {
			return nil, err
		}

		d.store.Delete(ctx, ev.SessionID, channel)

		result := resultFromGateway(channel, r)
		attempt := finalizeFromContext(cc, result)
		attachAttemptID(result, attempt)
		announce(result, attempt, correlation.ConversationID)
		return result, nil
	})
}

// HandleHostedCallback 托管渠道回调：token归属判定后按token向网关取最终结果
func (d *Dispatcher) HandleHostedCallback(ctx context.Context, channel types.PaymentChannel, ev *CallbackEvent) *types.PaymentResult {
	return guard(channel, func() (*types.PaymentResult, error) {
		cc, err := d.store.Get(ctx, ev.SessionID, channel)
		if err != nil {
			return nil, err
		}

		correlation, ok := ResolveCorrelation(ev, cc, "token")
		if !ok {
			// token本身缺失与conversationId缺失分开报，前端提示不同
			if resolveValue("token", candidateSources(ev, cc)) == "" {
				slog.Warn("[Callback] Missing token", "channel", channel, "session_id", ev.SessionID)
				return failedResult(channel, types.ErrCodeMissingToken, "checkout token is missing"), nil
			}
			slog.Warn("[Callback] Missing correlation", "channel", channel, "session_id", ev.SessionID)
			return failedResult(channel, types.ErrCodeMissingCorrelation, "unable to match callback to a pending payment"), nil
		}

		r, err := d.gw.RetrieveHostedResult(ctx, correlation.TransactionID, correlation.ConversationID)
		if err != nil {
			return nil, err
		}

		d.store.Delete(ctx, ev.SessionID, channel)

		result := resultFromGateway(channel, r)
		attempt := finalizeFromContext(cc, result)
		attachAttemptID(result, attempt)
		announce(result, attempt, correlation.ConversationID)
		return result, nil
	})
}

func finalizeFromContext(cc *contextstore.CorrelationContext, result *types.PaymentResult) *models.PaymentAttempt {
	if cc == nil {
		return nil
	}
	return finalizeAttempt(cc.AttemptID, result)
}
