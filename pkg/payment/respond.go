package payment

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/luminshop/payments/pkg/gateway"
	"github.com/luminshop/payments/pkg/types"
)

// resultFromGateway 把网关侧结果映射为统一PaymentResult。
// 纯映射，不修改入参；相同输入产出相同结果。
func resultFromGateway(channel types.PaymentChannel, r *gateway.Result) *types.PaymentResult {
	fields := make(map[string]interface{}, len(r.Fields)+2)
	for k, v := range r.Fields {
		fields[k] = v
	}
	if r.PaymentID != "" {
		fields["paymentId"] = r.PaymentID
	}
	if r.ConversationID != "" {
		fields["conversationId"] = r.ConversationID
	}

	if r.Succeeded() {
		return &types.PaymentResult{
			Status:  types.StatusSuccess,
			Channel: channel,
			Fields:  fields,
		}
	}

	return &types.PaymentResult{
		Status:       types.StatusFailed,
		ErrorCode:    r.ErrorCode,
		ErrorMessage: r.ErrorMessage,
		Channel:      channel,
		Fields:       fields,
	}
}

func failedResult(channel types.PaymentChannel, code, message string) *types.PaymentResult {
	return &types.PaymentResult{
		Status:       types.StatusFailed,
		ErrorCode:    code,
		ErrorMessage: message,
		Channel:      channel,
	}
}

// guard 管线最外层边界：网关错误和panic都收敛为EXCEPTION失败结果，不向上抛
func guard(channel types.PaymentChannel, fn func() (*types.PaymentResult, error)) (result *types.PaymentResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Payment pipeline panic on channel %s: %v", channel, r)
			result = failedResult(channel, types.ErrCodeException, fmt.Sprintf("%v", r))
		}
	}()

	result, err := fn()
	if err != nil {
		log.Printf("Payment pipeline error on channel %s: %v", channel, err)
		return failedResult(channel, types.ErrCodeException, err.Error())
	}
	return result
}

// RedirectTargets 浏览器回跳目的地
type RedirectTargets struct {
	Success string // 订单结果页，携带标识参数
	Failure string // 通用失败页，携带errorMessage
}

// Decide 纯函数：(调用方偏好, 结果) -> 响应形态。
// 期望结构化数据的调用方收JSON（success 200 / failed 400），
// 浏览器调用方收重定向。
func Decide(wantsJSON bool, targets RedirectTargets, result *types.PaymentResult) *types.ResponseEnvelope {
	if wantsJSON {
		if result.Status == types.StatusFailed {
			return &types.ResponseEnvelope{
				Kind:       types.ResponseStructured,
				HTTPStatus: http.StatusBadRequest,
				Body: map[string]interface{}{
					"status":       "error",
					"errorCode":    result.ErrorCode,
					"errorMessage": result.ErrorMessage,
				},
			}
		}

		body := map[string]interface{}{
			"status": string(result.Status),
		}
		for k, v := range result.Fields {
			body[k] = v
		}
		return &types.ResponseEnvelope{
			Kind:       types.ResponseStructured,
			HTTPStatus: http.StatusOK,
			Body:       body,
		}
	}

	if result.Status == types.StatusFailed {
		query := url.Values{}
		query.Set("errorMessage", result.ErrorMessage)
		if result.ErrorCode != "" {
			query.Set("errorCode", result.ErrorCode)
		}
		return &types.ResponseEnvelope{
			Kind:     types.ResponseRedirect,
			Location: appendQuery(targets.Failure, query.Encode()),
		}
	}

	// 网关给了托管页面地址就直接去那里，浏览器发起托管渠道不中转
	if v, ok := result.Fields["redirectUrl"].(string); ok && v != "" {
		return &types.ResponseEnvelope{
			Kind:     types.ResponseRedirect,
			Location: v,
		}
	}

	query := url.Values{}
	for _, key := range []string{"paymentId", "conversationId", "token", "attemptId"} {
		if v, ok := result.Fields[key].(string); ok && v != "" {
			query.Set(key, v)
		}
	}
	return &types.ResponseEnvelope{
		Kind:     types.ResponseRedirect,
		Location: appendQuery(targets.Success, query.Encode()),
	}
}

// appendQuery 目标地址可配置，可能自带查询串
func appendQuery(target, encoded string) string {
	if encoded == "" {
		return target
	}
	if strings.Contains(target, "?") {
		return target + "&" + encoded
	}
	return target + "?" + encoded
}
