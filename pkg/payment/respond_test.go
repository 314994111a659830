package payment

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/luminshop/payments/pkg/gateway"
	"github.com/luminshop/payments/pkg/models"
	"github.com/luminshop/payments/pkg/types"
)

var testTargets = RedirectTargets{Success: "/order/result", Failure: "/payment/failed"}

func TestDecide_StructuredSuccess(t *testing.T) {
	result := &types.PaymentResult{
		Status:  types.StatusSuccess,
		Channel: types.ChannelDirect,
		Fields:  map[string]interface{}{"paymentId": "pay-1", "authCode": "A1"},
	}

	env := Decide(true, testTargets, result)
	if env.Kind != types.ResponseStructured {
		t.Fatalf("Expected structured response, got %s", env.Kind)
	}
	if env.HTTPStatus != http.StatusOK {
		t.Errorf("Expected 200, got %d", env.HTTPStatus)
	}
	if env.Body["status"] != "success" || env.Body["paymentId"] != "pay-1" {
		t.Errorf("Unexpected body: %+v", env.Body)
	}
}

func TestDecide_StructuredFailure(t *testing.T) {
	result := failedResult(types.ChannelDirect, "CARD_DECLINED", "Insufficient funds")

	env := Decide(true, testTargets, result)
	if env.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", env.HTTPStatus)
	}
	if env.Body["status"] != "error" || env.Body["errorCode"] != "CARD_DECLINED" || env.Body["errorMessage"] != "Insufficient funds" {
		t.Errorf("Unexpected body: %+v", env.Body)
	}
}

func TestDecide_RedirectFailureCarriesMessage(t *testing.T) {
	result := failedResult(types.ChannelStepUp, types.ErrCodeAuthFailed, "card authentication failed")

	env := Decide(false, testTargets, result)
	if env.Kind != types.ResponseRedirect {
		t.Fatalf("Expected redirect, got %s", env.Kind)
	}
	if !strings.HasPrefix(env.Location, "/payment/failed?") {
		t.Fatalf("Unexpected location: %s", env.Location)
	}

	parsed, err := url.Parse(env.Location)
	if err != nil {
		t.Fatalf("Bad redirect URL: %v", err)
	}
	if parsed.Query().Get("errorMessage") != "card authentication failed" {
		t.Errorf("Expected error message in query, got %s", env.Location)
	}
}

func TestDecide_RedirectSuccessCarriesIdentifiers(t *testing.T) {
	result := &types.PaymentResult{
		Status:  types.StatusSuccess,
		Channel: types.ChannelStepUp,
		Fields:  map[string]interface{}{"paymentId": "pay-1", "conversationId": "conv-1"},
	}

	env := Decide(false, testTargets, result)
	parsed, err := url.Parse(env.Location)
	if err != nil {
		t.Fatalf("Bad redirect URL: %v", err)
	}
	if parsed.Path != "/order/result" {
		t.Errorf("Unexpected path: %s", parsed.Path)
	}
	if parsed.Query().Get("paymentId") != "pay-1" || parsed.Query().Get("conversationId") != "conv-1" {
		t.Errorf("Expected identifiers in query, got %s", env.Location)
	}
}

// 终态结果带attemptId时，成功回跳的查询串携带它，订单页据此查流水
func TestDecide_RedirectSuccessCarriesAttemptID(t *testing.T) {
	result := &types.PaymentResult{
		Status:  types.StatusSuccess,
		Channel: types.ChannelDirect,
		Fields:  map[string]interface{}{"paymentId": "pay-1"},
	}
	attachAttemptID(result, &models.PaymentAttempt{ID: 7})

	env := Decide(false, testTargets, result)
	parsed, err := url.Parse(env.Location)
	if err != nil {
		t.Fatalf("Bad redirect URL: %v", err)
	}
	if parsed.Query().Get("attemptId") != EncodeAttemptID(7) {
		t.Errorf("Expected attemptId in query, got %s", env.Location)
	}
}

func TestAttachAttemptID_NilAttemptNoop(t *testing.T) {
	result := failedResult(types.ChannelDirect, "CARD_DECLINED", "Do not honour")
	attachAttemptID(result, nil)
	if _, ok := result.Fields["attemptId"]; ok {
		t.Errorf("Expected no attemptId without a recorded attempt, got %+v", result.Fields)
	}
}

// 回跳目标可配置，自带查询串时用&续接
func TestDecide_RedirectTargetWithExistingQuery(t *testing.T) {
	targets := RedirectTargets{Success: "/order/result?lang=en", Failure: "/payment/failed?lang=en"}

	success := &types.PaymentResult{
		Status:  types.StatusSuccess,
		Channel: types.ChannelDirect,
		Fields:  map[string]interface{}{"paymentId": "pay-1"},
	}
	env := Decide(false, targets, success)
	parsed, err := url.Parse(env.Location)
	if err != nil {
		t.Fatalf("Bad redirect URL: %v", err)
	}
	if parsed.Query().Get("lang") != "en" || parsed.Query().Get("paymentId") != "pay-1" {
		t.Errorf("Expected both configured and result params, got %s", env.Location)
	}
	if strings.Count(env.Location, "?") != 1 {
		t.Errorf("Malformed query string: %s", env.Location)
	}

	env = Decide(false, targets, failedResult(types.ChannelDirect, "CARD_DECLINED", "Do not honour"))
	parsed, err = url.Parse(env.Location)
	if err != nil {
		t.Fatalf("Bad redirect URL: %v", err)
	}
	if parsed.Query().Get("lang") != "en" || parsed.Query().Get("errorCode") != "CARD_DECLINED" {
		t.Errorf("Expected both configured and error params, got %s", env.Location)
	}
	if strings.Count(env.Location, "?") != 1 {
		t.Errorf("Malformed query string: %s", env.Location)
	}
}

// 浏览器发起托管钱包，pending结果直接302到网关页面
func TestDecide_RedirectPendingPrefersGatewayPage(t *testing.T) {
	result := &types.PaymentResult{
		Status:  types.StatusPending,
		Channel: types.ChannelHostedWallet,
		Fields: map[string]interface{}{
			"token":       "tok-1",
			"redirectUrl": "https://gateway.example/wallet/tok-1",
		},
	}

	env := Decide(false, testTargets, result)
	if env.Kind != types.ResponseRedirect {
		t.Fatalf("Expected redirect, got %s", env.Kind)
	}
	if env.Location != "https://gateway.example/wallet/tok-1" {
		t.Errorf("Expected gateway page, got %s", env.Location)
	}

	// XHR调用方拿结构化数据，地址作为字段返回
	env = Decide(true, testTargets, result)
	if env.Kind != types.ResponseStructured {
		t.Fatalf("Expected structured response, got %s", env.Kind)
	}
	if env.Body["redirectUrl"] != "https://gateway.example/wallet/tok-1" {
		t.Errorf("Expected redirectUrl field, got %+v", env.Body)
	}
}

// 同一网关结果映射两次，产出完全一致
func TestResultFromGateway_Idempotent(t *testing.T) {
	r := &gateway.Result{
		Status:         gateway.StatusSuccess,
		PaymentID:      "pay-1",
		ConversationID: "conv-1",
		Fields:         map[string]interface{}{"authCode": "A1", "maskedCard": "554960******0008"},
	}

	first := resultFromGateway(types.ChannelDirect, r)
	second := resultFromGateway(types.ChannelDirect, r)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestResultFromGateway_Failure(t *testing.T) {
	r := &gateway.Result{
		Status:       gateway.StatusFailure,
		ErrorCode:    "CARD_DECLINED",
		ErrorMessage: "Do not honour",
	}

	result := resultFromGateway(types.ChannelDirect, r)
	if result.Status != types.StatusFailed {
		t.Errorf("Expected failed status, got %s", result.Status)
	}
	if result.ErrorCode != "CARD_DECLINED" || result.ErrorMessage != "Do not honour" {
		t.Errorf("Gateway code/message not passed through: %+v", result)
	}
}

func TestGuard_ConvertsErrorToException(t *testing.T) {
	result := guard(types.ChannelStepUp, func() (*types.PaymentResult, error) {
		return nil, errors.New("connection reset")
	})

	if result.Status != types.StatusFailed {
		t.Errorf("Expected failed status, got %s", result.Status)
	}
	if result.ErrorCode != types.ErrCodeException {
		t.Errorf("Expected EXCEPTION code, got %s", result.ErrorCode)
	}
	if result.ErrorMessage != "connection reset" {
		t.Errorf("Expected original message, got %q", result.ErrorMessage)
	}
}

func TestGuard_ConvertsPanicToException(t *testing.T) {
	result := guard(types.ChannelDirect, func() (*types.PaymentResult, error) {
		panic("nil pointer somewhere")
	})

	if result.ErrorCode != types.ErrCodeException {
		t.Errorf("Expected EXCEPTION code, got %s", result.ErrorCode)
	}
	if !strings.Contains(result.ErrorMessage, "nil pointer somewhere") {
		t.Errorf("Expected panic message, got %q", result.ErrorMessage)
	}
}
