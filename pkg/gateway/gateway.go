package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// 网关返回的status字面值
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

type Buyer struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	IP      string `json:"ip"`
}

type Card struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	ExpireMonth string `json:"expire_month"`
	ExpireYear  string `json:"expire_year"`
	CVC         string `json:"cvc"`
}

// InitiateRequest 各渠道发起支付的公共入参
type InitiateRequest struct {
	ConversationID string
	Amount         decimal.Decimal
	Currency       string
	Buyer          Buyer
	Card           *Card  // direct与step_up渠道必填
	CallbackURL    string // 网关往返后的回跳地址
}

// CompleteRequest step_up渠道认证通过后的第二阶段调用
type CompleteRequest struct {
	PaymentID        string
	ConversationID   string
	ConversationData string // 网关要求必须为字符串，缺失时传""
}

// Result 网关侧结果，status为网关字面值，Fields为透传字段
type Result struct {
	Status         string
	ErrorCode      string
	ErrorMessage   string
	PaymentID      string
	ConversationID string
	Fields         map[string]interface{}
}

func (r *Result) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// StepUpInitResult 认证页面内容由网关返回，需呈现给持卡人
type StepUpInitResult struct {
	Result
	HTMLContent string
}

// HostedInitResult 托管流程初始化结果；表单渠道返回token与嵌入内容，钱包渠道返回跳转地址
type HostedInitResult struct {
	Result
	Token               string
	CheckoutFormContent string
	RedirectURL         string
}

// Client 支付网关能力接口。实现方负责线上协议，本引擎只消费结果。
type Client interface {
	InitiateDirect(ctx context.Context, req *InitiateRequest) (*Result, error)
	InitiateStepUp(ctx context.Context, req *InitiateRequest) (*StepUpInitResult, error)
	CompleteStepUp(ctx context.Context, req *CompleteRequest) (*Result, error)
	InitiateHostedForm(ctx context.Context, req *InitiateRequest) (*HostedInitResult, error)
	InitiateHostedWallet(ctx context.Context, req *InitiateRequest) (*HostedInitResult, error)
	InitiateHostedWalletQuick(ctx context.Context, req *InitiateRequest) (*HostedInitResult, error)

	// RetrieveHostedResult 托管渠道回调后按token取最终结果
	RetrieveHostedResult(ctx context.Context, token, conversationID string) (*Result, error)
}
