package types

// PaymentChannel 支付渠道，封闭枚举
type PaymentChannel string

const (
	ChannelDirect            PaymentChannel = "direct"
	ChannelStepUp            PaymentChannel = "step_up"
	ChannelHostedForm        PaymentChannel = "hosted_form"
	ChannelHostedWallet      PaymentChannel = "hosted_wallet"
	ChannelHostedWalletQuick PaymentChannel = "hosted_wallet_quick"
)

// RequiresRoundTrip 该渠道是否需要经网关往返后回调
func (c PaymentChannel) RequiresRoundTrip() bool {
	switch c {
	case ChannelStepUp, ChannelHostedForm, ChannelHostedWallet, ChannelHostedWalletQuick:
		return true
	}
	return false
}

// Valid 是否为已知渠道
func (c PaymentChannel) Valid() bool {
	switch c {
	case ChannelDirect, ChannelStepUp, ChannelHostedForm, ChannelHostedWallet, ChannelHostedWalletQuick:
		return true
	}
	return false
}

type PaymentStatus string

const (
	StatusSuccess PaymentStatus = "success"
	StatusPending PaymentStatus = "pending"
	StatusFailed  PaymentStatus = "failed"
)

// 对外稳定的错误码
const (
	ErrCodeMissingCorrelation = "MISSING_CORRELATION"
	ErrCodeMissingToken       = "MISSING_TOKEN"
	ErrCodeAuthFailed         = "AUTH_FAILED"
	ErrCodeException          = "EXCEPTION"
	ErrCodeChannelNotFound    = "CHANNEL_NOT_FOUND"
)

// PaymentResult 所有渠道统一的支付结果
type PaymentResult struct {
	Status       PaymentStatus          `json:"status"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Channel      PaymentChannel         `json:"channel"`
	Fields       map[string]interface{} `json:"fields,omitempty"` // 网关透传字段：金额、授权码、卡号掩码等
}

type ResponseKind string

const (
	ResponseStructured ResponseKind = "structured"
	ResponseRedirect   ResponseKind = "redirect"
)

// ResponseEnvelope 响应形态决策结果，创建后不再修改
type ResponseEnvelope struct {
	Kind       ResponseKind
	HTTPStatus int
	Body       map[string]interface{}
	Location   string
}
