package payment

import (
	"net/url"

	"github.com/luminshop/payments/pkg/contextstore"
	"github.com/luminshop/payments/pkg/types"
)

// CallbackEvent 网关回跳请求。各渠道传参位置不一致：
// 有的走表单体，有的走查询串，有的两者都不带、只能靠发起时写入的会话上下文。
type CallbackEvent struct {
	Channel   types.PaymentChannel
	Body      url.Values
	Query     url.Values
	SessionID string
	WantsJSON bool
	Headers   map[string]string // 仅用于排查
}

// Value 按 body → query 顺序取单个参数
func (ev *CallbackEvent) Value(key string) string {
	if v := ev.Body.Get(key); v != "" {
		return v
	}
	return ev.Query.Get(key)
}

// Correlation 回调归属判定结果
type Correlation struct {
	TransactionID  string
	ConversationID string
}

// candidateSource 取值来源，按声明顺序依次尝试，第一个非空值生效
type candidateSource struct {
	name   string
	lookup func(key string) string
}

func candidateSources(ev *CallbackEvent, cc *contextstore.CorrelationContext) []candidateSource {
	return []candidateSource{
		{name: "body", lookup: ev.Body.Get},
		{name: "query", lookup: ev.Query.Get},
		{name: "context", lookup: func(key string) string {
			if cc == nil {
				return ""
			}
			switch key {
			case "conversationId":
				return cc.ConversationID
			default:
				// paymentId / token 都存在TransactionID里
				return cc.TransactionID
			}
		}},
	}
}

func resolveValue(key string, sources []candidateSource) string {
	for _, source := range sources {
		if v := source.lookup(key); v != "" {
			return v
		}
	}
	return ""
}

// ResolveCorrelation 两个标识独立解析，一个可以来自body、另一个来自上下文。
// transactionKey 因渠道而异：step_up用paymentId，托管渠道用token。
// 任一标识解析不出来即失败，此时不得调用网关。
func ResolveCorrelation(ev *CallbackEvent, cc *contextstore.CorrelationContext, transactionKey string) (*Correlation, bool) {
	sources := candidateSources(ev, cc)

	transactionID := resolveValue(transactionKey, sources)
	conversationID := resolveValue("conversationId", sources)

	if transactionID == "" || conversationID == "" {
		return nil, false
	}

	return &Correlation{
		TransactionID:  transactionID,
		ConversationID: conversationID,
	}, true
}
