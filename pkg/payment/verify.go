package payment

import "github.com/spf13/cast"

// step_up回调的成功判定字面值
const (
	stepUpSuccessStatus = "success"
	stepUpSuccessCode   = "1"
)

// VerifyStepUp 两个信号必须同时命中：status等于成功字面值，且认证结果码等于成功码。
// 网关对mdStatus的类型不稳定（有时是字符串有时是数字），统一转成字符串再比较。
// 其余任何组合都算认证失败，不得发起第二阶段调用。
func VerifyStepUp(status string, mdStatus interface{}) bool {
	return status == stepUpSuccessStatus && cast.ToString(mdStatus) == stepUpSuccessCode
}

// NormalizeConversationData 网关第二阶段要求该字段必须是字符串，缺失时传空串而不是null
func NormalizeConversationData(v interface{}) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}
