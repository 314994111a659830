package payment

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/flaboy/pin"
	"github.com/google/uuid"
	"github.com/luminshop/payments/pkg/config"
	"github.com/luminshop/payments/pkg/contextstore"
	"github.com/luminshop/payments/pkg/errors"
	"github.com/luminshop/payments/pkg/gateway"
	"github.com/luminshop/payments/pkg/types"
	"github.com/spf13/cast"
)

const sessionCookieName = "shop_session"

var defaultDispatcher *Dispatcher

// Init 由commence.Start调用
func Init(gw gateway.Client, store contextstore.Store) {
	defaultDispatcher = NewDispatcher(gw, store)
}

// HandleRequest 支付模块统一入口，宿主在 /payment/* 下挂载
func HandleRequest(c *pin.Context, path string) error {
	if defaultDispatcher == nil {
		return errors.ErrGatewayUnavailable
	}

	switch {
	case path == "checkout":
		return handleCheckout(c)
	case path == "form/init":
		return handleHostedInit(c, types.ChannelHostedForm)
	case path == "wallet/init":
		return handleHostedInit(c, types.ChannelHostedWallet)
	case path == "wallet/quick/init":
		return handleHostedInit(c, types.ChannelHostedWalletQuick)
	case path == "3ds/content":
		return handleStepUpContent(c)
	case path == "callback/3ds":
		return handleStepUpCallback(c)
	case path == "callback/form":
		return handleHostedCallback(c, types.ChannelHostedForm)
	case path == "callback/wallet":
		return handleHostedCallback(c, types.ChannelHostedWallet)
	case path == "callback/wallet/quick":
		return handleHostedCallback(c, types.ChannelHostedWalletQuick)
	case strings.HasPrefix(path, "attempt/"):
		return handleAttemptStatus(c, strings.TrimPrefix(path, "attempt/"))
	default:
		c.JSON(404, map[string]string{"error": "Not found"})
		return nil
	}
}

// handleAttemptStatus 订单结果页按回跳携带的attemptId查询终态
func handleAttemptStatus(c *pin.Context, attemptHashID string) error {
	attempt, err := GetAttempt(attemptHashID)
	if err != nil {
		return err
	}

	c.JSON(200, map[string]interface{}{
		"attemptId":    EncodeAttemptID(attempt.ID),
		"channel":      attempt.Channel,
		"status":       attempt.Status,
		"amount":       attempt.Amount,
		"currency":     attempt.Currency,
		"errorCode":    attempt.ErrorCode,
		"errorMessage": attempt.ErrorMessage,
	})
	return nil
}

func handleCheckout(c *pin.Context) error {
	var req CheckoutRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	result := defaultDispatcher.Checkout(c.Request.Context(), sessionID(c, true), &req)
	return writeEnvelope(c, Decide(wantsJSON(c), redirectTargets(), result))
}

func handleHostedInit(c *pin.Context, channel types.PaymentChannel) error {
	var req HostedRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	result := defaultDispatcher.InitHosted(c.Request.Context(), sessionID(c, true), channel, &req)
	return writeEnvelope(c, Decide(wantsJSON(c), redirectTargets(), result))
}

// handleStepUpContent 重新呈现发起时网关返回的认证页面，供浏览器在新窗口加载
func handleStepUpContent(c *pin.Context) error {
	cc, err := defaultDispatcher.store.Get(c.Request.Context(), sessionID(c, false), types.ChannelStepUp)
	if err != nil {
		return err
	}
	if cc == nil || cc.PresentationPayload == "" {
		return errors.ErrMissingCorrelation
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(200, cc.PresentationPayload)
	return nil
}

func handleStepUpCallback(c *pin.Context) error {
	ev := newCallbackEvent(c, types.ChannelStepUp)
	result := defaultDispatcher.HandleStepUpCallback(c.Request.Context(), ev)
	return writeEnvelope(c, Decide(ev.WantsJSON, redirectTargets(), result))
}

func handleHostedCallback(c *pin.Context, channel types.PaymentChannel) error {
	ev := newCallbackEvent(c, channel)
	result := defaultDispatcher.HandleHostedCallback(c.Request.Context(), channel, ev)
	return writeEnvelope(c, Decide(ev.WantsJSON, redirectTargets(), result))
}

// newCallbackEvent 网关回跳有GET有POST，POST体有表单有JSON，统一收进CallbackEvent
func newCallbackEvent(c *pin.Context, channel types.PaymentChannel) *CallbackEvent {
	body := url.Values{}
	contentType := c.Request.Header.Get("Content-Type")

	if strings.Contains(contentType, "application/json") {
		if data, err := io.ReadAll(c.Request.Body); err == nil && len(data) > 0 {
			var raw map[string]interface{}
			if json.Unmarshal(data, &raw) == nil {
				for k, v := range raw {
					body.Set(k, cast.ToString(v))
				}
			}
		}
	} else {
		if err := c.Request.ParseForm(); err == nil {
			body = c.Request.PostForm
		}
	}

	return &CallbackEvent{
		Channel:   channel,
		Body:      body,
		Query:     c.Request.URL.Query(),
		SessionID: sessionID(c, false),
		WantsJSON: wantsJSON(c),
		Headers: map[string]string{
			"User-Agent": c.Request.Header.Get("User-Agent"),
			"Referer":    c.Request.Header.Get("Referer"),
		},
	}
}

func wantsJSON(c *pin.Context) bool {
	return strings.Contains(c.Request.Header.Get("Accept"), "application/json")
}

// sessionID 回调请求里拿不到会话时返回空串，上下文来源自然落空
func sessionID(c *pin.Context, create bool) string {
	if v := c.Request.Header.Get("X-Session-Id"); v != "" {
		return v
	}
	if v, err := c.Cookie(sessionCookieName); err == nil && v != "" {
		return v
	}
	if !create {
		return ""
	}

	v := uuid.NewString()
	c.SetCookie(sessionCookieName, v, 3600, "/", "", false, true)
	return v
}

func redirectTargets() RedirectTargets {
	targets := RedirectTargets{Success: "/order/result", Failure: "/payment/failed"}
	if config.Config != nil {
		if config.Config.OrderResultURL != "" {
			targets.Success = config.Config.OrderResultURL
		}
		if config.Config.PaymentFailedURL != "" {
			targets.Failure = config.Config.PaymentFailedURL
		}
	}
	return targets
}

func writeEnvelope(c *pin.Context, env *types.ResponseEnvelope) error {
	if env.Kind == types.ResponseRedirect {
		c.Redirect(http.StatusFound, env.Location)
		return nil
	}
	c.JSON(env.HTTPStatus, env.Body)
	return nil
}
