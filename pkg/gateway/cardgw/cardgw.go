package cardgw

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/luminshop/payments/pkg/gateway"
	"github.com/valyala/fasthttp"
)

// Client 卡支付网关REST客户端
type Client struct {
	apiKey    string
	secretKey string
	baseURL   string
	timeout   time.Duration
}

func New(apiKey, secretKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
	}
}

type initiatePayload struct {
	ConversationID string        `json:"conversationId"`
	Amount         string        `json:"amount"`
	Currency       string        `json:"currency"`
	Buyer          gateway.Buyer `json:"buyer"`
	Card           *gateway.Card `json:"card,omitempty"`
	CallbackURL    string        `json:"callbackUrl,omitempty"`
}

type completePayload struct {
	PaymentID        string `json:"paymentId"`
	ConversationID   string `json:"conversationId"`
	ConversationData string `json:"conversationData"`
}

type retrievePayload struct {
	Token          string `json:"token"`
	ConversationID string `json:"conversationId"`
}

// wireResponse 网关线上应答
type wireResponse struct {
	Status              string                 `json:"status"`
	ErrorCode           string                 `json:"errorCode"`
	ErrorMessage        string                 `json:"errorMessage"`
	PaymentID           string                 `json:"paymentId"`
	ConversationID      string                 `json:"conversationId"`
	ThreeDSHTMLContent  string                 `json:"threeDSHtmlContent"`
	Token               string                 `json:"token"`
	CheckoutFormContent string                 `json:"checkoutFormContent"`
	PaymentPageURL      string                 `json:"paymentPageUrl"`
	Fields              map[string]interface{} `json:"fields"`
}

func (w *wireResponse) toResult() gateway.Result {
	return gateway.Result{
		Status:         w.Status,
		ErrorCode:      w.ErrorCode,
		ErrorMessage:   w.ErrorMessage,
		PaymentID:      w.PaymentID,
		ConversationID: w.ConversationID,
		Fields:         w.Fields,
	}
}

func initiateFrom(req *gateway.InitiateRequest) *initiatePayload {
	return &initiatePayload{
		ConversationID: req.ConversationID,
		Amount:         req.Amount.StringFixed(2),
		Currency:       strings.ToUpper(req.Currency),
		Buyer:          req.Buyer,
		Card:           req.Card,
		CallbackURL:    req.CallbackURL,
	}
}

func (c *Client) InitiateDirect(ctx context.Context, req *gateway.InitiateRequest) (*gateway.Result, error) {
	var resp wireResponse
	if err := c.post(ctx, "/v1/payments", initiateFrom(req), &resp); err != nil {
		return nil, err
	}
	result := resp.toResult()
	return &result, nil
}

func (c *Client) InitiateStepUp(ctx context.Context, req *gateway.InitiateRequest) (*gateway.StepUpInitResult, error) {
	var resp wireResponse
	if err := c.post(ctx, "/v1/payments/3ds/initialize", initiateFrom(req), &resp); err != nil {
		return nil, err
	}
	return &gateway.StepUpInitResult{
		Result:      resp.toResult(),
		HTMLContent: resp.ThreeDSHTMLContent,
	}, nil
}

func (c *Client) CompleteStepUp(ctx context.Context, req *gateway.CompleteRequest) (*gateway.Result, error) {
	var resp wireResponse
	payload := &completePayload{
		PaymentID:        req.PaymentID,
		ConversationID:   req.ConversationID,
		ConversationData: req.ConversationData,
	}
	if err := c.post(ctx, "/v1/payments/3ds/complete", payload, &resp); err != nil {
		return nil, err
	}
	result := resp.toResult()
	return &result, nil
}

func (c *Client) InitiateHostedForm(ctx context.Context, req *gateway.InitiateRequest) (*gateway.HostedInitResult, error) {
	return c.initiateHosted(ctx, "/v1/checkout-form/initialize", req)
}

func (c *Client) InitiateHostedWallet(ctx context.Context, req *gateway.InitiateRequest) (*gateway.HostedInitResult, error) {
	return c.initiateHosted(ctx, "/v1/wallet/initialize", req)
}

func (c *Client) InitiateHostedWalletQuick(ctx context.Context, req *gateway.InitiateRequest) (*gateway.HostedInitResult, error) {
	return c.initiateHosted(ctx, "/v1/wallet/quick/initialize", req)
}

func (c *Client) initiateHosted(ctx context.Context, path string, req *gateway.InitiateRequest) (*gateway.HostedInitResult, error) {
	var resp wireResponse
	if err := c.post(ctx, path, initiateFrom(req), &resp); err != nil {
		return nil, err
	}
	return &gateway.HostedInitResult{
		Result:              resp.toResult(),
		Token:               resp.Token,
		CheckoutFormContent: resp.CheckoutFormContent,
		RedirectURL:         resp.PaymentPageURL,
	}, nil
}

func (c *Client) RetrieveHostedResult(ctx context.Context, token, conversationID string) (*gateway.Result, error) {
	var resp wireResponse
	payload := &retrievePayload{Token: token, ConversationID: conversationID}
	if err := c.post(ctx, "/v1/checkout/result", payload, &resp); err != nil {
		return nil, err
	}
	result := resp.toResult()
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out *wireResponse) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod("POST")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("x-signature", c.sign(requestBody))
	req.SetBody(requestBody)

	if err := fasthttp.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}

	if resp.StatusCode() >= 500 {
		log.Printf("Gateway returned %d for %s", resp.StatusCode(), path)
		return fmt.Errorf("gateway error, status code: %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return nil
}

// sign 请求体的HMAC-SHA256签名，网关用同样的密钥校验
func (c *Client) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
