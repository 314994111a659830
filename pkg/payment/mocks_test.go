package payment

import (
	"context"

	"github.com/luminshop/payments/pkg/gateway"
)

// fakeGateway 可编排的网关替身，记录第二阶段调用
type fakeGateway struct {
	directResult   *gateway.Result
	directErr      error
	stepUpResult   *gateway.StepUpInitResult
	stepUpErr      error
	completeResult *gateway.Result
	completeErr    error
	hostedResult   *gateway.HostedInitResult
	hostedErr      error
	retrieveResult *gateway.Result
	retrieveErr    error

	completeCalls []*gateway.CompleteRequest
	retrieveCalls int
	hostedCalls   []string
}

func (f *fakeGateway) InitiateDirect(ctx context.Context, req *gateway.InitiateRequest) (*gateway.Result, error) {
	return f.directResult, f.directErr
}

func (f *fakeGateway) InitiateStepUp(ctx context.Context, req *gateway.InitiateRequest) (*gateway.StepUpInitResult, error) {
	return f.stepUpResult, f.stepUpErr
}

func (f *fakeGateway) CompleteStepUp(ctx context.Context, req *gateway.CompleteRequest) (*gateway.Result, error) {
	f.completeCalls = append(f.completeCalls, req)
	return f.completeResult, f.completeErr
}

func (f *fakeGateway) InitiateHostedForm(ctx context.Context, req *gateway.InitiateRequest) (*gateway.HostedInitResult, error) {
	f.hostedCalls = append(f.hostedCalls, "form")
	return f.hostedResult, f.hostedErr
}

func (f *fakeGateway) InitiateHostedWallet(ctx context.Context, req *gateway.InitiateRequest) (*gateway.HostedInitResult, error) {
	f.hostedCalls = append(f.hostedCalls, "wallet")
	return f.hostedResult, f.hostedErr
}

func (f *fakeGateway) InitiateHostedWalletQuick(ctx context.Context, req *gateway.InitiateRequest) (*gateway.HostedInitResult, error) {
	f.hostedCalls = append(f.hostedCalls, "wallet_quick")
	return f.hostedResult, f.hostedErr
}

func (f *fakeGateway) RetrieveHostedResult(ctx context.Context, token, conversationID string) (*gateway.Result, error) {
	f.retrieveCalls++
	return f.retrieveResult, f.retrieveErr
}
