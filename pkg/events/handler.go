package events

import "github.com/luminshop/payments/pkg/types"

type EventHandler interface {
	OnPaymentCompleted(event *types.PaymentCompletedEvent) error
	OnPaymentFailed(event *types.PaymentFailedEvent) error
}

var handler EventHandler

func SetEventHandler(h EventHandler) {
	handler = h
}

func EmitPaymentCompleted(event *types.PaymentCompletedEvent) error {
	if handler != nil {
		return handler.OnPaymentCompleted(event)
	}
	return nil
}

func EmitPaymentFailed(event *types.PaymentFailedEvent) error {
	if handler != nil {
		return handler.OnPaymentFailed(event)
	}
	return nil
}
