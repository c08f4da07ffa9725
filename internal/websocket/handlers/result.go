package handlers

import (
	"github.com/ashev87/safechat/internal/relay"
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/wire"
)

// EventResult is the output of a handler invocation.
type EventResult struct {
	ack        any
	deliveries []relay.Delivery
}

// NewEventResult constructs a handler result.
func NewEventResult(ack any, deliveries []relay.Delivery) EventResult {
	return EventResult{ack: ack, deliveries: deliveries}
}

// Ack returns the ACK payload to send to the caller, or nil.
func (r EventResult) Ack() any { return r.ack }

// Deliveries returns the outbound emissions requested by the handler.
func (r EventResult) Deliveries() []relay.Delivery { return r.deliveries }

// errorDeliveries builds an error notice addressed back to the sender only.
// Validation failures never leak to other room members.
func errorDeliveries(conn room.ConnID, message string) []relay.Delivery {
	return []relay.Delivery{{
		To:      conn,
		Event:   wire.EventError,
		Payload: wire.ErrorPayload{Message: message},
	}}
}
