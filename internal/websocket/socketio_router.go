package websocket

import (
	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/internal/websocket/handlers"
	"github.com/ashev87/safechat/shared/logger"
)

// onTypedEvent wires a fire-and-forget event: decode -> handler -> deliver.
func onTypedEvent[Req any](
	s *SocketIOServer,
	client *socket.Socket,
	event string,
	handler func(handlers.Deps, room.ConnID, Req) handlers.EventResult,
) {
	client.On(event, func(data ...any) {
		raw, _ := getFirstAnyWithAck(data)

		var req Req
		if err := decodeAny(raw, &req); err != nil {
			logger.Warnf("Event %q decode error (socket %s): %v", event, client.Id(), err)
			return
		}

		result := handler(s.deps, room.ConnID(client.Id()), req)
		s.deliver(result.Deliveries())
	})
}

// onTypedAck wires an acked event: decode -> handler -> ack -> deliver.
func onTypedAck[Req any](
	s *SocketIOServer,
	client *socket.Socket,
	event string,
	handler func(handlers.Deps, room.ConnID, Req) handlers.EventResult,
) {
	client.On(event, func(data ...any) {
		raw, ack := getFirstAnyWithAck(data)

		var req Req
		if err := decodeAny(raw, &req); err != nil {
			logger.Warnf("Event %q decode error (socket %s): %v", event, client.Id(), err)
			return
		}

		result := handler(s.deps, room.ConnID(client.Id()), req)

		if ack != nil {
			ack(result.Ack())
		}
		s.deliver(result.Deliveries())
	})
}
