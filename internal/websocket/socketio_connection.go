package websocket

import (
	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/internal/websocket/handlers"
	"github.com/ashev87/safechat/shared/logger"
)

func (s *SocketIOServer) handleConnection(client *socket.Socket) {
	socketID := string(client.Id())

	logger.Infof("Socket.IO connection (socket ID: %s)", socketID)

	// No handshake authentication: the socket id is the connection handle
	// and membership comes solely from the join event.
	s.sockets.Store(socketID, client)

	s.registerClientHandlers(client, socketID)
}

func (s *SocketIOServer) registerClientHandlers(client *socket.Socket, socketID string) {
	conn := room.ConnID(socketID)

	onTypedAck(s, client, "join", handlers.Join)
	onTypedEvent(s, client, "chatSend", handlers.ChatSend)
	onTypedEvent(s, client, "typing", handlers.Typing)
	onTypedEvent(s, client, "callStart", handlers.CallStart)
	onTypedEvent(s, client, "callSignal", handlers.CallSignal)

	client.On("leave", func(data ...any) {
		s.deliver(handlers.Leave(s.deps, conn).Deliveries())
	})

	client.On("callEnd", func(data ...any) {
		s.deliver(handlers.CallEnd(s.deps, conn).Deliveries())
	})

	// Disconnection handler: same path as an explicit leave.
	client.On("disconnect", func(data ...any) {
		reason := ""
		if len(data) > 0 {
			if r, ok := data[0].(string); ok {
				reason = r
			}
		}
		logger.Infof("Socket disconnected: %s (reason: %s)", socketID, reason)

		s.deliver(handlers.Leave(s.deps, conn).Deliveries())
		s.sockets.Delete(socketID)
	})
}
