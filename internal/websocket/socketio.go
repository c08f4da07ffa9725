// Package websocket hosts the Socket.IO transport for the relay. It owns
// the socket table and the bridge between socket events and the pure event
// handlers; all room state lives in the room registry.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
	sockettypes "github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/ashev87/safechat/internal/relay"
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/internal/websocket/handlers"
	"github.com/ashev87/safechat/shared/logger"
)

// SocketIOServer wraps the Socket.IO server for the relay.
type SocketIOServer struct {
	server  *socket.Server
	deps    handlers.Deps
	sockets sync.Map // socket id -> *socket.Socket
}

// NewSocketIOServer creates a new Socket.IO v4 server over the given
// registry and router.
func NewSocketIOServer(rooms *room.Registry, router *relay.Router) *SocketIOServer {
	opts := socket.DefaultServerOptions()

	opts.SetCors(&sockettypes.Cors{
		Origin:      "*",
		Credentials: false,
	})

	// SocketIOPingInterval defines how frequently the server pings clients
	// to detect stale/disconnected sockets.
	//
	// This bounds how long a departed member lingers in its room after an
	// abrupt client exit (where no graceful disconnect event is emitted).
	const SocketIOPingInterval = 5 * time.Second

	// SocketIOPingTimeout defines how long the server waits before
	// considering a socket dead (no pong received).
	const SocketIOPingTimeout = 15 * time.Second

	opts.SetPingTimeout(SocketIOPingTimeout)
	opts.SetPingInterval(SocketIOPingInterval)

	opts.SetPath("/v1/relay")

	server := socket.NewServer(nil, opts)

	s := &SocketIOServer{
		server: server,
		deps:   handlers.NewDeps(rooms, router),
	}

	server.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.handleConnection(client)
	})

	return s
}

func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func getFirstAnyWithAck(data []any) (any, func(...any)) {
	var ack func(...any)
	if len(data) == 0 {
		return nil, nil
	}
	if cb, ok := data[len(data)-1].(func(...any)); ok {
		ack = cb
		data = data[:len(data)-1]
	} else if cb, ok := data[len(data)-1].(socket.Ack); ok {
		ack = func(args ...any) {
			cb(args, nil)
		}
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil, ack
	}
	return data[0], ack
}

// deliver emits the router's deliveries to their target sockets. A target
// that disconnected between snapshot and emission is skipped silently.
func (s *SocketIOServer) deliver(deliveries []relay.Delivery) {
	for _, d := range deliveries {
		value, ok := s.sockets.Load(string(d.To))
		if !ok {
			logger.Tracef("Delivery target gone (socket %s, event %s)", d.To, d.Event)
			continue
		}
		target, ok := value.(*socket.Socket)
		if !ok || target == nil {
			continue
		}
		target.Emit(d.Event, d.Payload)
	}
}

// HandleSocketIO creates a Gin handler for Socket.IO.
func (s *SocketIOServer) HandleSocketIO() gin.HandlerFunc {
	httpHandler := s.server.ServeHandler(nil)

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "false")

		if c.Request.Method == "OPTIONS" {
			c.Status(http.StatusOK)
			return
		}

		logger.Tracef("Socket.IO request: %s %s", c.Request.Method, c.Request.URL.Path)

		httpHandler.ServeHTTP(c.Writer, c.Request)
	}
}

// Close shuts down the Socket.IO server.
func (s *SocketIOServer) Close() error {
	s.server.Close(nil)
	return nil
}
