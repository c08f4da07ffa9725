// Package handlers implements the per-event relay semantics behind the
// Socket.IO transport. Handlers are plain functions over a Deps bundle and
// return an EventResult describing the ACK and the deliveries to emit; the
// transport adapter performs the actual socket emissions afterwards.
package handlers

import (
	"github.com/ashev87/safechat/internal/relay"
	"github.com/ashev87/safechat/internal/room"
)

// Deps holds the narrow dependencies required by event handlers.
type Deps struct {
	rooms  *room.Registry
	router *relay.Router
}

// NewDeps builds a dependency bundle for handler calls.
func NewDeps(rooms *room.Registry, router *relay.Router) Deps {
	return Deps{rooms: rooms, router: router}
}

func (d Deps) Rooms() *room.Registry  { return d.rooms }
func (d Deps) Router() *relay.Router { return d.router }
