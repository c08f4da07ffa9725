package handlers

import (
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/wire"
)

// Typing relays a typing indicator to the rest of the sender's room.
func Typing(deps Deps, conn room.ConnID, req wire.TypingPayload) EventResult {
	return NewEventResult(nil, deps.Router().RouteTyping(conn, req.IsTyping))
}
