package handlers

import (
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/logger"
	"github.com/ashev87/safechat/shared/wire"
)

// ChatSend relays an encrypted chat envelope. Envelopes missing ciphertext
// or nonce are rejected back to the sender only; a sender that is no longer
// a room member is a silent no-op.
func ChatSend(deps Deps, conn room.ConnID, req wire.ChatSendPayload) EventResult {
	if req.Ciphertext == "" || req.Nonce == "" {
		logger.Tracef("Rejecting chatSend with empty envelope (conn %s)", conn)
		return NewEventResult(nil, errorDeliveries(conn, "chatSend requires ciphertext and nonce"))
	}
	return NewEventResult(nil, deps.Router().RouteChat(conn, req))
}
