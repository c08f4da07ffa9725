package handlers

import (
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/logger"
	"github.com/ashev87/safechat/shared/wire"
)

// CallStart announces a call to the rest of the sender's room.
func CallStart(deps Deps, conn room.ConnID, req wire.CallStartPayload) EventResult {
	return NewEventResult(nil, deps.Router().RouteCallStart(conn, req.MediaType))
}

// CallSignal relays an opaque call-setup payload to one member. The signal
// body belongs to the call-setup layer and is never inspected here.
func CallSignal(deps Deps, conn room.ConnID, req wire.CallSignalPayload) EventResult {
	if req.TargetMemberID == "" {
		logger.Tracef("Rejecting callSignal without target (conn %s)", conn)
		return NewEventResult(nil, errorDeliveries(conn, "callSignal requires targetMemberId"))
	}
	return NewEventResult(nil, deps.Router().RouteCallSignal(conn, req.TargetMemberID, req.Signal))
}

// CallEnd announces call teardown to the rest of the sender's room.
func CallEnd(deps Deps, conn room.ConnID) EventResult {
	return NewEventResult(nil, deps.Router().RouteCallEnd(conn))
}
