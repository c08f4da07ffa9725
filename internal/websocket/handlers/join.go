package handlers

import (
	"github.com/ashev87/safechat/internal/relay"
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/logger"
	"github.com/ashev87/safechat/shared/wire"
)

// Join registers the connection in the requested room. Validation failures
// are rejected in the ACK with no state mutated. When the connection was
// already in a different room, that room is notified of the departure.
func Join(deps Deps, conn room.ConnID, req wire.JoinPayload) EventResult {
	member, others, departure, err := deps.Rooms().Join(req.RoomID, conn, req.PublicKey, req.DisplayName)
	if err != nil {
		logger.Warnf("Join rejected (conn %s): %v", conn, err)
		return NewEventResult(wire.JoinAck{
			Result:  wire.ResultError,
			Message: err.Error(),
		}, nil)
	}

	var deliveries []relay.Delivery
	if departure != nil {
		deliveries = append(deliveries, departureDeliveries(departure)...)
	}

	announcement := wire.MemberInfo{
		MemberID:    member.MemberID,
		PublicKey:   member.PublicKey,
		DisplayName: member.DisplayName,
	}
	for _, other := range others {
		deliveries = append(deliveries, relay.Delivery{
			To:      other.Conn,
			Event:   wire.EventMemberJoined,
			Payload: announcement,
		})
	}

	logger.Infof("Member %s joined room %s (%d existing)", member.MemberID, req.RoomID, len(others))

	return NewEventResult(wire.JoinAck{
		Result:          wire.ResultSuccess,
		MemberID:        member.MemberID,
		RoomID:          req.RoomID,
		ExistingMembers: toMemberInfos(others),
	}, deliveries)
}

func toMemberInfos(members []room.Member) []wire.MemberInfo {
	out := make([]wire.MemberInfo, 0, len(members))
	for _, member := range members {
		out = append(out, wire.MemberInfo{
			MemberID:    member.MemberID,
			PublicKey:   member.PublicKey,
			DisplayName: member.DisplayName,
		})
	}
	return out
}
