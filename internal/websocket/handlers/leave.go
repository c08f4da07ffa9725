package handlers

import (
	"github.com/ashev87/safechat/internal/relay"
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/logger"
	"github.com/ashev87/safechat/shared/wire"
)

// Leave removes the connection from its room, if any, and notifies the
// remaining members. Explicit leave requests and transport disconnects are
// the same code path.
func Leave(deps Deps, conn room.ConnID) EventResult {
	departure, ok := deps.Rooms().Leave(conn)
	if !ok {
		return NewEventResult(nil, nil)
	}

	logger.Infof("Member %s left room %s (%d remaining)",
		departure.Member.MemberID, departure.RoomID, len(departure.Remaining))

	return NewEventResult(nil, departureDeliveries(departure))
}

func departureDeliveries(departure *room.Departure) []relay.Delivery {
	payload := wire.MemberLeftPayload{
		MemberID:    departure.Member.MemberID,
		DisplayName: departure.Member.DisplayName,
	}
	deliveries := make([]relay.Delivery, 0, len(departure.Remaining))
	for _, member := range departure.Remaining {
		deliveries = append(deliveries, relay.Delivery{
			To:      member.Conn,
			Event:   wire.EventMemberLeft,
			Payload: payload,
		})
	}
	return deliveries
}
