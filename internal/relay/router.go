// Package relay routes chat envelopes, presence events and call-signaling
// payloads between members of a room. The router holds no state of its own;
// it reads membership snapshots from the room registry and turns each inbound
// event into a list of deliveries for the transport layer to emit.
//
// A sender that is not currently a room member produces no deliveries and no
// error: a disconnect racing an in-flight send is expected churn, not a
// fault. The same applies to a direct target that has already left.
package relay

import (
	"time"

	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/wire"
)

// Delivery is one outbound emission: event + payload addressed to a single
// connection. Deliveries are produced after the registry snapshot is taken,
// so the transport can emit them without holding any lock.
type Delivery struct {
	To      room.ConnID
	Event   string
	Payload any
}

// Router resolves room membership and fans out messages.
type Router struct {
	rooms   *room.Registry
	metrics *Metrics
	nowFn   func() time.Time
}

// NewRouter creates a router over the registry. metrics may be nil.
func NewRouter(rooms *room.Registry, metrics *Metrics) *Router {
	return &Router{
		rooms:   rooms,
		metrics: metrics,
		nowFn:   time.Now,
	}
}

// RouteChat relays an encrypted chat envelope. With a target member id the
// envelope goes to exactly that member; without one it goes to every member
// of the sender's room except the sender. The ciphertext and nonce are
// opaque; the relay only attaches sender identity and a receive timestamp.
func (r *Router) RouteChat(sender room.ConnID, req wire.ChatSendPayload) []Delivery {
	member, roomID, ok := r.rooms.Lookup(sender)
	if !ok {
		r.countDrop(wire.EventChatDeliver, dropSenderGone)
		return nil
	}

	payload := wire.ChatDeliverPayload{
		SenderMemberID:    member.MemberID,
		SenderDisplayName: member.DisplayName,
		Ciphertext:        req.Ciphertext,
		Nonce:             req.Nonce,
		MessageID:         req.MessageID,
		ServerTimestamp:   r.nowFn().UnixMilli(),
	}

	if req.TargetMemberID != "" {
		return r.direct(roomID, req.TargetMemberID, wire.EventChatDeliver, payload)
	}
	return r.broadcast(roomID, sender, wire.EventChatDeliver, payload)
}

// RouteTyping relays a typing indicator to the rest of the sender's room.
// Purely advisory; no delivery guarantee.
func (r *Router) RouteTyping(sender room.ConnID, isTyping bool) []Delivery {
	member, roomID, ok := r.rooms.Lookup(sender)
	if !ok {
		r.countDrop(wire.EventTypingUpdate, dropSenderGone)
		return nil
	}
	return r.broadcast(roomID, sender, wire.EventTypingUpdate, wire.TypingUpdatePayload{
		MemberID:    member.MemberID,
		DisplayName: member.DisplayName,
		IsTyping:    isTyping,
	})
}

// RouteCallStart announces a call to the rest of the sender's room.
func (r *Router) RouteCallStart(sender room.ConnID, mediaType string) []Delivery {
	member, roomID, ok := r.rooms.Lookup(sender)
	if !ok {
		r.countDrop(wire.EventCallIncoming, dropSenderGone)
		return nil
	}
	return r.broadcast(roomID, sender, wire.EventCallIncoming, wire.CallIncomingPayload{
		SenderMemberID:    member.MemberID,
		SenderDisplayName: member.DisplayName,
		MediaType:         mediaType,
	})
}

// RouteCallSignal relays an opaque call-setup payload to one member. The
// signal body is never inspected.
func (r *Router) RouteCallSignal(sender room.ConnID, targetMemberID string, signal any) []Delivery {
	member, roomID, ok := r.rooms.Lookup(sender)
	if !ok {
		r.countDrop(wire.EventCallSignalDeliver, dropSenderGone)
		return nil
	}
	return r.direct(roomID, targetMemberID, wire.EventCallSignalDeliver, wire.CallSignalDeliverPayload{
		SenderMemberID: member.MemberID,
		Signal:         signal,
	})
}

// RouteCallEnd announces call teardown to the rest of the sender's room.
func (r *Router) RouteCallEnd(sender room.ConnID) []Delivery {
	_, roomID, ok := r.rooms.Lookup(sender)
	if !ok {
		r.countDrop(wire.EventCallEnded, dropSenderGone)
		return nil
	}
	return r.broadcast(roomID, sender, wire.EventCallEnded, struct{}{})
}

func (r *Router) direct(roomID, targetMemberID, event string, payload any) []Delivery {
	target, ok := r.rooms.Resolve(roomID, targetMemberID)
	if !ok {
		r.countDrop(event, dropTargetGone)
		return nil
	}
	r.countDelivered(event, 1)
	return []Delivery{{To: target.Conn, Event: event, Payload: payload}}
}

func (r *Router) broadcast(roomID string, sender room.ConnID, event string, payload any) []Delivery {
	members := r.rooms.MembersOf(roomID)
	deliveries := make([]Delivery, 0, len(members))
	for _, member := range members {
		if member.Conn == sender {
			continue
		}
		deliveries = append(deliveries, Delivery{To: member.Conn, Event: event, Payload: payload})
	}
	r.countDelivered(event, len(deliveries))
	return deliveries
}

func (r *Router) countDelivered(event string, n int) {
	if r.metrics != nil && n > 0 {
		r.metrics.delivered.WithLabelValues(event).Add(float64(n))
	}
}

func (r *Router) countDrop(event, reason string) {
	if r.metrics != nil {
		r.metrics.dropped.WithLabelValues(event, reason).Inc()
	}
}
