package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ashev87/safechat/internal/relay"
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/wire"
)

func newDeps() Deps {
	rooms := room.NewRegistry()
	return NewDeps(rooms, relay.NewRouter(rooms, nil))
}

func join(t *testing.T, deps Deps, roomID, conn, name string) wire.JoinAck {
	t.Helper()
	res := Join(deps, room.ConnID(conn), wire.JoinPayload{
		RoomID:      roomID,
		PublicKey:   "pk-" + conn,
		DisplayName: name,
	})
	ack, ok := res.Ack().(wire.JoinAck)
	require.True(t, ok)
	require.Equal(t, wire.ResultSuccess, ack.Result)
	return ack
}

func TestJoinAckAndAnnouncement(t *testing.T) {
	deps := newDeps()

	first := join(t, deps, "abc123", "x", "X")
	require.Empty(t, first.ExistingMembers)

	res := Join(deps, "y", wire.JoinPayload{RoomID: "abc123", PublicKey: "pk-y", DisplayName: "Y"})
	ack := res.Ack().(wire.JoinAck)
	require.Equal(t, wire.ResultSuccess, ack.Result)
	require.Len(t, ack.ExistingMembers, 1)
	require.Equal(t, first.MemberID, ack.ExistingMembers[0].MemberID)
	require.Equal(t, "pk-x", ack.ExistingMembers[0].PublicKey)

	// X is told about Y.
	require.Len(t, res.Deliveries(), 1)
	delivery := res.Deliveries()[0]
	require.Equal(t, room.ConnID("x"), delivery.To)
	require.Equal(t, wire.EventMemberJoined, delivery.Event)
	announced := delivery.Payload.(wire.MemberInfo)
	require.Equal(t, ack.MemberID, announced.MemberID)
}

func TestJoinValidationErrorAck(t *testing.T) {
	deps := newDeps()

	res := Join(deps, "x", wire.JoinPayload{RoomID: "", PublicKey: "pk"})
	ack := res.Ack().(wire.JoinAck)
	require.Equal(t, wire.ResultError, ack.Result)
	require.NotEmpty(t, ack.Message)
	require.Empty(t, res.Deliveries())

	res = Join(deps, "x", wire.JoinPayload{RoomID: "abc123", PublicKey: ""})
	ack = res.Ack().(wire.JoinAck)
	require.Equal(t, wire.ResultError, ack.Result)
}

func TestRejoinNotifiesOldRoom(t *testing.T) {
	deps := newDeps()

	moverAck := join(t, deps, "room-a", "mover", "M")
	join(t, deps, "room-a", "stay", "S")

	res := Join(deps, "mover", wire.JoinPayload{RoomID: "room-b", PublicKey: "pk-mover"})
	require.Equal(t, wire.ResultSuccess, res.Ack().(wire.JoinAck).Result)

	// The only delivery is the memberLeft notice to the member staying in
	// room-a; room-b was empty so there is nobody to announce to.
	require.Len(t, res.Deliveries(), 1)
	delivery := res.Deliveries()[0]
	require.Equal(t, room.ConnID("stay"), delivery.To)
	require.Equal(t, wire.EventMemberLeft, delivery.Event)
	require.Equal(t, moverAck.MemberID, delivery.Payload.(wire.MemberLeftPayload).MemberID)
}

func TestLeaveNotifiesRemaining(t *testing.T) {
	deps := newDeps()

	leaver := join(t, deps, "abc123", "a", "A")
	join(t, deps, "abc123", "b", "B")
	join(t, deps, "abc123", "c", "C")

	res := Leave(deps, "a")
	require.Nil(t, res.Ack())
	require.Len(t, res.Deliveries(), 2)
	for _, d := range res.Deliveries() {
		require.Equal(t, wire.EventMemberLeft, d.Event)
		require.Equal(t, leaver.MemberID, d.Payload.(wire.MemberLeftPayload).MemberID)
	}
}

func TestLeaveUnknownConnection(t *testing.T) {
	deps := newDeps()

	res := Leave(deps, "ghost")
	require.Nil(t, res.Ack())
	require.Empty(t, res.Deliveries())
}

func TestChatSendRejectsEmptyEnvelope(t *testing.T) {
	deps := newDeps()
	join(t, deps, "abc123", "a", "A")
	join(t, deps, "abc123", "b", "B")

	res := ChatSend(deps, "a", wire.ChatSendPayload{Ciphertext: "", Nonce: "bm9uY2U="})
	require.Len(t, res.Deliveries(), 1)
	require.Equal(t, room.ConnID("a"), res.Deliveries()[0].To)
	require.Equal(t, wire.EventError, res.Deliveries()[0].Event)

	res = ChatSend(deps, "a", wire.ChatSendPayload{Ciphertext: "Y2lwaGVy", Nonce: "bm9uY2U=", MessageID: "m1"})
	require.Len(t, res.Deliveries(), 1)
	require.Equal(t, wire.EventChatDeliver, res.Deliveries()[0].Event)
}

func TestCallSignalRequiresTarget(t *testing.T) {
	deps := newDeps()
	join(t, deps, "abc123", "a", "A")

	res := CallSignal(deps, "a", wire.CallSignalPayload{Signal: map[string]any{"sdp": "x"}})
	require.Len(t, res.Deliveries(), 1)
	require.Equal(t, room.ConnID("a"), res.Deliveries()[0].To)
	require.Equal(t, wire.EventError, res.Deliveries()[0].Event)
}
