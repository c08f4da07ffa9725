package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/shared/wire"
)

type fixture struct {
	rooms  *room.Registry
	router *Router
	ids    map[string]string // conn -> member id
}

func newFixture(t *testing.T, roomID string, conns ...string) *fixture {
	t.Helper()
	f := &fixture{
		rooms: room.NewRegistry(),
		ids:   make(map[string]string),
	}
	f.router = NewRouter(f.rooms, nil)
	f.router.nowFn = func() time.Time { return time.UnixMilli(99000) }
	for _, conn := range conns {
		member, _, _, err := f.rooms.Join(roomID, room.ConnID(conn), "pk-"+conn, "name-"+conn)
		require.NoError(t, err)
		f.ids[conn] = member.MemberID
	}
	return f
}

func targets(deliveries []Delivery) map[room.ConnID]bool {
	out := make(map[room.ConnID]bool)
	for _, d := range deliveries {
		out[d.To] = true
	}
	return out
}

func TestRouteChatBroadcastSkipsSender(t *testing.T) {
	f := newFixture(t, "abc123", "a", "b", "c")

	deliveries := f.router.RouteChat("a", wire.ChatSendPayload{
		Ciphertext: "Y2lwaGVy",
		Nonce:      "bm9uY2U=",
		MessageID:  "m1",
	})

	require.Len(t, deliveries, 2)
	got := targets(deliveries)
	require.True(t, got["b"])
	require.True(t, got["c"])
	require.False(t, got["a"])

	payload, ok := deliveries[0].Payload.(wire.ChatDeliverPayload)
	require.True(t, ok)
	require.Equal(t, f.ids["a"], payload.SenderMemberID)
	require.Equal(t, "name-a", payload.SenderDisplayName)
	require.Equal(t, "m1", payload.MessageID)
	require.Equal(t, int64(99000), payload.ServerTimestamp)
	require.Equal(t, wire.EventChatDeliver, deliveries[0].Event)
}

func TestRouteChatDirect(t *testing.T) {
	f := newFixture(t, "abc123", "a", "b", "c")

	deliveries := f.router.RouteChat("a", wire.ChatSendPayload{
		Ciphertext:     "Y2lwaGVy",
		Nonce:          "bm9uY2U=",
		MessageID:      "m2",
		TargetMemberID: f.ids["c"],
	})

	require.Len(t, deliveries, 1)
	require.Equal(t, room.ConnID("c"), deliveries[0].To)
}

func TestRouteChatSenderNotMember(t *testing.T) {
	f := newFixture(t, "abc123", "a", "b")

	deliveries := f.router.RouteChat("ghost", wire.ChatSendPayload{
		Ciphertext: "Y2lwaGVy",
		Nonce:      "bm9uY2U=",
	})
	require.Nil(t, deliveries)
}

func TestRouteChatTargetGone(t *testing.T) {
	f := newFixture(t, "abc123", "a", "b")

	departedID := f.ids["b"]
	_, ok := f.rooms.Leave("b")
	require.True(t, ok)

	// Target departed mid-flight: silent no-op, not an error.
	deliveries := f.router.RouteChat("a", wire.ChatSendPayload{
		Ciphertext:     "Y2lwaGVy",
		Nonce:          "bm9uY2U=",
		TargetMemberID: departedID,
	})
	require.Nil(t, deliveries)
}

func TestRouteTyping(t *testing.T) {
	f := newFixture(t, "abc123", "a", "b", "c")

	deliveries := f.router.RouteTyping("b", true)
	require.Len(t, deliveries, 2)
	for _, d := range deliveries {
		require.Equal(t, wire.EventTypingUpdate, d.Event)
		payload := d.Payload.(wire.TypingUpdatePayload)
		require.Equal(t, f.ids["b"], payload.MemberID)
		require.True(t, payload.IsTyping)
	}
}

func TestRouteCallFlow(t *testing.T) {
	f := newFixture(t, "abc123", "a", "b")

	incoming := f.router.RouteCallStart("a", "video")
	require.Len(t, incoming, 1)
	require.Equal(t, room.ConnID("b"), incoming[0].To)
	require.Equal(t, "video", incoming[0].Payload.(wire.CallIncomingPayload).MediaType)

	signal := map[string]any{"sdp": "offer"}
	relayed := f.router.RouteCallSignal("b", f.ids["a"], signal)
	require.Len(t, relayed, 1)
	require.Equal(t, room.ConnID("a"), relayed[0].To)
	payload := relayed[0].Payload.(wire.CallSignalDeliverPayload)
	require.Equal(t, f.ids["b"], payload.SenderMemberID)
	require.Equal(t, signal, payload.Signal)

	ended := f.router.RouteCallEnd("a")
	require.Len(t, ended, 1)
	require.Equal(t, wire.EventCallEnded, ended[0].Event)
}

func TestRouteCallSignalToDepartedMember(t *testing.T) {
	f := newFixture(t, "abc123", "x", "y")

	oldID := f.ids["x"]
	_, ok := f.rooms.Leave("x")
	require.True(t, ok)

	deliveries := f.router.RouteCallSignal("y", oldID, map[string]any{"sdp": "answer"})
	require.Nil(t, deliveries)
}
