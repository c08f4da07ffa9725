// Package wire defines the Socket.IO event names and payload shapes shared
// by the relay server and its clients.
//
// Binary fields (public keys, ciphertext, nonces) travel base64-encoded
// because Socket.IO payloads are JSON. The server never decodes them; they
// are opaque pass-through bytes as far as the relay is concerned.
package wire

// Client -> server events.
const (
	// EventJoin requests membership in a room.
	EventJoin = "join"
	// EventLeave leaves the current room.
	EventLeave = "leave"
	// EventChatSend submits an encrypted chat envelope for relay.
	EventChatSend = "chatSend"
	// EventTyping reports the sender's typing state.
	EventTyping = "typing"
	// EventCallStart announces an outgoing call to the room.
	EventCallStart = "callStart"
	// EventCallSignal carries an opaque call-setup payload to one member.
	EventCallSignal = "callSignal"
	// EventCallEnd announces the end of a call.
	EventCallEnd = "callEnd"
)

// Server -> client events.
const (
	// EventJoined confirms a join and carries the member snapshot.
	EventJoined = "joined"
	// EventMemberJoined announces a new room member.
	EventMemberJoined = "memberJoined"
	// EventMemberLeft announces a departed room member.
	EventMemberLeft = "memberLeft"
	// EventChatDeliver delivers an encrypted chat envelope.
	EventChatDeliver = "chatDeliver"
	// EventTypingUpdate delivers another member's typing state.
	EventTypingUpdate = "typing"
	// EventCallIncoming delivers a call announcement.
	EventCallIncoming = "callIncoming"
	// EventCallSignalDeliver delivers an opaque call-setup payload.
	EventCallSignalDeliver = "callSignal"
	// EventCallEnded delivers a call teardown notice.
	EventCallEnded = "callEnded"
	// EventError delivers a per-connection error notice.
	EventError = "error"
)

// Ack result values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)
