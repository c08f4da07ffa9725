package wire

// MemberInfo describes one room member as seen by other members.
type MemberInfo struct {
	// MemberID is the room-scoped opaque member identifier.
	MemberID string `json:"memberId"`
	// PublicKey is the member's base64-encoded public key.
	PublicKey string `json:"publicKey"`
	// DisplayName is the member's display name.
	DisplayName string `json:"displayName"`
}

// JoinPayload is the client request for the "join" event.
type JoinPayload struct {
	// RoomID is the opaque, case-sensitive room identifier.
	RoomID string `json:"roomId"`
	// PublicKey is the joiner's base64-encoded public key.
	PublicKey string `json:"publicKey"`
	// DisplayName is optional; the server assigns a default when empty.
	DisplayName string `json:"displayName,omitempty"`
}

// JoinAck is the ACK response for the "join" event.
type JoinAck struct {
	// Result is "success" or "error".
	Result string `json:"result"`
	// Message is an optional error annotation.
	Message string `json:"message,omitempty"`
	// MemberID is the identifier assigned to the joiner.
	MemberID string `json:"memberId,omitempty"`
	// RoomID echoes the joined room.
	RoomID string `json:"roomId,omitempty"`
	// ExistingMembers lists all other current members of the room.
	ExistingMembers []MemberInfo `json:"existingMembers,omitempty"`
}

// MemberLeftPayload announces a departed member.
type MemberLeftPayload struct {
	// MemberID is the departed member's identifier.
	MemberID string `json:"memberId"`
	// DisplayName is the departed member's display name.
	DisplayName string `json:"displayName"`
}

// ChatSendPayload is the client request for the "chatSend" event.
type ChatSendPayload struct {
	// Ciphertext is the base64-encoded encrypted message body.
	Ciphertext string `json:"ciphertext"`
	// Nonce is the base64-encoded encryption nonce.
	Nonce string `json:"nonce"`
	// MessageID is a client-generated identifier for correlation.
	MessageID string `json:"messageId"`
	// TargetMemberID addresses one member; empty means broadcast to the room.
	TargetMemberID string `json:"targetMemberId,omitempty"`
}

// ChatDeliverPayload is the server push for a relayed chat envelope.
type ChatDeliverPayload struct {
	// SenderMemberID identifies the sending member.
	SenderMemberID string `json:"senderMemberId"`
	// SenderDisplayName is the sending member's display name.
	SenderDisplayName string `json:"senderDisplayName"`
	// Ciphertext is the base64-encoded encrypted message body.
	Ciphertext string `json:"ciphertext"`
	// Nonce is the base64-encoded encryption nonce.
	Nonce string `json:"nonce"`
	// MessageID is the client-generated identifier from the send.
	MessageID string `json:"messageId"`
	// ServerTimestamp is the relay-assigned receive time in ms since epoch.
	// Not trustworthy for cross-client ordering under clock skew.
	ServerTimestamp int64 `json:"serverTimestamp"`
}

// TypingPayload is the client request for the "typing" event.
type TypingPayload struct {
	// IsTyping reports whether the sender is currently typing.
	IsTyping bool `json:"isTyping"`
}

// TypingUpdatePayload is the server push for another member's typing state.
type TypingUpdatePayload struct {
	// MemberID identifies the typing member.
	MemberID string `json:"memberId"`
	// DisplayName is the typing member's display name.
	DisplayName string `json:"displayName"`
	// IsTyping reports the member's typing state.
	IsTyping bool `json:"isTyping"`
}

// CallStartPayload is the client request for the "callStart" event.
type CallStartPayload struct {
	// MediaType is "audio" or "video"; the relay does not interpret it.
	MediaType string `json:"mediaType"`
}

// CallIncomingPayload is the server push announcing a call.
type CallIncomingPayload struct {
	// SenderMemberID identifies the calling member.
	SenderMemberID string `json:"senderMemberId"`
	// SenderDisplayName is the calling member's display name.
	SenderDisplayName string `json:"senderDisplayName"`
	// MediaType is the media type from the call start.
	MediaType string `json:"mediaType"`
}

// CallSignalPayload is the client request for the "callSignal" event.
type CallSignalPayload struct {
	// TargetMemberID addresses the signaling peer.
	TargetMemberID string `json:"targetMemberId"`
	// Signal is the opaque call-setup payload, relayed verbatim.
	Signal any `json:"signalPayload"`
}

// CallSignalDeliverPayload is the server push for a relayed call signal.
type CallSignalDeliverPayload struct {
	// SenderMemberID identifies the signaling member.
	SenderMemberID string `json:"senderMemberId"`
	// Signal is the opaque call-setup payload, relayed verbatim.
	Signal any `json:"signalPayload"`
}

// ErrorPayload is the server push for a per-connection error.
type ErrorPayload struct {
	// Message describes the error.
	Message string `json:"message"`
}
