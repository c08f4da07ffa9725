package client

import (
	"encoding/json"
	"time"

	socket "github.com/zishang520/socket.io/clients/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/ashev87/safechat/client/session"
	"github.com/ashev87/safechat/internal/crypto"
	"github.com/ashev87/safechat/shared/logger"
	"github.com/ashev87/safechat/shared/wire"
)

func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) registerServerEvents(sock *socket.Socket) {
	on(c, sock, wire.EventMemberJoined, (*Client).handleMemberJoined)
	on(c, sock, wire.EventMemberLeft, (*Client).handleMemberLeft)
	on(c, sock, wire.EventChatDeliver, (*Client).handleChatDeliver)
	on(c, sock, wire.EventTypingUpdate, (*Client).handleTyping)
	on(c, sock, wire.EventCallIncoming, (*Client).handleCallIncoming)
	on(c, sock, wire.EventCallSignalDeliver, (*Client).handleCallSignal)

	sock.On(types.EventName(wire.EventCallEnded), func(args ...any) {
		if l := c.getListener(); l != nil {
			l.OnCallEnded()
		}
	})

	sock.On(types.EventName(wire.EventError), func(args ...any) {
		if len(args) > 0 {
			logger.Warnf("Relay error: %v", args[0])
		}
	})
}

// on registers a typed payload handler for a server-push event.
func on[Req any](c *Client, sock *socket.Socket, event string, handler func(*Client, Req)) {
	sock.On(types.EventName(event), func(args ...any) {
		if len(args) == 0 {
			return
		}
		var req Req
		if err := decodeAny(args[0], &req); err != nil {
			logger.Warnf("Event %q decode error: %v", event, err)
			return
		}
		handler(c, req)
	})
}

func (c *Client) handleMemberJoined(info wire.MemberInfo) {
	peer, err := peerFromInfo(info)
	if err != nil {
		logger.Warnf("Ignoring joined member %s with bad public key: %v", info.MemberID, err)
		return
	}

	c.mu.Lock()
	c.peers[peer.MemberID] = peer
	c.mu.Unlock()

	if l := c.getListener(); l != nil {
		l.OnMemberJoined(peer)
	}
}

func (c *Client) handleMemberLeft(payload wire.MemberLeftPayload) {
	c.mu.Lock()
	delete(c.peers, payload.MemberID)
	c.mu.Unlock()

	if l := c.getListener(); l != nil {
		l.OnMemberLeft(payload.MemberID, payload.DisplayName)
	}
}

// handleChatDeliver decrypts an incoming envelope. Authentication failures
// surface as an explicit undeliverable notice; the message is never
// silently dropped and garbage plaintext is never delivered.
func (c *Client) handleChatDeliver(payload wire.ChatDeliverPayload) {
	l := c.getListener()
	if l == nil {
		return
	}

	c.mu.RLock()
	sess := c.sess
	peer, known := c.peers[payload.SenderMemberID]
	c.mu.RUnlock()

	if sess == nil || !known {
		logger.Warnf("Envelope from unknown sender %s", payload.SenderMemberID)
		l.OnUndeliverable(payload.SenderMemberID, payload.MessageID)
		return
	}

	plaintext, err := c.openEnvelope(sess, peer, payload)
	if err != nil {
		logger.Warnf("Undeliverable message %s from %s: %v", payload.MessageID, payload.SenderMemberID, err)
		l.OnUndeliverable(payload.SenderMemberID, payload.MessageID)
		return
	}

	l.OnMessage(Message{
		SenderMemberID:    payload.SenderMemberID,
		SenderDisplayName: payload.SenderDisplayName,
		MessageID:         payload.MessageID,
		Text:              string(plaintext),
		ServerTimestamp:   time.UnixMilli(payload.ServerTimestamp),
	})
}

func (c *Client) openEnvelope(sess *session.Manager, peer Peer, payload wire.ChatDeliverPayload) ([]byte, error) {
	ciphertext, err := crypto.Decode(payload.Ciphertext)
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.Decode(payload.Nonce)
	if err != nil {
		return nil, err
	}
	return sess.Decrypt(ciphertext, nonce, peer.PublicKey)
}

func (c *Client) handleTyping(payload wire.TypingUpdatePayload) {
	if l := c.getListener(); l != nil {
		l.OnTyping(payload.MemberID, payload.DisplayName, payload.IsTyping)
	}
}

func (c *Client) handleCallIncoming(payload wire.CallIncomingPayload) {
	if l := c.getListener(); l != nil {
		l.OnCallIncoming(payload.SenderMemberID, payload.SenderDisplayName, payload.MediaType)
	}
}

func (c *Client) handleCallSignal(payload wire.CallSignalDeliverPayload) {
	if l := c.getListener(); l != nil {
		l.OnCallSignal(payload.SenderMemberID, payload.Signal)
	}
}
