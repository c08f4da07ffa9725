// Package client is the Socket.IO client SDK for the relay. It owns the
// transport lifecycle, the encryption session for the current room, and the
// peer roster derived from membership events.
//
// All content crosses the wire encrypted per peer; the relay never sees a
// key or a plaintext byte.
package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	socket "github.com/zishang520/socket.io/clients/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/ashev87/safechat/client/session"
	"github.com/ashev87/safechat/internal/crypto"
	"github.com/ashev87/safechat/shared/logger"
	"github.com/ashev87/safechat/shared/wire"
)

// DefaultJoinTimeout bounds the join handshake. The server does not send a
// failure response for a lost join; the absence of an ACK is the signal.
const DefaultJoinTimeout = 10 * time.Second

// Client errors.
var (
	ErrNotConnected = errors.New("not connected")
	ErrNotInRoom    = errors.New("not in a room")
	ErrJoinTimeout  = errors.New("join timed out")
	ErrUnknownPeer  = errors.New("unknown peer")
)

// Peer is another member of the joined room.
type Peer struct {
	MemberID    string
	DisplayName string
	PublicKey   []byte
}

// Message is a decrypted incoming chat message.
type Message struct {
	SenderMemberID    string
	SenderDisplayName string
	MessageID         string
	Text              string
	ServerTimestamp   time.Time
}

// Listener receives client events. Methods must be safe to call from any
// goroutine.
type Listener interface {
	// OnConnected is called after the Socket.IO connection is established.
	OnConnected()
	// OnDisconnected is called after the connection drops.
	OnDisconnected(reason string)
	// OnMessage delivers a decrypted chat message.
	OnMessage(msg Message)
	// OnUndeliverable reports a message that failed authentication. No
	// plaintext exists for it; render it as tampered/undeliverable.
	OnUndeliverable(senderMemberID, messageID string)
	// OnMemberJoined reports a new room member.
	OnMemberJoined(peer Peer)
	// OnMemberLeft reports a departed room member.
	OnMemberLeft(memberID, displayName string)
	// OnTyping reports another member's typing state.
	OnTyping(memberID, displayName string, isTyping bool)
	// OnCallIncoming reports a call announcement.
	OnCallIncoming(senderMemberID, senderDisplayName, mediaType string)
	// OnCallSignal delivers an opaque call-setup payload from a peer.
	OnCallSignal(senderMemberID string, signal any)
	// OnCallEnded reports call teardown.
	OnCallEnded()
}

// Client is a relay client bound to at most one room at a time.
type Client struct {
	serverURL string
	debug     bool

	mu       sync.RWMutex
	socket   *socket.Socket
	listener Listener
	sess     *session.Manager
	memberID string
	roomID   string
	peers    map[string]Peer // member id -> peer
}

// New creates a client for the given relay server URL.
func New(serverURL string, debug bool) *Client {
	return &Client{
		serverURL: serverURL,
		debug:     debug,
		peers:     make(map[string]Peer),
	}
}

// SetListener registers the listener for client events.
func (c *Client) SetListener(listener Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = listener
}

func (c *Client) getListener() Listener {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listener
}

// Connect establishes the Socket.IO connection to the relay.
func (c *Client) Connect() error {
	if c.debug {
		logger.Debugf("Connecting to relay: %s (path: /v1/relay)", c.serverURL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath("/v1/relay")
	opts.SetTransports(types.NewSet(socket.Polling, socket.WebSocket))

	sock, err := socket.Connect(c.serverURL, opts)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.socket = sock
	c.mu.Unlock()

	sock.On(types.EventName("connect"), func(args ...any) {
		if c.debug {
			logger.Debugf("Relay connected, socket id: %s", sock.Id())
		}
		if l := c.getListener(); l != nil {
			l.OnConnected()
		}
	})

	sock.On(types.EventName("disconnect"), func(args ...any) {
		reason := ""
		if len(args) > 0 {
			if r, ok := args[0].(string); ok {
				reason = r
			}
		}
		if l := c.getListener(); l != nil {
			l.OnDisconnected(reason)
		}
	})

	sock.On(types.EventName("connect_error"), func(args ...any) {
		if len(args) > 0 {
			logger.Warnf("Relay connection error: %v", args[0])
		}
	})

	c.registerServerEvents(sock)
	return nil
}

// Join joins a room, generating a fresh session key pair for it. A zero
// timeout uses DefaultJoinTimeout; expiry means the join failed and may be
// retried by the user.
func (c *Client) Join(roomID, displayName string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultJoinTimeout
	}

	c.mu.RLock()
	sock := c.socket
	c.mu.RUnlock()
	if sock == nil {
		return ErrNotConnected
	}

	sess, err := session.NewManager()
	if err != nil {
		return err
	}

	ackCh := make(chan wire.JoinAck, 1)
	errCh := make(chan error, 1)

	sock.Emit(wire.EventJoin, map[string]any{
		"roomId":      roomID,
		"publicKey":   crypto.Encode(sess.PublicKey()),
		"displayName": displayName,
	}, func(args []any, err error) {
		if err != nil {
			errCh <- err
			return
		}
		var ack wire.JoinAck
		if len(args) > 0 {
			if decodeErr := decodeAny(args[0], &ack); decodeErr != nil {
				errCh <- decodeErr
				return
			}
		}
		ackCh <- ack
	})

	select {
	case ack := <-ackCh:
		if ack.Result != wire.ResultSuccess {
			sess.Clear()
			return fmt.Errorf("join failed: %s", ack.Message)
		}
		peers := make(map[string]Peer, len(ack.ExistingMembers))
		for _, info := range ack.ExistingMembers {
			peer, err := peerFromInfo(info)
			if err != nil {
				logger.Warnf("Ignoring member %s with bad public key: %v", info.MemberID, err)
				continue
			}
			peers[info.MemberID] = peer
		}

		c.mu.Lock()
		if c.sess != nil {
			c.sess.Clear()
		}
		c.sess = sess
		c.memberID = ack.MemberID
		c.roomID = ack.RoomID
		c.peers = peers
		c.mu.Unlock()
		return nil
	case err := <-errCh:
		sess.Clear()
		return fmt.Errorf("join failed: %w", err)
	case <-time.After(timeout):
		sess.Clear()
		return ErrJoinTimeout
	}
}

// Leave leaves the current room and clears all key material. The shared-key
// cache and the session key pair do not survive this call.
func (c *Client) Leave() error {
	c.mu.Lock()
	sock := c.socket
	sess := c.sess
	c.sess = nil
	c.memberID = ""
	c.roomID = ""
	c.peers = make(map[string]Peer)
	c.mu.Unlock()

	if sess != nil {
		sess.Clear()
	}
	if sock == nil {
		return ErrNotConnected
	}
	sock.Emit(wire.EventLeave)
	return nil
}

// Close leaves the room and tears down the connection.
func (c *Client) Close() error {
	_ = c.Leave()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.socket != nil {
		c.socket.Disconnect()
		c.socket = nil
	}
	return nil
}

// MemberID returns the member id assigned by the relay for this room.
func (c *Client) MemberID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.memberID
}

// RoomID returns the joined room id.
func (c *Client) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

// Peers returns a snapshot of the current room peers.
func (c *Client) Peers() []Peer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Peer, 0, len(c.peers))
	for _, peer := range c.peers {
		out = append(out, peer)
	}
	return out
}

// SafetyNumber returns the mutual verification digest for one peer. Both
// sides see the same digits; comparing them out of band detects key
// substitution by the relay.
func (c *Client) SafetyNumber(memberID string) (string, error) {
	c.mu.RLock()
	sess := c.sess
	peer, ok := c.peers[memberID]
	c.mu.RUnlock()

	if sess == nil {
		return "", ErrNotInRoom
	}
	if !ok {
		return "", ErrUnknownPeer
	}
	return sess.SafetyNumber(peer.PublicKey)
}

// SendText encrypts text once per peer and sends each copy direct-addressed
// to its recipient, all under one message id. Fails closed: if any
// encryption fails, nothing is sent and the error is returned to the caller
// so the UI can surface the failure instead of assuming delivery.
func (c *Client) SendText(text string) (string, error) {
	c.mu.RLock()
	sock := c.socket
	sess := c.sess
	peers := make([]Peer, 0, len(c.peers))
	for _, peer := range c.peers {
		peers = append(peers, peer)
	}
	c.mu.RUnlock()

	if sock == nil {
		return "", ErrNotConnected
	}
	if sess == nil {
		return "", ErrNotInRoom
	}

	messageID := uuid.NewString()

	type envelope struct {
		target     string
		ciphertext string
		nonce      string
	}
	envelopes := make([]envelope, 0, len(peers))
	for _, peer := range peers {
		ciphertext, nonce, err := sess.Encrypt([]byte(text), peer.PublicKey)
		if err != nil {
			return "", fmt.Errorf("encrypt for %s: %w", peer.MemberID, err)
		}
		envelopes = append(envelopes, envelope{
			target:     peer.MemberID,
			ciphertext: crypto.Encode(ciphertext),
			nonce:      crypto.Encode(nonce),
		})
	}

	for _, env := range envelopes {
		sock.Emit(wire.EventChatSend, map[string]any{
			"ciphertext":     env.ciphertext,
			"nonce":          env.nonce,
			"messageId":      messageID,
			"targetMemberId": env.target,
		})
	}
	return messageID, nil
}

// SendTyping reports the local typing state to the room.
func (c *Client) SendTyping(isTyping bool) error {
	return c.emit(wire.EventTyping, map[string]any{"isTyping": isTyping})
}

// StartCall announces a call with the given media type to the room.
func (c *Client) StartCall(mediaType string) error {
	return c.emit(wire.EventCallStart, map[string]any{"mediaType": mediaType})
}

// SendCallSignal relays an opaque call-setup payload to one peer.
func (c *Client) SendCallSignal(targetMemberID string, signal any) error {
	return c.emit(wire.EventCallSignal, map[string]any{
		"targetMemberId": targetMemberID,
		"signalPayload":  signal,
	})
}

// EndCall announces call teardown to the room.
func (c *Client) EndCall() error {
	c.mu.RLock()
	sock := c.socket
	c.mu.RUnlock()
	if sock == nil {
		return ErrNotConnected
	}
	sock.Emit(wire.EventCallEnd)
	return nil
}

func (c *Client) emit(event string, payload map[string]any) error {
	c.mu.RLock()
	sock := c.socket
	c.mu.RUnlock()
	if sock == nil {
		return ErrNotConnected
	}
	sock.Emit(event, payload)
	return nil
}

func peerFromInfo(info wire.MemberInfo) (Peer, error) {
	publicKey, err := crypto.Decode(info.PublicKey)
	if err != nil {
		return Peer{}, err
	}
	return Peer{
		MemberID:    info.MemberID,
		DisplayName: info.DisplayName,
		PublicKey:   publicKey,
	}, nil
}
