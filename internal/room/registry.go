// Package room implements the in-memory room membership registry and its
// lifecycle sweeper. The registry is the only owner of room and member
// records; the relay router and the transport layer read it through
// snapshot-returning operations and never hold references into its maps.
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry validation errors. These reject a join before any state mutates.
var (
	ErrRoomIDRequired    = errors.New("room id is required")
	ErrPublicKeyRequired = errors.New("public key is required")
)

// ConnID identifies one transport connection (a Socket.IO socket id).
type ConnID string

// Member is one participant's presence within a room.
type Member struct {
	// MemberID is unique within the room and never reused while the room
	// exists; every join mints a fresh one.
	MemberID string
	// PublicKey is an opaque base64 blob, passed through unmodified. The
	// server never parses or validates it.
	PublicKey string
	// DisplayName is the member's display name.
	DisplayName string
	// Conn is the transport handle used to address this member.
	Conn ConnID
	// JoinedAt is the join time.
	JoinedAt time.Time
}

// Departure describes a completed leave: who left which room and who is
// still in it.
type Departure struct {
	Member    Member
	RoomID    string
	Remaining []Member
}

type roomState struct {
	id        string
	createdAt time.Time
	members   map[ConnID]Member
}

// Registry maps room ids to member sets. Rooms are created lazily on first
// join and destroyed the instant the last member leaves; the sweeper is a
// backstop only.
//
// All operations serialize under one lock and return copies, so snapshots
// are never observed mid-mutation and no caller does I/O under the lock.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*roomState
	byConn map[ConnID]string

	nowFn func() time.Time
	newID func() string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*roomState),
		byConn: make(map[ConnID]string),
		nowFn:  time.Now,
		newID:  uuid.NewString,
	}
}

// Join registers conn as a member of roomID, creating the room when it does
// not exist yet. A connection belongs to at most one room at a time: any
// prior membership is torn down first and reported as a Departure so the
// caller can notify the old room.
//
// Returns the new member record and a snapshot of all other current members.
func (r *Registry) Join(roomID string, conn ConnID, publicKey, displayName string) (Member, []Member, *Departure, error) {
	if roomID == "" {
		return Member{}, nil, nil, ErrRoomIDRequired
	}
	if publicKey == "" {
		return Member{}, nil, nil, ErrPublicKeyRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	departure := r.leaveLocked(conn)

	rm, ok := r.rooms[roomID]
	if !ok {
		rm = &roomState{
			id:        roomID,
			createdAt: r.nowFn(),
			members:   make(map[ConnID]Member),
		}
		r.rooms[roomID] = rm
	}

	memberID := r.newID()
	if displayName == "" {
		displayName = "guest-" + shortID(memberID)
	}
	member := Member{
		MemberID:    memberID,
		PublicKey:   publicKey,
		DisplayName: displayName,
		Conn:        conn,
		JoinedAt:    r.nowFn(),
	}

	others := snapshotExcept(rm, conn)
	rm.members[conn] = member
	r.byConn[conn] = roomID

	return member, others, departure, nil
}

// Leave removes conn from whatever room it is in. It is a no-op returning
// ok=false when conn is not a member of any room. Explicit leave requests
// and transport disconnects both go through here.
func (r *Registry) Leave(conn ConnID) (*Departure, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	departure := r.leaveLocked(conn)
	return departure, departure != nil
}

// leaveLocked removes conn from its room and destroys the room when it
// becomes empty. Caller holds r.mu.
func (r *Registry) leaveLocked(conn ConnID) *Departure {
	roomID, ok := r.byConn[conn]
	if !ok {
		return nil
	}
	delete(r.byConn, conn)

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	member, ok := rm.members[conn]
	if !ok {
		return nil
	}
	delete(rm.members, conn)

	if len(rm.members) == 0 {
		delete(r.rooms, roomID)
	}

	return &Departure{
		Member:    member,
		RoomID:    roomID,
		Remaining: snapshotExcept(rm, conn),
	}
}

// Lookup returns the member record and room id for a connection.
func (r *Registry) Lookup(conn ConnID) (Member, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.byConn[conn]
	if !ok {
		return Member{}, "", false
	}
	rm, ok := r.rooms[roomID]
	if !ok {
		return Member{}, "", false
	}
	member, ok := rm.members[conn]
	return member, roomID, ok
}

// MembersOf returns a snapshot of the room's members, or nil when the room
// does not exist.
func (r *Registry) MembersOf(roomID string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return snapshotExcept(rm, "")
}

// Resolve finds a member of roomID by member id.
func (r *Registry) Resolve(roomID, memberID string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return Member{}, false
	}
	for _, member := range rm.members {
		if member.MemberID == memberID {
			return member, true
		}
	}
	return Member{}, false
}

// Sweep deletes rooms that are empty and older than retention. Returns the
// number of rooms removed. Eager destruction on last leave makes this a
// backstop; it exists to bound memory growth if immediate cleanup was ever
// skipped.
func (r *Registry) Sweep(retention time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFn()
	removed := 0
	for id, rm := range r.rooms {
		if len(rm.members) == 0 && now.Sub(rm.createdAt) > retention {
			delete(r.rooms, id)
			removed++
		}
	}
	return removed
}

// RoomCount returns the number of active rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// MemberCount returns the number of members across all rooms.
func (r *Registry) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

func snapshotExcept(rm *roomState, skip ConnID) []Member {
	out := make([]Member, 0, len(rm.members))
	for conn, member := range rm.members {
		if conn == skip {
			continue
		}
		out = append(out, member)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
