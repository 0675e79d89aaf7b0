package chat

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"aichat/internal/clock"
	"aichat/internal/kv"
)

// StorageSlot is the persistence slot name for the chat store.
const StorageSlot = "chat-storage"

var ErrEmptyRoomName = errors.New("chat: room name is required")

// Store holds the chat state and is its only writer. Every mutation updates
// the in-memory state first, then persists a snapshot best-effort; a failed
// persist is logged and the in-memory state stays authoritative.
type Store struct {
	mu      sync.Mutex
	state   State
	pending int // in-flight exchanges backing the typing flag

	entropy *ulid.MonotonicEntropy

	kv    kv.Store
	clock clock.Clock
	log   *slog.Logger
}

func NewStore(ctx context.Context, store kv.Store, clk clock.Clock, log *slog.Logger) *Store {
	s := &Store{
		state:   State{Messages: make(map[string][]Message)},
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		kv:      store,
		clock:   clk,
		log:     log,
	}
	var saved State
	found, err := store.Load(ctx, StorageSlot, &saved)
	if err != nil {
		log.Error("restore chat state", "err", err)
	}
	if found {
		if saved.Messages == nil {
			saved.Messages = make(map[string][]Message)
		}
		s.state = saved
	}
	return s
}

// persistLocked snapshots the state under the lock, then writes it out.
// Callers must hold s.mu.
func (s *Store) persistLocked() {
	snap := s.snapshotLocked()
	if err := s.kv.Save(context.Background(), StorageSlot, snap); err != nil {
		s.log.Error("persist chat state", "err", err)
	}
}

func (s *Store) snapshotLocked() State {
	snap := State{
		Rooms:       append([]Room(nil), s.state.Rooms...),
		Messages:    make(map[string][]Message, len(s.state.Messages)),
		CurrentRoom: s.state.CurrentRoom,
		Typing:      s.state.Typing,
		SearchQuery: s.state.SearchQuery,
	}
	for id, msgs := range s.state.Messages {
		snap.Messages[id] = append([]Message(nil), msgs...)
	}
	return snap
}

// NewRoomID returns a monotonic, creation-time-ordered room id.
func (s *Store) NewRoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String()
}

// CreateRoom builds a room with a fresh id and prepends it to the
// collection. The name must be non-empty after trimming.
func (s *Store) CreateRoom(name string) (Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Room{}, ErrEmptyRoomName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	room := Room{
		ID:        ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String(),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}
	s.state.Rooms = append([]Room{room}, s.state.Rooms...)
	s.persistLocked()
	return room, nil
}

// AddRoom prepends the room, keeping the collection newest-created first.
// Id collisions are caller error and are not checked here.
func (s *Store) AddRoom(room Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Rooms = append([]Room{room}, s.state.Rooms...)
	s.persistLocked()
}

// SetRooms replaces the whole room collection.
func (s *Store) SetRooms(rooms []Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Rooms = append([]Room(nil), rooms...)
	s.persistLocked()
}

// DeleteRoom removes the room and its entire message history in one step,
// and clears the current-room pointer when it referenced the deleted room.
// Deleting an unknown id is a no-op.
func (s *Store) DeleteRoom(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := s.state.Rooms[:0]
	for _, r := range s.state.Rooms {
		if r.ID != id {
			rooms = append(rooms, r)
		}
	}
	s.state.Rooms = rooms
	delete(s.state.Messages, id)
	if s.state.CurrentRoom == id {
		s.state.CurrentRoom = ""
	}
	s.persistLocked()
}

func (s *Store) SetCurrentRoom(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentRoom = id
	s.persistLocked()
}

// AddMessage appends to the end of the room's history, creating the
// sequence when absent. The room's last-message fields are not touched;
// that is UpdateLastMessage's job.
func (s *Store) AddMessage(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Messages[m.RoomID] = append(s.state.Messages[m.RoomID], m)
	s.persistLocked()
}

// SetMessages replaces the room's history wholesale.
func (s *Store) SetMessages(roomID string, msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Messages[roomID] = append([]Message(nil), msgs...)
	s.persistLocked()
}

// PrependMessages inserts older history ahead of what is already loaded,
// preserving the batch's internal order. Used by backward pagination only.
func (s *Store) PrependMessages(roomID string, older []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := make([]Message, 0, len(older)+len(s.state.Messages[roomID]))
	merged = append(merged, older...)
	merged = append(merged, s.state.Messages[roomID]...)
	s.state.Messages[roomID] = merged
	s.persistLocked()
}

func (s *Store) SetTyping(typing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = 0
	s.state.Typing = typing
	s.persistLocked()
}

// BeginTyping marks one more exchange pending. The flag stays up until the
// last overlapping exchange releases it, so one send finishing cannot
// clobber another still in flight.
func (s *Store) BeginTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
	s.state.Typing = true
	s.persistLocked()
}

func (s *Store) EndTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending > 0 {
		s.pending--
	}
	s.state.Typing = s.pending > 0
	s.persistLocked()
}

func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchQuery = q
	s.persistLocked()
}

// UpdateLastMessage sets the derived last-message fields on the matching
// room and leaves every other room untouched.
func (s *Store) UpdateLastMessage(roomID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.state.Rooms {
		if r.ID == roomID {
			s.state.Rooms[i].LastMessage = content
			s.state.Rooms[i].LastMessageTime = s.clock.Now()
		}
	}
	s.persistLocked()
}

func (s *Store) Rooms() []Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Room(nil), s.state.Rooms...)
}

func (s *Store) Room(id string) (Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.state.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

func (s *Store) MessagesFor(roomID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.state.Messages[roomID]...)
}

func (s *Store) CurrentRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentRoom
}

func (s *Store) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Typing
}

func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SearchQuery
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// FilterRooms is the listing-view match: case-insensitive substring over
// room name and last message. An empty query matches everything.
func FilterRooms(rooms []Room, query string) []Room {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rooms
	}
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if strings.Contains(strings.ToLower(r.Name), query) ||
			strings.Contains(strings.ToLower(r.LastMessage), query) {
			out = append(out, r)
		}
	}
	return out
}
