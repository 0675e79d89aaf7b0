package chat

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Room is one conversation thread. LastMessage and LastMessageTime are
// derived fields maintained through UpdateLastMessage only.
type Room struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Message is immutable once created. Image, when set, is a data URI
// embedded directly in the record.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Image     string    `json:"image,omitempty"`
	RoomID    string    `json:"chatRoomId"`
}

// State is the persisted snapshot shape of the chat store. Rooms are kept
// newest-created first; message sequences are chronological ascending.
type State struct {
	Rooms       []Room               `json:"chatRooms"`
	Messages    map[string][]Message `json:"messages"`
	CurrentRoom string               `json:"currentChatRoom,omitempty"`
	Typing      bool                 `json:"isTyping"`
	SearchQuery string               `json:"searchQuery"`
}
