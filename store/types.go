package store

import (
	"time"

	"cloud.google.com/go/firestore"
)

// Collection names. Contacts live in a per-user subcollection so that each
// side of a contact relationship is writable independently; messages live in
// a per-conversation subcollection addressed by the resolved conversation id.
const (
	UsersCollection          = "users"
	ContactsCollection       = "contacts"
	ChatRequestsCollection   = "chatRequests"
	ChatsCollection          = "chats"
	MessagesCollection       = "messages"
	MeetingsCollection       = "meetings"
	ZoomTokensCollection     = "zoomTokens"
	CalendarTokensCollection = "calendarTokens"
)

// Contact types.
const (
	TypeDirect = "direct"
	TypeGroup  = "group"
)

// ChatRequest statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDenied   = "denied"
)

// User is a users/{uid} document, created on first sign-in and never
// explicitly deleted.
type User struct {
	UID          string   `firestore:"uid"`
	DisplayName  string   `firestore:"displayName"`
	Email        string   `firestore:"email,omitempty"`
	PhotoURL     string   `firestore:"photoURL,omitempty"`
	AgentHubID   string   `firestore:"agentHubId"`
	Phone        string   `firestore:"phone,omitempty"`
	BlockedUsers []string `firestore:"blockedUsers,omitempty"`
}

// Contact is a users/{uid}/contacts/{id} document. The document id is the
// peer uid for direct contacts and the group conversation id for groups.
type Contact struct {
	ID          string `firestore:"id"`
	DisplayName string `firestore:"displayName"`
	PhotoURL    string `firestore:"photoURL,omitempty"`
	AgentHubID  string `firestore:"agentHubId,omitempty"`
	Type        string `firestore:"type"`
	Pinned      bool   `firestore:"pinned,omitempty"`
}

// ChatRequest is a chatRequests/{id} document carrying display metadata for
// both sides so each side can build its contact entry without another lookup.
type ChatRequest struct {
	ID              string `firestore:"-"`
	From            string `firestore:"from"`
	FromDisplayName string `firestore:"fromDisplayName"`
	FromPhotoURL    string `firestore:"fromPhotoURL,omitempty"`
	FromAgentHubID  string `firestore:"fromAgentHubId"`
	To              string `firestore:"to"`
	ToDisplayName   string `firestore:"toDisplayName"`
	ToPhotoURL      string `firestore:"toPhotoURL,omitempty"`
	ToAgentHubID    string `firestore:"toAgentHubId"`
	Status          string `firestore:"status"`
}

// LastMessage is the denormalized summary kept on a conversation document.
type LastMessage struct {
	Text      string    `firestore:"text"`
	Timestamp time.Time `firestore:"timestamp"`
}

// Chat is a chats/{id} document. For direct conversations the document id is
// the sorted-and-joined participant pair, for groups a generated id.
type Chat struct {
	ID           string           `firestore:"-"`
	Participants []string         `firestore:"participants"`
	Type         string           `firestore:"type"`
	GroupName    string           `firestore:"groupName,omitempty"`
	CreatedBy    string           `firestore:"createdBy,omitempty"`
	CreatedAt    time.Time        `firestore:"createdAt,omitempty"`
	LastMessage  *LastMessage     `firestore:"lastMessage,omitempty"`
	UnreadCount  map[string]int64 `firestore:"unreadCount,omitempty"`
}

// Message is a chats/{id}/messages/{id} document. Messages are never
// physically removed, deletion is per-user (DeletedFor) or a tombstone
// (DeletedForEveryone).
type Message struct {
	ID                 string    `firestore:"-"`
	Text               string    `firestore:"text"`
	SenderID           string    `firestore:"senderId"`
	SenderName         string    `firestore:"senderName,omitempty"`
	SenderPhotoURL     string    `firestore:"senderPhotoURL,omitempty"`
	Timestamp          time.Time `firestore:"timestamp,serverTimestamp"`
	Edited             bool      `firestore:"edited,omitempty"`
	DeletedFor         []string  `firestore:"deletedFor,omitempty"`
	DeletedForEveryone bool      `firestore:"deletedForEveryone,omitempty"`
	Forwarded          bool      `firestore:"forwarded,omitempty"`
}

// Meeting statuses.
const (
	MeetingScheduled  = "scheduled"
	MeetingInProgress = "in_progress"
	MeetingCompleted  = "completed"
	MeetingCancelled  = "cancelled"
)

// Meeting is a meetings/{id} document. Start and end times are RFC 3339
// strings, range queries compare them lexicographically.
type Meeting struct {
	ID           string    `firestore:"-"`
	Title        string    `firestore:"title"`
	Description  string    `firestore:"description,omitempty"`
	StartTime    string    `firestore:"startTime,omitempty"`
	EndTime      string    `firestore:"endTime,omitempty"`
	CreatedBy    string    `firestore:"createdBy,omitempty"`
	Participants []string  `firestore:"participants,omitempty"`
	Status       string    `firestore:"status,omitempty"`
	JoinURL      string    `firestore:"joinUrl,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// OAuthToken is a zoomTokens/{uid} or calendarTokens/{uid} document.
type OAuthToken struct {
	AccessToken  string    `firestore:"access_token"`
	RefreshToken string    `firestore:"refresh_token,omitempty"`
	Expiry       time.Time `firestore:"expiry,omitempty"`
}

func Users(c *firestore.Client) *firestore.CollectionRef {
	return c.Collection(UsersCollection)
}

func Contacts(c *firestore.Client, uid string) *firestore.CollectionRef {
	return Users(c).Doc(uid).Collection(ContactsCollection)
}

func ChatRequests(c *firestore.Client) *firestore.CollectionRef {
	return c.Collection(ChatRequestsCollection)
}

func Chats(c *firestore.Client) *firestore.CollectionRef {
	return c.Collection(ChatsCollection)
}

func Messages(c *firestore.Client, chatID string) *firestore.CollectionRef {
	return Chats(c).Doc(chatID).Collection(MessagesCollection)
}

func Meetings(c *firestore.Client) *firestore.CollectionRef {
	return c.Collection(MeetingsCollection)
}
