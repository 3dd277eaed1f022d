package contact

import (
	"sort"
	"time"

	"github.com/agendahub/agendahub/chat"
	"github.com/agendahub/agendahub/store"
)

// Metadata is the per-conversation summary a contact list entry is decorated
// with: when the conversation last moved and how many messages the owner has
// not acknowledged yet.
type Metadata struct {
	LastMessageAt time.Time
	Unread        int64
}

// Entry is a contact as presented: the stored contact plus derived state.
type Entry struct {
	store.Contact
	LastMessageAt time.Time
	Unread        bool
}

// MetadataFor derives uid's per-conversation metadata from a full chats
// snapshot. Derivation is idempotent, snapshots can be applied in any order.
func MetadataFor(uid string, chats []store.Chat) map[string]Metadata {
	meta := make(map[string]Metadata, len(chats))
	for _, c := range chats {
		m := Metadata{Unread: c.UnreadCount[uid]}
		if c.LastMessage != nil {
			m.LastMessageAt = c.LastMessage.Timestamp
		}
		meta[c.ID] = m
	}
	return meta
}

// Sort orders uid's contacts for display: pinned contacts first, then most
// recently active conversations, and decorates each entry with its unread
// flag.
func Sort(uid string, contacts []store.Contact, meta map[string]Metadata) []Entry {
	entries := make([]Entry, 0, len(contacts))
	for _, c := range contacts {
		chatID := chat.Target{ID: c.ID, Type: c.Type}.ConversationID(uid)
		m := meta[chatID]
		entries = append(entries, Entry{
			Contact:       c,
			LastMessageAt: m.LastMessageAt,
			Unread:        m.Unread > 0,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Pinned != entries[j].Pinned {
			return entries[i].Pinned
		}
		return entries[i].LastMessageAt.After(entries[j].LastMessageAt)
	})
	return entries
}
