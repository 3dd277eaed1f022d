// Package chat implements the conversation resolver and the message
// pipeline: sending, editing, per-user and for-everyone deletion, forwarding
// and unread-counter bookkeeping over the Firestore chats collection.
package chat

import "github.com/agendahub/agendahub/store"

// Tombstone replaces the text of a message deleted for everyone.
const Tombstone = "This message was deleted"

// ConversationID derives the document id of the direct conversation between
// two users. Symmetric and idempotent, both participants always resolve the
// same id: the lexicographically smaller uid comes first.
func ConversationID(a, b string) string {
	if a < b {
		return a + "_" + b
	}
	return b + "_" + a
}

// Target is the conversation a chat operation addresses, the contact-list
// entry the caller selected: a peer uid for direct chats, a group
// conversation id for groups.
type Target struct {
	ID   string
	Type string
}

// ConversationID resolves the chats document id for uid's conversation with
// the target. Group ids pass through unchanged.
func (t Target) ConversationID(uid string) string {
	if t.Type == store.TypeGroup {
		return t.ID
	}
	return ConversationID(uid, t.ID)
}
