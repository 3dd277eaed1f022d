package chat

import (
	"slices"

	"github.com/agendahub/agendahub/store"
)

// VisibleTo reports whether uid should still see the message. Per-user
// deletion hides a message from the deleting user only.
func VisibleTo(msg store.Message, uid string) bool {
	return !slices.Contains(msg.DeletedFor, uid)
}

// VisibleMessages filters msgs down to the ones uid should see, preserving
// order.
func VisibleMessages(msgs []store.Message, uid string) []store.Message {
	var visible []store.Message
	for _, msg := range msgs {
		if VisibleTo(msg, uid) {
			visible = append(visible, msg)
		}
	}
	return visible
}

// DisplayText is the text a reader sees for a message. The tombstone of a
// message deleted for everyone wins over any stored text.
func DisplayText(msg store.Message) string {
	if msg.DeletedForEveryone {
		return Tombstone
	}
	return msg.Text
}

// ForwardCopy builds the message written into a forward target: the original
// text and edited flag, re-attributed to the forwarding user, with deletion
// state dropped and a fresh server timestamp assigned on write.
func ForwardCopy(msg store.Message, sender Sender) store.Message {
	return store.Message{
		Text:           msg.Text,
		Edited:         msg.Edited,
		Forwarded:      true,
		SenderID:       sender.UID,
		SenderName:     sender.Name,
		SenderPhotoURL: sender.PhotoURL,
	}
}
