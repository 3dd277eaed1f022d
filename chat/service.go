package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/agendahub/agendahub/log"
	"github.com/agendahub/agendahub/render"
	"github.com/agendahub/agendahub/store"
)

var (
	// ErrBlockedByYou and ErrBlockedByPeer distinguish the two directions of
	// a blocked relationship; callers surface them as notices, not faults.
	ErrBlockedByYou  = errors.New("you have blocked this user")
	ErrBlockedByPeer = errors.New("you have been blocked by this user")

	// ErrMessageDeleted rejects edits of a message already deleted for
	// everyone; the tombstone is terminal.
	ErrMessageDeleted = errors.New("message was deleted for everyone")
)

// Sender is the identity denormalized onto every message a user writes.
type Sender struct {
	UID      string
	Name     string
	PhotoURL string
}

// Service is the message pipeline. All operations take the acting user
// explicitly; there is no ambient session state.
type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

// Send appends a message to the target conversation, updates the
// conversation's last-message summary and bumps every other participant's
// unread counter. Whitespace-only text is a silent no-op. A blocked
// relationship in either direction rejects the send before anything is
// written.
func (s *Service) Send(ctx context.Context, sender Sender, target Target, text string) error {
	text = render.CleanText(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	if target.Type != store.TypeGroup {
		if err := s.checkBlocked(ctx, sender.UID, target.ID); err != nil {
			return err
		}
	}

	chatID := target.ConversationID(sender.UID)
	if target.Type != store.TypeGroup {
		if err := s.ensureConversation(ctx, chatID, sender.UID, target.ID); err != nil {
			return err
		}
	}

	_, _, err := store.Messages(s.client, chatID).Add(ctx, store.Message{
		Text:           text,
		SenderID:       sender.UID,
		SenderName:     sender.Name,
		SenderPhotoURL: sender.PhotoURL,
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	// Summary and unread bumps are separate writes from the append; a crash
	// in between leaves a message without a counter bump, which is accepted.
	if err := s.bumpConversation(ctx, chatID, sender.UID, text); err != nil {
		return fmt.Errorf("failed to update conversation summary: %w", err)
	}
	return nil
}

// checkBlocked rejects the send if either side has blocked the other,
// reporting which direction tripped.
func (s *Service) checkBlocked(ctx context.Context, senderUID, peerUID string) error {
	mine, err := s.blockedUsers(ctx, senderUID)
	if err != nil {
		return err
	}
	for _, id := range mine {
		if id == peerUID {
			return ErrBlockedByYou
		}
	}

	theirs, err := s.blockedUsers(ctx, peerUID)
	if err != nil {
		return err
	}
	for _, id := range theirs {
		if id == senderUID {
			return ErrBlockedByPeer
		}
	}
	return nil
}

func (s *Service) blockedUsers(ctx context.Context, uid string) ([]string, error) {
	doc, err := store.Users(s.client).Doc(uid).Get(ctx)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user %s: %w", uid, err)
	}
	var user store.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	return user.BlockedUsers, nil
}

// ensureConversation lazily creates the direct conversation document before
// the first message references it. The check-then-create is not
// transactional; two first-time senders can race, which is benign because
// both write the identical participants and type.
func (s *Service) ensureConversation(ctx context.Context, chatID, uid, peerUID string) error {
	ref := store.Chats(s.client).Doc(chatID)
	_, err := ref.Get(ctx)
	if err == nil {
		return nil
	}
	if !store.IsNotFound(err) {
		return fmt.Errorf("failed to read conversation %s: %w", chatID, err)
	}
	_, err = ref.Set(ctx, store.Chat{
		Participants: []string{uid, peerUID},
		Type:         store.TypeDirect,
	})
	if err != nil {
		return fmt.Errorf("failed to create conversation %s: %w", chatID, err)
	}
	return nil
}

func (s *Service) bumpConversation(ctx context.Context, chatID, senderUID, text string) error {
	ref := store.Chats(s.client).Doc(chatID)
	doc, err := ref.Get(ctx)
	if store.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var chat store.Chat
	if err := doc.DataTo(&chat); err != nil {
		return err
	}

	updates := []firestore.Update{
		{Path: "lastMessage", Value: map[string]any{
			"text":      text,
			"timestamp": firestore.ServerTimestamp,
		}},
	}
	for _, p := range chat.Participants {
		if p != senderUID {
			updates = append(updates, firestore.Update{
				Path:  "unreadCount." + p,
				Value: firestore.Increment(1),
			})
		}
	}
	_, err = ref.Update(ctx, updates)
	return err
}

// Edit overwrites a message's text and flags it as edited. A message already
// deleted for everyone stays a tombstone.
func (s *Service) Edit(ctx context.Context, chatID, messageID, newText string) error {
	newText = render.CleanText(strings.TrimSpace(newText))
	if newText == "" {
		return nil
	}

	ref := store.Messages(s.client, chatID).Doc(messageID)
	doc, err := ref.Get(ctx)
	if err != nil {
		return store.AsNotFound(err)
	}
	var msg store.Message
	if err := doc.DataTo(&msg); err != nil {
		return err
	}
	if msg.DeletedForEveryone {
		return ErrMessageDeleted
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "text", Value: newText},
		{Path: "edited", Value: true},
	})
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// DeleteForMe hides the message from uid only. The union write is
// idempotent.
func (s *Service) DeleteForMe(ctx context.Context, uid, chatID, messageID string) error {
	_, err := store.Messages(s.client, chatID).Doc(messageID).Update(ctx, []firestore.Update{
		{Path: "deletedFor", Value: firestore.ArrayUnion(uid)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete message for user: %w", err)
	}
	return nil
}

// DeleteForEveryone replaces the message text with the tombstone and sets the
// irreversible flag.
func (s *Service) DeleteForEveryone(ctx context.Context, chatID, messageID string) error {
	_, err := store.Messages(s.client, chatID).Doc(messageID).Update(ctx, []firestore.Update{
		{Path: "text", Value: Tombstone},
		{Path: "deletedForEveryone", Value: true},
	})
	if err != nil {
		return fmt.Errorf("failed to delete message for everyone: %w", err)
	}
	return nil
}

// Forward copies a message into each target conversation, re-attributed to
// the forwarding user with a fresh timestamp. Targets are handled
// independently: on failure, forwards already written stay in place.
func (s *Service) Forward(ctx context.Context, sender Sender, msg store.Message, targets []Target) error {
	for _, target := range targets {
		chatID := target.ConversationID(sender.UID)
		if target.Type != store.TypeGroup {
			if err := s.ensureConversation(ctx, chatID, sender.UID, target.ID); err != nil {
				return err
			}
		}
		_, _, err := store.Messages(s.client, chatID).Add(ctx, ForwardCopy(msg, sender))
		if err != nil {
			return fmt.Errorf("failed to forward message to %s: %w", target.ID, err)
		}
	}
	return nil
}

// ClearForMe marks every message of a conversation deleted for uid in one
// atomic batch. The conversation document and its unread counters stay.
func (s *Service) ClearForMe(ctx context.Context, uid string, target Target) error {
	chatID := target.ConversationID(uid)
	docs, err := store.Messages(s.client, chatID).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to read conversation messages: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	batch := s.client.Batch()
	for _, doc := range docs {
		batch.Update(doc.Ref, []firestore.Update{
			{Path: "deletedFor", Value: firestore.ArrayUnion(uid)},
		})
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}

// MarkRead zeroes uid's unread counter for the target conversation. A
// conversation document that does not exist yet is tolerated silently.
func (s *Service) MarkRead(ctx context.Context, uid string, target Target) error {
	chatID := target.ConversationID(uid)
	_, err := store.Chats(s.client).Doc(chatID).Update(ctx, []firestore.Update{
		{Path: "unreadCount." + uid, Value: 0},
	})
	if store.IsNotFound(err) {
		return nil
	}
	return err
}

// Messages returns the target conversation's messages in timestamp order,
// filtered down to the ones visible to uid.
func (s *Service) Messages(ctx context.Context, uid string, target Target) ([]store.Message, error) {
	chatID := target.ConversationID(uid)
	it := store.Messages(s.client, chatID).OrderBy("timestamp", firestore.Asc).Documents(ctx)
	defer it.Stop()

	logger := log.LoggerFromContext(ctx)
	var msgs []store.Message
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read messages: %w", err)
		}
		var msg store.Message
		if err := doc.DataTo(&msg); err != nil {
			logger.Error("skipping undecodable message", slog.String("errorMsg", err.Error()))
			continue
		}
		msg.ID = doc.Ref.ID
		msgs = append(msgs, msg)
	}
	return VisibleMessages(msgs, uid), nil
}
