// Package contact maintains each user's contact list and the bidirectional
// chat-request handshake that fills it.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/agendahub/agendahub/log"
	"github.com/agendahub/agendahub/store"
	"github.com/agendahub/agendahub/user"
)

var (
	ErrInvalidHandle = errors.New("invalid handle format")
	ErrSelfRequest   = errors.New("cannot send a request to yourself")
	ErrUserNotFound  = errors.New("user not found")
)

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

// SendRequest looks the target up by public handle and creates a pending
// chat request carrying both sides' display metadata.
func (s *Service) SendRequest(ctx context.Context, from store.User, handle string) error {
	if !user.ValidHandle(handle) {
		return ErrInvalidHandle
	}

	docs, err := store.Users(s.client).Where("agentHubId", "==", handle).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to look up handle: %w", err)
	}
	if len(docs) == 0 {
		return ErrUserNotFound
	}
	var target store.User
	if err := docs[0].DataTo(&target); err != nil {
		return err
	}
	if target.UID == from.UID {
		return ErrSelfRequest
	}

	_, _, err = store.ChatRequests(s.client).Add(ctx, store.ChatRequest{
		From:            from.UID,
		FromDisplayName: from.DisplayName,
		FromPhotoURL:    from.PhotoURL,
		FromAgentHubID:  from.AgentHubID,
		To:              target.UID,
		ToDisplayName:   target.DisplayName,
		ToPhotoURL:      target.PhotoURL,
		ToAgentHubID:    target.AgentHubID,
		Status:          store.StatusPending,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat request: %w", err)
	}
	return nil
}

// AcceptRequest writes the sender into the recipient's contact list and
// marks the request accepted. The symmetric contact entry on the sender's
// side is written by the reconciliation pass, which then consumes the
// request; an accepted request never outlives its conversion.
func (s *Service) AcceptRequest(ctx context.Context, uid string, req store.ChatRequest) error {
	if req.To != uid {
		return store.ErrNotFound
	}
	_, err := store.Contacts(s.client, uid).Doc(req.From).Set(ctx, store.Contact{
		ID:          req.From,
		DisplayName: req.FromDisplayName,
		PhotoURL:    req.FromPhotoURL,
		AgentHubID:  req.FromAgentHubID,
		Type:        store.TypeDirect,
	})
	if err != nil {
		return fmt.Errorf("failed to add contact: %w", err)
	}
	_, err = store.ChatRequests(s.client).Doc(req.ID).Update(ctx, []firestore.Update{
		{Path: "status", Value: store.StatusAccepted},
	})
	if err != nil {
		return fmt.Errorf("failed to mark request accepted: %w", err)
	}
	return nil
}

// DenyRequest deletes the request outright.
func (s *Service) DenyRequest(ctx context.Context, requestID string) error {
	_, err := store.ChatRequests(s.client).Doc(requestID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to deny request: %w", err)
	}
	return nil
}

// Request fetches a single chat request by id.
func (s *Service) Request(ctx context.Context, requestID string) (store.ChatRequest, error) {
	doc, err := store.ChatRequests(s.client).Doc(requestID).Get(ctx)
	if err != nil {
		return store.ChatRequest{}, store.AsNotFound(err)
	}
	var req store.ChatRequest
	if err := doc.DataTo(&req); err != nil {
		return store.ChatRequest{}, err
	}
	req.ID = doc.Ref.ID
	return req, nil
}

// PendingRequests lists the requests waiting for uid's decision.
func (s *Service) PendingRequests(ctx context.Context, uid string) ([]store.ChatRequest, error) {
	q := store.ChatRequests(s.client).
		Where("to", "==", uid).
		Where("status", "==", store.StatusPending)
	return s.requests(ctx, q)
}

// ReconcileAccepted completes the handshake for every accepted request sent
// by uid: the recipient is written into the sender's contact list, then the
// request is deleted. Called whenever uid's contact list is assembled, so
// acceptance converges without waiting for the resident reconciler.
func (s *Service) ReconcileAccepted(ctx context.Context, uid string) error {
	q := store.ChatRequests(s.client).
		Where("from", "==", uid).
		Where("status", "==", store.StatusAccepted)
	reqs, err := s.requests(ctx, q)
	if err != nil {
		return err
	}
	for _, req := range reqs {
		if err := s.completeAccepted(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// WatchAccepted runs the same handshake completion as a live listener over
// all accepted requests, for the resident reconciler worker. Returns the
// listener's stop function.
func (s *Service) WatchAccepted(ctx context.Context) func() {
	q := store.ChatRequests(s.client).Where("status", "==", store.StatusAccepted)
	return store.Watch(ctx, q, func(ctx context.Context, docs []*firestore.DocumentSnapshot) {
		logger := log.LoggerFromContext(ctx)
		for _, doc := range docs {
			var req store.ChatRequest
			if err := doc.DataTo(&req); err != nil {
				logger.Error("skipping undecodable request", slog.String("errorMsg", err.Error()))
				continue
			}
			req.ID = doc.Ref.ID
			if err := s.completeAccepted(ctx, req); err != nil {
				logger.Error("failed to complete handshake",
					slog.String("requestID", req.ID),
					slog.String("errorMsg", err.Error()),
				)
			}
		}
	})
}

func (s *Service) completeAccepted(ctx context.Context, req store.ChatRequest) error {
	_, err := store.Contacts(s.client, req.From).Doc(req.To).Set(ctx, store.Contact{
		ID:          req.To,
		DisplayName: req.ToDisplayName,
		PhotoURL:    req.ToPhotoURL,
		AgentHubID:  req.ToAgentHubID,
		Type:        store.TypeDirect,
	})
	if err != nil {
		return fmt.Errorf("failed to write symmetric contact: %w", err)
	}
	if _, err := store.ChatRequests(s.client).Doc(req.ID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to consume request %s: %w", req.ID, err)
	}
	return nil
}

func (s *Service) requests(ctx context.Context, q firestore.Query) ([]store.ChatRequest, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var reqs []store.ChatRequest
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chat requests: %w", err)
		}
		var req store.ChatRequest
		if err := doc.DataTo(&req); err != nil {
			return nil, err
		}
		req.ID = doc.Ref.ID
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// CreateGroup creates a group conversation and fans the matching contact
// entry out to every participant in one atomic batch: either all of them
// receive the group contact or none do.
func (s *Service) CreateGroup(ctx context.Context, creatorUID, name string, memberIDs []string) (store.Contact, error) {
	if name == "" {
		return store.Contact{}, errors.New("group name is required")
	}
	participants := append([]string{creatorUID}, memberIDs...)

	groupID := uuid.NewString()
	unread := make(map[string]int64, len(participants))
	for _, p := range participants {
		unread[p] = 0
	}
	_, err := store.Chats(s.client).Doc(groupID).Set(ctx, store.Chat{
		Participants: participants,
		Type:         store.TypeGroup,
		GroupName:    name,
		CreatedBy:    creatorUID,
		CreatedAt:    time.Now(),
		UnreadCount:  unread,
	})
	if err != nil {
		return store.Contact{}, fmt.Errorf("failed to create group conversation: %w", err)
	}

	groupContact := store.Contact{
		ID:          groupID,
		DisplayName: name,
		Type:        store.TypeGroup,
	}
	batch := s.client.Batch()
	for _, p := range participants {
		batch.Set(store.Contacts(s.client, p).Doc(groupID), groupContact)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return store.Contact{}, fmt.Errorf("failed to fan out group contact: %w", err)
	}
	return groupContact, nil
}

// Delete removes a contact from uid's list; for groups this is how a user
// leaves the group.
func (s *Service) Delete(ctx context.Context, uid, contactID string) error {
	_, err := store.Contacts(s.client, uid).Doc(contactID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// List returns uid's contacts.
func (s *Service) List(ctx context.Context, uid string) ([]store.Contact, error) {
	it := store.Contacts(s.client, uid).Documents(ctx)
	defer it.Stop()

	var contacts []store.Contact
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read contacts: %w", err)
		}
		var c store.Contact
		if err := doc.DataTo(&c); err != nil {
			return nil, err
		}
		if c.ID == "" {
			c.ID = doc.Ref.ID
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// Chats returns the conversation documents uid participates in, keyed by
// conversation id, the raw material for unread badges and ordering.
func (s *Service) Chats(ctx context.Context, uid string) ([]store.Chat, error) {
	it := store.Chats(s.client).Where("participants", "array-contains", uid).Documents(ctx)
	defer it.Stop()

	var chats []store.Chat
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read conversations: %w", err)
		}
		var c store.Chat
		if err := doc.DataTo(&c); err != nil {
			return nil, err
		}
		c.ID = doc.Ref.ID
		chats = append(chats, c)
	}
	return chats, nil
}
