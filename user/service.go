// Package user manages users/{uid} documents: provisioning on first
// sign-in, profile updates, the public handle and the block list.
package user

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/agendahub/agendahub/auth"
	"github.com/agendahub/agendahub/store"
)

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

// Ensure returns the caller's user document, creating it on first sign-in.
// The handle is derived once at creation and never changes.
func (s *Service) Ensure(ctx context.Context, id *auth.Identity) (store.User, error) {
	ref := store.Users(s.client).Doc(id.UID)
	doc, err := ref.Get(ctx)
	if err == nil {
		var u store.User
		if err := doc.DataTo(&u); err != nil {
			return store.User{}, err
		}
		return u, nil
	}
	if !store.IsNotFound(err) {
		return store.User{}, fmt.Errorf("failed to read user %s: %w", id.UID, err)
	}

	u := store.User{
		UID:         id.UID,
		DisplayName: displayName(id),
		Email:       id.Email,
		PhotoURL:    id.Picture,
		AgentHubID:  HandleForUID(id.UID),
	}
	if _, err := ref.Set(ctx, u); err != nil {
		return store.User{}, fmt.Errorf("failed to create user %s: %w", id.UID, err)
	}
	return u, nil
}

func displayName(id *auth.Identity) string {
	if id.Name != "" {
		return id.Name
	}
	if at := strings.Index(id.Email, "@"); at > 0 {
		return id.Email[:at]
	}
	return id.UID
}

// Get fetches a user document by uid.
func (s *Service) Get(ctx context.Context, uid string) (store.User, error) {
	doc, err := store.Users(s.client).Doc(uid).Get(ctx)
	if err != nil {
		return store.User{}, store.AsNotFound(err)
	}
	var u store.User
	if err := doc.DataTo(&u); err != nil {
		return store.User{}, err
	}
	return u, nil
}

// Profile is a partial profile update; nil fields are left untouched.
type Profile struct {
	DisplayName *string
	PhotoURL    *string
	Phone       *string
}

// UpdateProfile merges the given fields into the user document.
func (s *Service) UpdateProfile(ctx context.Context, uid string, p Profile) error {
	var updates []firestore.Update
	if p.DisplayName != nil {
		updates = append(updates, firestore.Update{Path: "displayName", Value: *p.DisplayName})
	}
	if p.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoURL", Value: *p.PhotoURL})
	}
	if p.Phone != nil {
		updates = append(updates, firestore.Update{Path: "phone", Value: *p.Phone})
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := store.Users(s.client).Doc(uid).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to update profile of %s: %w", uid, err)
	}
	return nil
}

// Block hides the peer from uid's side of every direct conversation; the
// union write is idempotent.
func (s *Service) Block(ctx context.Context, uid, peerUID string) error {
	_, err := store.Users(s.client).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "blockedUsers", Value: firestore.ArrayUnion(peerUID)},
	})
	if err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	return nil
}

// Unblock reverses Block.
func (s *Service) Unblock(ctx context.Context, uid, peerUID string) error {
	_, err := store.Users(s.client).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "blockedUsers", Value: firestore.ArrayRemove(peerUID)},
	})
	if err != nil {
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	return nil
}
