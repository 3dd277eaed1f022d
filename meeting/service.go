// Package meeting is the scheduling backend: meeting CRUD, search and
// participant management over the Firestore meetings collection.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/agendahub/agendahub/store"
)

// ErrInvalidStatus rejects status values outside the meeting lifecycle.
var ErrInvalidStatus = errors.New("invalid meeting status")

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

// Create stores a new meeting, stamping creation metadata and defaulting the
// status to scheduled.
func (s *Service) Create(ctx context.Context, m store.Meeting) (store.Meeting, error) {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = store.MeetingScheduled
	}
	ref, _, err := store.Meetings(s.client).Add(ctx, m)
	if err != nil {
		return store.Meeting{}, fmt.Errorf("failed to create meeting: %w", err)
	}
	m.ID = ref.ID
	return m, nil
}

// Get fetches one meeting by id.
func (s *Service) Get(ctx context.Context, id string) (store.Meeting, error) {
	doc, err := store.Meetings(s.client).Doc(id).Get(ctx)
	if err != nil {
		return store.Meeting{}, store.AsNotFound(err)
	}
	return decode(doc)
}

// List returns all meetings.
func (s *Service) List(ctx context.Context) ([]store.Meeting, error) {
	return s.collect(store.Meetings(s.client).Documents(ctx))
}

// Update is a partial meeting update; nil fields stay untouched.
type Update struct {
	Title        *string
	Description  *string
	StartTime    *string
	EndTime      *string
	Participants *[]string
	JoinURL      *string
}

// Apply merges the update into the stored meeting and refreshes its
// updatedAt stamp.
func (s *Service) Apply(ctx context.Context, id string, u Update) (store.Meeting, error) {
	ref := store.Meetings(s.client).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return store.Meeting{}, store.AsNotFound(err)
	}

	updates := []firestore.Update{{Path: "updatedAt", Value: time.Now()}}
	if u.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *u.Title})
	}
	if u.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *u.Description})
	}
	if u.StartTime != nil {
		updates = append(updates, firestore.Update{Path: "startTime", Value: *u.StartTime})
	}
	if u.EndTime != nil {
		updates = append(updates, firestore.Update{Path: "endTime", Value: *u.EndTime})
	}
	if u.Participants != nil {
		updates = append(updates, firestore.Update{Path: "participants", Value: *u.Participants})
	}
	if u.JoinURL != nil {
		updates = append(updates, firestore.Update{Path: "joinUrl", Value: *u.JoinURL})
	}
	if _, err := ref.Update(ctx, updates); err != nil {
		return store.Meeting{}, fmt.Errorf("failed to update meeting %s: %w", id, err)
	}

	doc, err := ref.Get(ctx)
	if err != nil {
		return store.Meeting{}, store.AsNotFound(err)
	}
	return decode(doc)
}

// Delete removes a meeting.
func (s *Service) Delete(ctx context.Context, id string) error {
	ref := store.Meetings(s.client).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return store.AsNotFound(err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete meeting %s: %w", id, err)
	}
	return nil
}

// SearchQuery narrows a meeting search. Participant and the time range go to
// the store; the free-text filter is applied in memory.
type SearchQuery struct {
	Text        string
	StartDate   string
	EndDate     string
	Participant string
}

// Search runs the query and returns chronologically sorted matches.
func (s *Service) Search(ctx context.Context, sq SearchQuery) ([]store.Meeting, error) {
	q := store.Meetings(s.client).Query
	if sq.Participant != "" {
		q = q.Where("participants", "array-contains", sq.Participant)
	}
	if sq.StartDate != "" {
		q = q.Where("startTime", ">=", sq.StartDate)
	}
	if sq.EndDate != "" {
		q = q.Where("endTime", "<=", sq.EndDate)
	}
	meetings, err := s.collect(q.Documents(ctx))
	if err != nil {
		return nil, err
	}
	return SortByStart(FilterByText(meetings, sq.Text)), nil
}

// Upcoming returns meetings starting after now, soonest first.
func (s *Service) Upcoming(ctx context.Context) ([]store.Meeting, error) {
	q := store.Meetings(s.client).
		Where("startTime", ">", time.Now().Format(time.RFC3339)).
		OrderBy("startTime", firestore.Asc)
	return s.collect(q.Documents(ctx))
}

// ForUser returns the meetings a user created or participates in, deduped
// and chronologically sorted.
func (s *Service) ForUser(ctx context.Context, email string) ([]store.Meeting, error) {
	created, err := s.collect(store.Meetings(s.client).Where("createdBy", "==", email).Documents(ctx))
	if err != nil {
		return nil, err
	}
	joined, err := s.collect(store.Meetings(s.client).Where("participants", "array-contains", email).Documents(ctx))
	if err != nil {
		return nil, err
	}
	return SortByStart(Dedupe(append(created, joined...))), nil
}

// AddParticipant adds the participant if not already present and returns the
// updated meeting.
func (s *Service) AddParticipant(ctx context.Context, id, participant string) (store.Meeting, error) {
	ref := store.Meetings(s.client).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return store.Meeting{}, store.AsNotFound(err)
	}
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "participants", Value: firestore.ArrayUnion(participant)},
	})
	if err != nil {
		return store.Meeting{}, fmt.Errorf("failed to add participant: %w", err)
	}
	return s.Get(ctx, id)
}

// RemoveParticipant drops the participant and returns the updated meeting.
func (s *Service) RemoveParticipant(ctx context.Context, id, participant string) (store.Meeting, error) {
	ref := store.Meetings(s.client).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return store.Meeting{}, store.AsNotFound(err)
	}
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "participants", Value: firestore.ArrayRemove(participant)},
	})
	if err != nil {
		return store.Meeting{}, fmt.Errorf("failed to remove participant: %w", err)
	}
	return s.Get(ctx, id)
}

// SetStatus moves the meeting through its lifecycle.
func (s *Service) SetStatus(ctx context.Context, id, status string) (store.Meeting, error) {
	if !ValidStatus(status) {
		return store.Meeting{}, ErrInvalidStatus
	}
	ref := store.Meetings(s.client).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return store.Meeting{}, store.AsNotFound(err)
	}
	_, err := ref.Update(ctx, []firestore.Update{{Path: "status", Value: status}})
	if err != nil {
		return store.Meeting{}, fmt.Errorf("failed to update status: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) collect(it *firestore.DocumentIterator) ([]store.Meeting, error) {
	defer it.Stop()
	var meetings []store.Meeting
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read meetings: %w", err)
		}
		m, err := decode(doc)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}

func decode(doc *firestore.DocumentSnapshot) (store.Meeting, error) {
	var m store.Meeting
	if err := doc.DataTo(&m); err != nil {
		return store.Meeting{}, fmt.Errorf("failed to decode meeting %s: %w", doc.Ref.ID, err)
	}
	m.ID = doc.Ref.ID
	return m, nil
}
