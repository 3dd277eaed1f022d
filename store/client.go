// Package store holds the Firestore document types and access helpers shared
// by the chat, contact and meeting services.
package store

import (
	"context"
	"errors"

	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// NewClient connects to Firestore in the project reported by the GCP
// metadata server.
func NewClient(ctx context.Context) (*firestore.Client, error) {
	projectID, err := metadata.ProjectIDWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return firestore.NewClient(ctx, projectID)
}

// AsNotFound converts a Firestore NotFound status into ErrNotFound and leaves
// every other error untouched.
func AsNotFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// IsNotFound reports whether err is a missing-document condition, either the
// local sentinel or the underlying gRPC status.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || status.Code(err) == codes.NotFound
}
