package store

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"

	"github.com/agendahub/agendahub/log"
)

// Watch registers fn as a live listener on q. Every time the query's result
// set changes fn is called with the full set of matching documents, so
// listeners must re-derive their state idempotently from each snapshot.
// The returned function deregisters the listener; cancelling ctx does too.
func Watch(ctx context.Context, q firestore.Query, fn func(ctx context.Context, docs []*firestore.DocumentSnapshot)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		logger := log.LoggerFromContext(ctx)
		it := q.Snapshots(ctx)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("query listener stopped", slog.String("errorMsg", err.Error()))
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("error while reading snapshot", slog.String("errorMsg", err.Error()))
				continue
			}
			fn(ctx, docs)
		}
	}()
	return cancel
}
