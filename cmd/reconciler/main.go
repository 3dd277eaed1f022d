// The reconciler completes accepted chat-request handshakes: whenever a
// request reaches the accepted status, the recipient is written into the
// sender's contact list and the request is consumed.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/agendahub/agendahub/contact"
	"github.com/agendahub/agendahub/logger"
	"github.com/agendahub/agendahub/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg := logger.New(ctx, "reconciler")

	client, err := store.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to connect to firestore: %v", err)
	}
	defer client.Close()

	unwatch := contact.NewService(client).WatchAccepted(ctx)
	defer unwatch()

	lg.Println("request reconciler started")
	<-ctx.Done()
	lg.Println("request reconciler stopped")
}
