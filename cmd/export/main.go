// export copies the meetings collection into Postgres for reporting.
// Existing rows are updated, new ones inserted.
//
// POSTGRES_DSN="user=user password=pass dbname=agendahub host=127.0.0.1 port=5432 sslmode=disable" go run cmd/export/main.go
package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/agendahub/agendahub/meeting"
	"github.com/agendahub/agendahub/store"
)

const dbDriver = "postgres"

var schema = `
CREATE TABLE IF NOT EXISTS meeting (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    start_time TEXT,
    end_time TEXT,
    created_by TEXT,
    participants TEXT,
    status TEXT,
    join_url TEXT,
    created_at TIMESTAMP,
    updated_at TIMESTAMP
);`

const upsert = `
INSERT INTO meeting (id, title, description, start_time, end_time, created_by, participants, status, join_url, created_at, updated_at)
VALUES (:id, :title, :description, :start_time, :end_time, :created_by, :participants, :status, :join_url, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    start_time = EXCLUDED.start_time,
    end_time = EXCLUDED.end_time,
    created_by = EXCLUDED.created_by,
    participants = EXCLUDED.participants,
    status = EXCLUDED.status,
    join_url = EXCLUDED.join_url,
    updated_at = EXCLUDED.updated_at;`

type meetingRow struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	StartTime    string    `db:"start_time"`
	EndTime      string    `db:"end_time"`
	CreatedBy    string    `db:"created_by"`
	Participants string    `db:"participants"`
	Status       string    `db:"status"`
	JoinURL      string    `db:"join_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func main() {
	ctx := context.Background()

	client, err := store.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to connect to firestore: %v", err)
	}
	defer client.Close()

	meetings, err := meeting.NewService(client).List(ctx)
	if err != nil {
		log.Fatalf("failed to list meetings: %v", err)
	}
	log.Printf("fetched %d meetings", len(meetings))

	db, err := sqlx.Connect(dbDriver, os.Getenv("POSTGRES_DSN"))
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()
	db.MustExec(schema)

	exported := 0
	for _, m := range meetings {
		_, err := db.NamedExecContext(ctx, upsert, meetingRow{
			ID:           m.ID,
			Title:        m.Title,
			Description:  m.Description,
			StartTime:    m.StartTime,
			EndTime:      m.EndTime,
			CreatedBy:    m.CreatedBy,
			Participants: strings.Join(m.Participants, ","),
			Status:       m.Status,
			JoinURL:      m.JoinURL,
			CreatedAt:    m.CreatedAt,
			UpdatedAt:    m.UpdatedAt,
		})
		if err != nil {
			log.Fatalf("failed to export meeting %s: %v", m.ID, err)
		}
		exported++
	}
	log.Printf("exported %d meetings", exported)
}
