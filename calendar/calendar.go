// Package calendar proxies the Google Calendar OAuth flow; the frontend
// talks to the Calendar API itself once connected.
package calendar

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/agendahub/agendahub/store"
)

const calendarScope = "https://www.googleapis.com/auth/calendar.events"

var (
	clientID     = os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL  = os.Getenv("GOOGLE_REDIRECT_URI")
)

// OAuthConfig is the Google Calendar authorization-code flow configuration.
func OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendarScope},
		Endpoint:     google.Endpoint,
	}
}

// SaveToken persists a user's Calendar credentials.
func SaveToken(ctx context.Context, client *firestore.Client, uid string, tok *oauth2.Token) error {
	_, err := client.Collection(store.CalendarTokensCollection).Doc(uid).Set(ctx, store.OAuthToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return fmt.Errorf("failed to store calendar token: %w", err)
	}
	return nil
}

// LoadToken retrieves a user's Calendar credentials; store.ErrNotFound means
// the account is not connected.
func LoadToken(ctx context.Context, client *firestore.Client, uid string) (store.OAuthToken, error) {
	doc, err := client.Collection(store.CalendarTokensCollection).Doc(uid).Get(ctx)
	if err != nil {
		return store.OAuthToken{}, store.AsNotFound(err)
	}
	var tok store.OAuthToken
	if err := doc.DataTo(&tok); err != nil {
		return store.OAuthToken{}, err
	}
	return tok, nil
}
