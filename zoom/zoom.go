// Package zoom proxies the Zoom OAuth flow and the meeting-creation API.
package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2"

	"github.com/agendahub/agendahub/store"
)

const (
	apiBaseURL = "https://api.zoom.us"

	authorizationHeader = "Authorization"
	contentTypeHeader   = "Content-Type"
)

var (
	clientID     = os.Getenv("ZOOM_CLIENT_ID")
	clientSecret = os.Getenv("ZOOM_CLIENT_SECRET")
	redirectURL  = os.Getenv("ZOOM_REDIRECT_URI")
)

// OAuthConfig is the Zoom authorization-code flow configuration.
func OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://zoom.us/oauth/authorize",
			TokenURL: "https://zoom.us/oauth/token",
		},
	}
}

// SaveToken persists a user's Zoom credentials.
func SaveToken(ctx context.Context, client *firestore.Client, uid string, tok *oauth2.Token) error {
	_, err := client.Collection(store.ZoomTokensCollection).Doc(uid).Set(ctx, store.OAuthToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return fmt.Errorf("failed to store zoom token: %w", err)
	}
	return nil
}

// LoadToken retrieves a user's Zoom credentials; store.ErrNotFound means the
// account is not connected.
func LoadToken(ctx context.Context, client *firestore.Client, uid string) (store.OAuthToken, error) {
	doc, err := client.Collection(store.ZoomTokensCollection).Doc(uid).Get(ctx)
	if err != nil {
		return store.OAuthToken{}, store.AsNotFound(err)
	}
	var tok store.OAuthToken
	if err := doc.DataTo(&tok); err != nil {
		return store.OAuthToken{}, err
	}
	return tok, nil
}

// Client calls the Zoom REST API on behalf of one connected user.
type Client struct {
	accessToken string
}

func NewClient(accessToken string) *Client {
	return &Client{accessToken: accessToken}
}

type meUserResponse struct {
	ID string `json:"id"`
}

// Me returns the Zoom user id of the token's owner.
func (c *Client) Me(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBaseURL+"/v2/users/me", http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Add(authorizationHeader, "Bearer "+c.accessToken)
	req.Header.Add(contentTypeHeader, "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var me meUserResponse
	if err := json.Unmarshal(body, &me); err != nil {
		return "", err
	}
	return me.ID, nil
}

// Meeting is a scheduled Zoom meeting request.
type Meeting struct {
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
}

// CreatedMeeting is the part of Zoom's response the scheduler cares about.
type CreatedMeeting struct {
	ID      int64  `json:"id"`
	JoinURL string `json:"join_url"`
}

// CreateMeeting schedules a meeting under the given Zoom user.
func (c *Client) CreateMeeting(ctx context.Context, zoomUserID string, m Meeting) (*CreatedMeeting, error) {
	if m.Type == 0 {
		m.Type = 2 // scheduled meeting
	}
	if m.Timezone == "" {
		m.Timezone = "UTC"
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		apiBaseURL+fmt.Sprintf("/v2/users/%s/meetings", zoomUserID),
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Add(authorizationHeader, "Bearer "+c.accessToken)
	req.Header.Add(contentTypeHeader, "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var created CreatedMeeting
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
