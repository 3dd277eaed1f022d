// gentoken mints a Firebase ID token for a given uid, for exercising the
// deployed functions by hand: a custom token is created with the service
// account credentials and exchanged for an ID token via the Identity Toolkit
// REST API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/joho/godotenv"
)

const signInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithCustomToken"

const defaultCredentialsFile = "service_account_key.json"

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

func main() {
	_ = godotenv.Load()

	uid := flag.String("uid", "", "uid to mint a token for")
	apiKey := flag.String("apikey", os.Getenv("FIREBASE_API_KEY"), "Firebase web API key")
	credentials := flag.String("credentials", envOr("FIREBASE_CREDENTIALS_FILE", defaultCredentialsFile), "service account key file")
	flag.Parse()

	if *uid == "" {
		log.Fatal("missing -uid flag")
	}
	if *apiKey == "" {
		log.Fatal("missing -apikey flag or FIREBASE_API_KEY")
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(*credentials))
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("failed to get auth client: %v", err)
	}

	customToken, err := client.CustomToken(ctx, *uid)
	if err != nil {
		log.Fatalf("failed to create custom token: %v", err)
	}

	idToken, err := exchange(ctx, *apiKey, customToken)
	if err != nil {
		log.Fatalf("failed to exchange custom token: %v", err)
	}
	fmt.Println(idToken)
}

// exchange trades a custom token for an ID token usable as a bearer token
// against the functions.
func exchange(ctx context.Context, apiKey, customToken string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"token":             customToken,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInURL+"?key="+apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(body))
	}

	var signIn signInResponse
	if err := json.Unmarshal(body, &signIn); err != nil {
		return "", err
	}
	return signIn.IDToken, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
