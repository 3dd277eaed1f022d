package auth

import (
	"net/http"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// Identity is the verified caller of a request. Services receive it
// explicitly, there is no ambient current-user state anywhere.
type Identity struct {
	UID     string
	Name    string
	Email   string
	Picture string
}

// Authenticate verifies the Firebase ID token carried in the request's
// Authorization header and returns the caller's identity.
func Authenticate(req *http.Request) (*Identity, error) {
	ctx := req.Context()
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		return nil, err
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	jwtToken, err := BearerTokenFromRequest(req)
	if err != nil {
		return nil, err
	}
	token, err := client.VerifyIDToken(ctx, jwtToken)
	if err != nil {
		return nil, err
	}
	return identityFromToken(token), nil
}

func identityFromToken(token *auth.Token) *Identity {
	id := &Identity{UID: token.UID}
	if v, ok := token.Claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := token.Claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		id.Picture = v
	}
	return id
}
