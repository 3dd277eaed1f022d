package agendahub

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/go-chi/chi/v5"

	"github.com/agendahub/agendahub/auth"
	"github.com/agendahub/agendahub/contract"
	"github.com/agendahub/agendahub/log"
	"github.com/agendahub/agendahub/store"
	"github.com/agendahub/agendahub/zoom"
)

func init() {
	functions.HTTP("Zoom", Zoom)
}

// Zoom proxies the Zoom OAuth flow and meeting creation. The authorize and
// callback legs are driven by browser redirects and identify the user by the
// OAuth state parameter; meeting creation requires a Firebase token.
func Zoom(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(log.WithLogger(r.Context(), log.LoggerFromContext(r.Context())))

	router := chi.NewRouter()
	router.Get("/auth", zoomAuthorize)
	router.Get("/callback", zoomCallback)
	router.Post("/create-meeting", zoomCreateMeeting)
	router.ServeHTTP(w, r)
}

func zoomAuthorize(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	http.Redirect(w, r, zoom.OAuthConfig().AuthCodeURL(state), http.StatusFound)
}

func zoomCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		http.Error(w, "missing code or state", http.StatusBadRequest)
		return
	}

	tok, err := zoom.OAuthConfig().Exchange(ctx, code)
	if err != nil {
		logger.Error("error while exchanging zoom code", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Zoom OAuth failed", http.StatusInternalServerError)
		return
	}

	client, err := store.NewClient(ctx)
	if err != nil {
		logger.Error("error while connecting to firestore", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Zoom OAuth failed", http.StatusInternalServerError)
		return
	}
	defer client.Close()

	if err := zoom.SaveToken(ctx, client, state, tok); err != nil {
		logger.Error("error while storing zoom token", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Zoom OAuth failed", http.StatusInternalServerError)
		return
	}
	w.Write([]byte("Zoom account connected! You can close this window."))
}

func zoomCreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	identity, err := auth.Authenticate(r)
	if err != nil {
		logger.Error("error while authenticating", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	logger = logger.With(slog.String(userIDLogField, identity.UID))

	var req contract.CreateZoomMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := store.NewClient(ctx)
	if err != nil {
		logger.Error("error while connecting to firestore", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to create Zoom meeting")
		return
	}
	defer client.Close()

	tok, err := zoom.LoadToken(ctx, client, identity.UID)
	if store.IsNotFound(err) {
		writeError(w, http.StatusUnauthorized, "Zoom not connected")
		return
	}
	if err != nil {
		logger.Error("error while loading zoom token", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to create Zoom meeting")
		return
	}

	zc := zoom.NewClient(tok.AccessToken)
	zoomUserID, err := zc.Me(ctx)
	if err != nil {
		logger.Error("error while resolving zoom user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to create Zoom meeting")
		return
	}

	created, err := zc.CreateMeeting(ctx, zoomUserID, zoom.Meeting{
		Topic:     req.Topic,
		StartTime: req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		logger.Error("error while creating zoom meeting", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to create Zoom meeting")
		return
	}
	writeJSON(w, http.StatusOK, contract.CreateZoomMeetingResponse{
		JoinURL:   created.JoinURL,
		MeetingID: created.ID,
	})
}
