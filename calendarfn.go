package agendahub

import (
	"log/slog"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/agendahub/agendahub/auth"
	"github.com/agendahub/agendahub/calendar"
	"github.com/agendahub/agendahub/contract"
	"github.com/agendahub/agendahub/log"
	"github.com/agendahub/agendahub/store"
)

func init() {
	functions.HTTP("Calendar", Calendar)
}

// Calendar proxies the Google Calendar OAuth flow, mirroring the Zoom
// function: redirect out, exchange the code on callback, persist the token.
func Calendar(w http.ResponseWriter, r *http.Request) {
	router := chi.NewRouter()
	router.Get("/auth", calendarAuthorize)
	router.Get("/callback", calendarCallback)
	router.Get("/status", calendarStatus)
	router.ServeHTTP(w, r)
}

func calendarAuthorize(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	url := calendar.OAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusFound)
}

func calendarCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		http.Error(w, "missing code or state", http.StatusBadRequest)
		return
	}

	tok, err := calendar.OAuthConfig().Exchange(ctx, code)
	if err != nil {
		logger.Error("error while exchanging google code", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Google OAuth failed", http.StatusInternalServerError)
		return
	}

	client, err := store.NewClient(ctx)
	if err != nil {
		logger.Error("error while connecting to firestore", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Google OAuth failed", http.StatusInternalServerError)
		return
	}
	defer client.Close()

	if err := calendar.SaveToken(ctx, client, state, tok); err != nil {
		logger.Error("error while storing calendar token", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Google OAuth failed", http.StatusInternalServerError)
		return
	}
	w.Write([]byte("Google Calendar connected! You can close this window."))
}

func calendarStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	identity, err := auth.Authenticate(r)
	if err != nil {
		logger.Error("error while authenticating", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	client, err := store.NewClient(ctx)
	if err != nil {
		logger.Error("error while connecting to firestore", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to check connection")
		return
	}
	defer client.Close()

	_, err = calendar.LoadToken(ctx, client, identity.UID)
	if err != nil && !store.IsNotFound(err) {
		logger.Error("error while loading calendar token", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to check connection")
		return
	}
	writeJSON(w, http.StatusOK, contract.ConnectionStatusResponse{Connected: err == nil})
}
