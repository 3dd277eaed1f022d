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
	"github.com/agendahub/agendahub/user"
)

func init() {
	functions.HTTP("User", User)
}

// User serves the profile API. Fetching the caller's profile provisions the
// user document on first sign-in, so clients just call GET /me after
// authenticating.
func User(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	identity, err := auth.Authenticate(r)
	if err != nil {
		logger.Error("error while authenticating", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	logger = logger.With(slog.String(userIDLogField, identity.UID))
	ctx = log.WithLogger(ctx, logger)

	client, err := store.NewClient(ctx)
	if err != nil {
		logger.Error("error while connecting to firestore", slog.String(ErrorMsgLogField, err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer client.Close()

	h := &userHandler{identity: identity, users: user.NewService(client)}
	h.routes().ServeHTTP(w, r.WithContext(ctx))
}

type userHandler struct {
	identity *auth.Identity
	users    *user.Service
}

func (h *userHandler) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.me)
	r.Put("/me", h.updateProfile)
	return r
}

func userResponse(u store.User) contract.UserResponse {
	return contract.UserResponse{
		UID:         u.UID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		AgentHubID:  u.AgentHubID,
		Phone:       u.Phone,
	}
}

func (h *userHandler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := h.users.Ensure(ctx, h.identity)
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while loading user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to get user profile")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(u))
}

func (h *userHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contract.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Provision first so a profile edit straight after sign-in works.
	if _, err := h.users.Ensure(ctx, h.identity); err != nil {
		log.LoggerFromContext(ctx).Error("error while loading user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	err := h.users.UpdateProfile(ctx, h.identity.UID, user.Profile{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Phone:       req.Phone,
	})
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while updating profile", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	u, err := h.users.Get(ctx, h.identity.UID)
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while reloading user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(u))
}
