// Package agendahub holds the Agenda Hub HTTP function entrypoints: team
// chat, meeting scheduling, user profiles and the Zoom/Google Calendar OAuth
// proxies.
package agendahub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/go-chi/chi/v5"

	"github.com/agendahub/agendahub/auth"
	"github.com/agendahub/agendahub/chat"
	"github.com/agendahub/agendahub/contact"
	"github.com/agendahub/agendahub/contract"
	"github.com/agendahub/agendahub/log"
	"github.com/agendahub/agendahub/store"
	"github.com/agendahub/agendahub/user"
)

func init() {
	functions.HTTP("Chat", Chat)
}

// Chat serves the chat API: contacts, requests, groups, blocking and the
// message pipeline. Every route acts as the authenticated caller.
func Chat(w http.ResponseWriter, r *http.Request) {
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

	h := &chatHandler{
		identity: identity,
		client:   client,
		users:    user.NewService(client),
		contacts: contact.NewService(client),
		messages: chat.NewService(client),
	}
	h.routes().ServeHTTP(w, r.WithContext(ctx))
}

type chatHandler struct {
	identity *auth.Identity
	client   *firestore.Client
	users    *user.Service
	contacts *contact.Service
	messages *chat.Service
}

func (h *chatHandler) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/contacts", h.listContacts)
	r.Post("/contacts/requests", h.sendRequest)
	r.Get("/contacts/requests", h.pendingRequests)
	r.Post("/contacts/requests/{requestID}/accept", h.acceptRequest)
	r.Delete("/contacts/requests/{requestID}", h.denyRequest)
	r.Post("/contacts/groups", h.createGroup)
	r.Delete("/contacts/{contactID}", h.deleteContact)
	r.Post("/contacts/{contactID}/block", h.blockContact)
	r.Delete("/contacts/{contactID}/block", h.unblockContact)
	r.Get("/chats/{contactID}/messages", h.listMessages)
	r.Post("/chats/{contactID}/messages", h.sendMessage)
	r.Put("/chats/{contactID}/messages/{messageID}", h.editMessage)
	r.Delete("/chats/{contactID}/messages/{messageID}", h.deleteMessage)
	r.Post("/chats/{contactID}/messages/{messageID}/forward", h.forwardMessage)
	r.Post("/chats/{contactID}/open", h.openChat)
	r.Post("/chats/{contactID}/clear", h.clearChat)
	return r
}

// target resolves the conversation a chat route addresses; direct unless the
// request says otherwise.
func target(r *http.Request) chat.Target {
	t := chat.Target{
		ID:   chi.URLParam(r, "contactID"),
		Type: r.URL.Query().Get("type"),
	}
	if t.Type == "" {
		t.Type = store.TypeDirect
	}
	return t
}

func (h *chatHandler) listContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	// Complete any handshakes accepted since the caller last looked, so the
	// list converges even if the reconciler worker is down.
	if err := h.contacts.ReconcileAccepted(ctx, h.identity.UID); err != nil {
		logger.Error("error while reconciling accepted requests", slog.String(ErrorMsgLogField, err.Error()))
	}

	contacts, err := h.contacts.List(ctx, h.identity.UID)
	if err != nil {
		logger.Error("error while listing contacts", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	chats, err := h.contacts.Chats(ctx, h.identity.UID)
	if err != nil {
		logger.Error("error while listing conversations", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	entries := contact.Sort(h.identity.UID, contacts, contact.MetadataFor(h.identity.UID, chats))
	resp := make([]contract.ContactResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, contract.ContactResponse{
			ID:            e.ID,
			DisplayName:   e.DisplayName,
			PhotoURL:      e.PhotoURL,
			AgentHubID:    e.AgentHubID,
			Type:          e.Type,
			Pinned:        e.Pinned,
			Unread:        e.Unread,
			LastMessageAt: e.LastMessageAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *chatHandler) sendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	var req contract.AddContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	logger = logger.With(slog.String(handleLogField, req.Handle))

	me, err := h.users.Ensure(ctx, h.identity)
	if err != nil {
		logger.Error("error while loading user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to send request")
		return
	}

	switch err := h.contacts.SendRequest(ctx, me, req.Handle); {
	case errors.Is(err, contact.ErrInvalidHandle):
		writeError(w, http.StatusBadRequest, "Invalid ID format.")
	case errors.Is(err, contact.ErrSelfRequest):
		writeError(w, http.StatusBadRequest, "You can't add yourself.")
	case errors.Is(err, contact.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found.")
	case err != nil:
		logger.Error("error while sending chat request", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to send request")
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

func (h *chatHandler) pendingRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	reqs, err := h.contacts.PendingRequests(ctx, h.identity.UID)
	if err != nil {
		logger.Error("error while listing requests", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	resp := make([]contract.ChatRequestResponse, 0, len(reqs))
	for _, req := range reqs {
		resp = append(resp, contract.ChatRequestResponse{
			ID:              req.ID,
			From:            req.From,
			FromDisplayName: req.FromDisplayName,
			FromPhotoURL:    req.FromPhotoURL,
			FromAgentHubID:  req.FromAgentHubID,
			Status:          req.Status,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *chatHandler) acceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi.URLParam(r, "requestID")
	logger := log.LoggerFromContext(ctx).With(slog.String(requestIDLogField, requestID))

	req, err := h.contacts.Request(ctx, requestID)
	if store.IsNotFound(err) || (err == nil && req.To != h.identity.UID) {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		logger.Error("error while loading request", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to accept request")
		return
	}
	if err := h.contacts.AcceptRequest(ctx, h.identity.UID, req); err != nil {
		logger.Error("error while accepting request", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to accept request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) denyRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi.URLParam(r, "requestID")
	logger := log.LoggerFromContext(ctx).With(slog.String(requestIDLogField, requestID))

	if err := h.contacts.DenyRequest(ctx, requestID); err != nil {
		logger.Error("error while denying request", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to deny request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) createGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.LoggerFromContext(ctx)

	var req contract.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "group name is required")
		return
	}

	groupContact, err := h.contacts.CreateGroup(ctx, h.identity.UID, req.Name, req.MemberIDs)
	if err != nil {
		logger.Error("error while creating group", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create group")
		return
	}
	writeJSON(w, http.StatusCreated, contract.ContactResponse{
		ID:          groupContact.ID,
		DisplayName: groupContact.DisplayName,
		Type:        groupContact.Type,
	})
}

func (h *chatHandler) deleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contactID := chi.URLParam(r, "contactID")
	logger := log.LoggerFromContext(ctx).With(slog.String(contactIDLogField, contactID))

	if err := h.contacts.Delete(ctx, h.identity.UID, contactID); err != nil {
		logger.Error("error while deleting contact", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) blockContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contactID := chi.URLParam(r, "contactID")
	logger := log.LoggerFromContext(ctx).With(slog.String(contactIDLogField, contactID))

	if err := h.users.Block(ctx, h.identity.UID, contactID); err != nil {
		logger.Error("error while blocking user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to block user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) unblockContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contactID := chi.URLParam(r, "contactID")
	logger := log.LoggerFromContext(ctx).With(slog.String(contactIDLogField, contactID))

	if err := h.users.Unblock(ctx, h.identity.UID, contactID); err != nil {
		logger.Error("error while unblocking user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to unblock user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := target(r)
	logger := log.LoggerFromContext(ctx).With(slog.String(chatIDLogField, t.ConversationID(h.identity.UID)))

	msgs, err := h.messages.Messages(ctx, h.identity.UID, t)
	if err != nil {
		logger.Error("error while listing messages", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	resp := make([]contract.MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		resp = append(resp, contract.MessageResponse{
			ID:             msg.ID,
			Text:           chat.DisplayText(msg),
			SenderID:       msg.SenderID,
			SenderName:     msg.SenderName,
			SenderPhotoURL: msg.SenderPhotoURL,
			Timestamp:      msg.Timestamp,
			Edited:         msg.Edited,
			Forwarded:      msg.Forwarded,
			Deleted:        msg.DeletedForEveryone,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *chatHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := target(r)
	logger := log.LoggerFromContext(ctx).With(slog.String(chatIDLogField, t.ConversationID(h.identity.UID)))

	var req contract.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	me, err := h.users.Ensure(ctx, h.identity)
	if err != nil {
		logger.Error("error while loading user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}
	sender := chat.Sender{UID: me.UID, Name: me.DisplayName, PhotoURL: me.PhotoURL}

	switch err := h.messages.Send(ctx, sender, t, req.Text); {
	case errors.Is(err, chat.ErrBlockedByYou):
		writeError(w, http.StatusForbidden, "You have blocked this user.")
	case errors.Is(err, chat.ErrBlockedByPeer):
		writeError(w, http.StatusForbidden, "You have been blocked by this user.")
	case err != nil:
		logger.Error("error while sending message", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to send message")
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

func (h *chatHandler) editMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := target(r)
	messageID := chi.URLParam(r, "messageID")
	chatID := t.ConversationID(h.identity.UID)
	logger := log.LoggerFromContext(ctx).With(slog.String(chatIDLogField, chatID))

	var req contract.EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := h.messages.Edit(ctx, chatID, messageID, req.Text); {
	case errors.Is(err, chat.ErrMessageDeleted):
		writeError(w, http.StatusConflict, "message was deleted")
	case store.IsNotFound(err):
		writeError(w, http.StatusNotFound, "message not found")
	case err != nil:
		logger.Error("error while editing message", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to edit message")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *chatHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := target(r)
	messageID := chi.URLParam(r, "messageID")
	chatID := t.ConversationID(h.identity.UID)
	logger := log.LoggerFromContext(ctx).With(slog.String(chatIDLogField, chatID))

	var err error
	if r.URL.Query().Get("scope") == "everyone" {
		err = h.messages.DeleteForEveryone(ctx, chatID, messageID)
	} else {
		err = h.messages.DeleteForMe(ctx, h.identity.UID, chatID, messageID)
	}
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	if err != nil {
		logger.Error("error while deleting message", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to delete message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) forwardMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := target(r)
	messageID := chi.URLParam(r, "messageID")
	chatID := t.ConversationID(h.identity.UID)
	logger := log.LoggerFromContext(ctx).With(slog.String(chatIDLogField, chatID))

	var req contract.ForwardMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Recipients) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := store.Messages(h.client, chatID).Doc(messageID).Get(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		logger.Error("error while loading message", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to forward message")
		return
	}
	var msg store.Message
	if err := doc.DataTo(&msg); err != nil {
		logger.Error("error while decoding message", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to forward message")
		return
	}

	me, err := h.users.Ensure(ctx, h.identity)
	if err != nil {
		logger.Error("error while loading user", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to forward message")
		return
	}
	sender := chat.Sender{UID: me.UID, Name: me.DisplayName, PhotoURL: me.PhotoURL}

	targets := make([]chat.Target, 0, len(req.Recipients))
	for _, rcpt := range req.Recipients {
		targets = append(targets, chat.Target{ID: rcpt.ID, Type: rcpt.Type})
	}
	if err := h.messages.Forward(ctx, sender, msg, targets); err != nil {
		logger.Error("error while forwarding message", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to forward message")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *chatHandler) openChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := target(r)
	logger := log.LoggerFromContext(ctx).With(slog.String(chatIDLogField, t.ConversationID(h.identity.UID)))

	if err := h.messages.MarkRead(ctx, h.identity.UID, t); err != nil {
		logger.Error("error while resetting unread counter", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to open conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) clearChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := target(r)
	logger := log.LoggerFromContext(ctx).With(slog.String(chatIDLogField, t.ConversationID(h.identity.UID)))

	if err := h.messages.ClearForMe(ctx, h.identity.UID, t); err != nil {
		logger.Error("error while clearing conversation", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to clear conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
