package agendahub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/go-chi/chi/v5"

	"github.com/agendahub/agendahub/auth"
	"github.com/agendahub/agendahub/contract"
	"github.com/agendahub/agendahub/log"
	"github.com/agendahub/agendahub/meeting"
	"github.com/agendahub/agendahub/render"
	"github.com/agendahub/agendahub/store"
)

func init() {
	functions.HTTP("Meetings", Meetings)
}

// Meetings serves the scheduling API: meeting CRUD, search, upcoming and
// per-user listings, participant management and status transitions.
func Meetings(w http.ResponseWriter, r *http.Request) {
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

	h := &meetingsHandler{identity: identity, meetings: meeting.NewService(client)}
	h.routes().ServeHTTP(w, r.WithContext(ctx))
}

type meetingsHandler struct {
	identity *auth.Identity
	meetings *meeting.Service
}

func (h *meetingsHandler) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/search", h.search)
	r.Get("/upcoming", h.upcoming)
	r.Get("/user/{email}", h.forUser)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/agenda", h.agenda)
	r.Post("/{id}/participants", h.addParticipant)
	r.Delete("/{id}/participants/{participant}", h.removeParticipant)
	r.Patch("/{id}/status", h.status)
	return r
}

func meetingResponse(m store.Meeting) contract.MeetingResponse {
	return contract.MeetingResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		CreatedBy:    m.CreatedBy,
		Participants: m.Participants,
		Status:       m.Status,
		JoinURL:      m.JoinURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func meetingResponses(meetings []store.Meeting) []contract.MeetingResponse {
	resp := make([]contract.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		resp = append(resp, meetingResponse(m))
	}
	return resp
}

func (h *meetingsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meetings, err := h.meetings.List(ctx)
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while listing meetings", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch meetings")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponses(meetings))
}

func (h *meetingsHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req contract.MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	m, err := h.meetings.Create(ctx, store.Meeting{
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CreatedBy:    h.identity.Email,
		Participants: req.Participants,
		JoinURL:      req.JoinURL,
	})
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while creating meeting", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to create meeting")
		return
	}
	writeJSON(w, http.StatusCreated, meetingResponse(m))
}

func (h *meetingsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	m, err := h.meetings.Get(ctx, id)
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while fetching meeting",
			slog.String(meetingIDLogField, id),
			slog.String(ErrorMsgLogField, err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to fetch meeting")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(m))
}

func (h *meetingsHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req contract.UpdateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.meetings.Apply(ctx, id, meeting.Update{
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Participants: req.Participants,
		JoinURL:      req.JoinURL,
	})
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while updating meeting",
			slog.String(meetingIDLogField, id),
			slog.String(ErrorMsgLogField, err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to update meeting")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(m))
}

func (h *meetingsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	err := h.meetings.Delete(ctx, id)
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while deleting meeting",
			slog.String(meetingIDLogField, id),
			slog.String(ErrorMsgLogField, err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to delete meeting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *meetingsHandler) agenda(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	m, err := h.meetings.Get(ctx, id)
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while fetching meeting",
			slog.String(meetingIDLogField, id),
			slog.String(ErrorMsgLogField, err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to fetch meeting")
		return
	}
	writeJSON(w, http.StatusOK, contract.AgendaResponse{HTML: render.Agenda(m.Description)})
}

func (h *meetingsHandler) search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	meetings, err := h.meetings.Search(ctx, meeting.SearchQuery{
		Text:        q.Get("query"),
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
		Participant: q.Get("participant"),
	})
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while searching meetings", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to search meetings")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponses(meetings))
}

func (h *meetingsHandler) upcoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meetings, err := h.meetings.Upcoming(ctx)
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while fetching upcoming meetings", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch upcoming meetings")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponses(meetings))
}

func (h *meetingsHandler) forUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")
	meetings, err := h.meetings.ForUser(ctx, email)
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while fetching user meetings", slog.String(ErrorMsgLogField, err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch user meetings")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponses(meetings))
}

func (h *meetingsHandler) addParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req contract.AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Participant == "" {
		writeError(w, http.StatusBadRequest, "Participant email is required")
		return
	}

	m, err := h.meetings.AddParticipant(ctx, id, req.Participant)
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while adding participant",
			slog.String(meetingIDLogField, id),
			slog.String(ErrorMsgLogField, err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to add participant")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(m))
}

func (h *meetingsHandler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	participant := chi.URLParam(r, "participant")

	m, err := h.meetings.RemoveParticipant(ctx, id, participant)
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while removing participant",
			slog.String(meetingIDLogField, id),
			slog.String(ErrorMsgLogField, err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to remove participant")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(m))
}

func (h *meetingsHandler) status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req contract.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.meetings.SetStatus(ctx, id, req.Status)
	if errors.Is(err, meeting.ErrInvalidStatus) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		log.LoggerFromContext(ctx).Error("error while updating status",
			slog.String(meetingIDLogField, id),
			slog.String(ErrorMsgLogField, err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to update meeting status")
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(m))
}
