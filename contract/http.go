// Package contract defines the JSON bodies of the HTTP functions.
package contract

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

// TargetRef addresses a conversation: a peer uid for direct chats, a group
// conversation id for groups.
type TargetRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type EditMessageRequest struct {
	Text string `json:"text"`
}

type ForwardMessageRequest struct {
	Recipients []TargetRef `json:"recipients"`
}

type MessageResponse struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName,omitempty"`
	SenderPhotoURL string    `json:"senderPhotoURL,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Edited         bool      `json:"edited,omitempty"`
	Forwarded      bool      `json:"forwarded,omitempty"`
	Deleted        bool      `json:"deleted,omitempty"`
}

type AddContactRequest struct {
	Handle string `json:"handle"`
}

type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

type ContactResponse struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"displayName"`
	PhotoURL      string    `json:"photoURL,omitempty"`
	AgentHubID    string    `json:"agentHubId,omitempty"`
	Type          string    `json:"type"`
	Pinned        bool      `json:"pinned,omitempty"`
	Unread        bool      `json:"unread,omitempty"`
	LastMessageAt time.Time `json:"lastMessageAt,omitempty"`
}

type ChatRequestResponse struct {
	ID              string `json:"id"`
	From            string `json:"from"`
	FromDisplayName string `json:"fromDisplayName"`
	FromPhotoURL    string `json:"fromPhotoURL,omitempty"`
	FromAgentHubID  string `json:"fromAgentHubId"`
	Status          string `json:"status"`
}

type UserResponse struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	AgentHubID  string `json:"agentHubId"`
	Phone       string `json:"phone,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	PhotoURL    *string `json:"photoURL,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

type MeetingRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	StartTime    string   `json:"startTime,omitempty"`
	EndTime      string   `json:"endTime,omitempty"`
	Participants []string `json:"participants,omitempty"`
	JoinURL      string   `json:"joinUrl,omitempty"`
}

type UpdateMeetingRequest struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	StartTime    *string   `json:"startTime,omitempty"`
	EndTime      *string   `json:"endTime,omitempty"`
	Participants *[]string `json:"participants,omitempty"`
	JoinURL      *string   `json:"joinUrl,omitempty"`
}

type MeetingResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	StartTime    string    `json:"startTime,omitempty"`
	EndTime      string    `json:"endTime,omitempty"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	Participants []string  `json:"participants,omitempty"`
	Status       string    `json:"status,omitempty"`
	JoinURL      string    `json:"joinUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AgendaResponse struct {
	HTML string `json:"html"`
}

type AddParticipantRequest struct {
	Participant string `json:"participant"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateZoomMeetingRequest struct {
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

type CreateZoomMeetingResponse struct {
	JoinURL   string `json:"join_url"`
	MeetingID int64  `json:"meetingId"`
}

type ConnectionStatusResponse struct {
	Connected bool `json:"connected"`
}
