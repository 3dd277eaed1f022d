package agendahub

import (
	"encoding/json"
	"net/http"

	"github.com/agendahub/agendahub/contract"
)

// Shared slog field names across the HTTP functions.
const (
	ErrorMsgLogField  = "errorMsg"
	userIDLogField    = "userID"
	chatIDLogField    = "chatID"
	contactIDLogField = "contactID"
	requestIDLogField = "requestID"
	meetingIDLogField = "meetingID"
	handleLogField    = "handle"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, contract.ErrorResponse{Error: msg})
}
