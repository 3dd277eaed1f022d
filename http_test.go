package agendahub

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/agendahub/agendahub/contract"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		msg      string
		expected string
	}{
		{
			name:     "Not found",
			status:   404,
			msg:      "User not found.",
			expected: "User not found.",
		},
		{
			name:     "Bad request",
			status:   400,
			msg:      "Invalid ID format.",
			expected: "Invalid ID format.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.status, tt.msg)

			if rec.Code != tt.status {
				t.Errorf("status = %d; want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q; want application/json", ct)
			}
			var body contract.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Error != tt.expected {
				t.Errorf("error = %q; want %q", body.Error, tt.expected)
			}
		})
	}
}
