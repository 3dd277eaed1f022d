package user

import "testing"

func TestHandleForUID(t *testing.T) {
	tests := []struct {
		name     string
		uid      string
		expected string
	}{
		{
			name:     "Long uid truncated to eight characters",
			uid:      "abc123def456ghi789",
			expected: "AGENDA-ABC123DE",
		},
		{
			name:     "Short uid kept whole",
			uid:      "ab12",
			expected: "AGENDA-AB12",
		},
		{
			name:     "Already uppercase uid",
			uid:      "ABCDEFGH123",
			expected: "AGENDA-ABCDEFGH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandleForUID(tt.uid); got != tt.expected {
				t.Errorf("HandleForUID(%q) = %q; want %q", tt.uid, got, tt.expected)
			}
		})
	}
}

func TestValidHandle(t *testing.T) {
	tests := []struct {
		name     string
		handle   string
		expected bool
	}{
		{
			name:     "Derived handle is valid",
			handle:   HandleForUID("abc123def456"),
			expected: true,
		},
		{
			name:     "Missing prefix",
			handle:   "ABC123DE",
			expected: false,
		},
		{
			name:     "Prefix alone",
			handle:   "AGENDA-",
			expected: false,
		},
		{
			name:     "Lowercase prefix",
			handle:   "agenda-abc123de",
			expected: false,
		},
		{
			name:     "Empty string",
			handle:   "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidHandle(tt.handle); got != tt.expected {
				t.Errorf("ValidHandle(%q) = %v; want %v", tt.handle, got, tt.expected)
			}
		})
	}
}
