package render

import (
	"strings"
	"testing"
)

func TestAgenda(t *testing.T) {
	tests := []struct {
		name        string
		md          string
		contains    []string
		notContains []string
	}{
		{
			name:     "Headings and lists survive",
			md:       "# Agenda\n\n- intros\n- roadmap",
			contains: []string{"<h1", "Agenda", "<li>intros</li>", "<li>roadmap</li>"},
		},
		{
			name:        "Script tags are stripped",
			md:          "hello <script>alert(1)</script> world",
			contains:    []string{"hello", "world"},
			notContains: []string{"<script>", "alert(1)"},
		},
		{
			name:     "Emphasis renders",
			md:       "discuss *budget* first",
			contains: []string{"<em>budget</em>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Agenda(tt.md)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Agenda(%q) = %q; missing %q", tt.md, got, want)
				}
			}
			for _, bad := range tt.notContains {
				if strings.Contains(got, bad) {
					t.Errorf("Agenda(%q) = %q; should not contain %q", tt.md, got, bad)
				}
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "Plain text unchanged",
			in:       "see you at 10",
			expected: "see you at 10",
		},
		{
			name:     "Tags removed, content kept",
			in:       "<b>see you</b> at 10",
			expected: "see you at 10",
		},
		{
			name:     "Script removed entirely",
			in:       "hi<script>alert(1)</script>",
			expected: "hi",
		},
		{
			name:     "Ampersand kept verbatim",
			in:       "Tom & Jerry",
			expected: "Tom & Jerry",
		},
		{
			name:     "Comparison kept verbatim",
			in:       "1 < 2",
			expected: "1 < 2",
		},
		{
			name:     "Quotes and apostrophes kept verbatim",
			in:       `say "hi" to 'them', don't forget`,
			expected: `say "hi" to 'them', don't forget`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.expected {
				t.Errorf("CleanText(%q) = %q; want %q", tt.in, got, tt.expected)
			}
		})
	}
}
