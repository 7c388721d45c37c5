package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Lead Nurture", "lead-nurture"},
		{"already a slug", "lead-nurture", "lead-nurture"},
		{"punctuation collapses", "New Order!! (EU)", "new-order-eu"},
		{"leading and trailing junk", "  #Invoice Sync#  ", "invoice-sync"},
		{"mixed case and digits", "Q3 2025 Follow-Up", "q3-2025-follow-up"},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
