package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocaleAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"30 000,00", "30000.00", true},
		{"30 000,00 ₸", "30000.00", true},
		{"0,00", "0.00", true},
		{"1500.5", "1500.50", true},
		{"-5 000,00 ₸", "-5000.00", true},
		{"- 5 000,00", "-5000.00", true},
		{"1.234.567,89", "1234567.89", true},
		{"KZT 12", "12.00", true},
		{"", "0.00", false},
		{"   ", "0.00", false},
		{"нет", "0.00", false},
		{"--", "0.00", false},
		{"1-2", "0.00", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseLocaleAmount(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestParseSourceDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"01.10.2025 14:59:11", "2025-10-01"},
		{"01.10.2025", "2025-10-01"},
		{" 31.12.2024 ", "2024-12-31"},
		{"2025-10-01", "2025-10-01"},
		{"2025-10-01T23:30:00+06:00", "2025-10-01"},
		{"2025-10-01 08:00:00", "2025-10-01"},
		{"15/03/2025", "2025-03-15"},
		{"15.03.25", "2025-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseSourceDate(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got.Format(dateLayout))
		})
	}
}

func TestParseSourceDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "вчера", "32.13.2025", "2025/10/01"} {
		_, ok := ParseSourceDate(raw)
		assert.False(t, ok, "ParseSourceDate(%q)", raw)
	}
}
