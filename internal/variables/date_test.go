package variables

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "1 de janeiro de 2026", FormatDate(d, "pt"))
	assert.Equal(t, "1 de janeiro de 2026", FormatDate(d, "pt_PT"))
	assert.Equal(t, "1 de janeiro de 2026", FormatDate(d, "fr"))
	assert.Equal(t, "January 1, 2026", FormatDate(d, "EN"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2026-10-16", true, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{"16/10/2026", true, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{"2026-10-16T08:00:00Z", true, time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)},
		{"ontem", false, time.Time{}},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), tt.in)
		}
	}
}
