package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/ghmirror/internal/application"
)

func TestRelativeDate(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23 * time.Hour, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{29 * 24 * time.Hour, "29 days ago"},
		{30 * 24 * time.Hour, "1 month ago"},
		{364 * 24 * time.Hour, "12 months ago"},
		{365 * 24 * time.Hour, "1 year ago"},
		{3 * 365 * 24 * time.Hour, "3 years ago"},
		{-time.Hour, "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, application.RelativeDate(now.Add(-tt.ago), now))
		})
	}
}

func TestCountdown(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2m 5s", application.Countdown(now.Add(2*time.Minute+5*time.Second), now))
	assert.Equal(t, "59s", application.Countdown(now.Add(59*time.Second+500*time.Millisecond), now))
	assert.Equal(t, "1m 0s", application.Countdown(now.Add(time.Minute), now))
	assert.Equal(t, "", application.Countdown(now, now))
	assert.Equal(t, "", application.Countdown(now.Add(-time.Second), now))
}

func TestCompactCount(t *testing.T) {
	assert.Equal(t, "0", application.CompactCount(0))
	assert.Equal(t, "999", application.CompactCount(999))
	assert.Equal(t, "1.0k", application.CompactCount(1000))
	assert.Equal(t, "1.2k", application.CompactCount(1234))
	assert.Equal(t, "230.0k", application.CompactCount(230000))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 comment", application.Plural(1, "comment"))
	assert.Equal(t, "0 comments", application.Plural(0, "comment"))
	assert.Equal(t, "5 files", application.Plural(5, "file"))
}
