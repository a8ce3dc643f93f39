package sentry

import (
	"errors"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDSN = "https://public@sentry.example.com/1"

type eventSink struct {
	mu     sync.Mutex
	events []*sentry.Event
}

// drop 记录事件后丢弃，不发送
func (s *eventSink) drop(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *eventSink) list() []*sentry.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*sentry.Event(nil), s.events...)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{"nil", nil, ErrNilConfig},
		{"missing dsn", &Config{SampleRate: 1}, ErrInvalidDSN},
		{"sample rate too high", &Config{DSN: testDSN, SampleRate: 2}, ErrInvalidConfig},
		{"negative breadcrumbs", &Config{DSN: testDSN, SampleRate: 1, MaxBreadcrumbs: -1}, ErrInvalidConfig},
		{"valid", &Config{DSN: testDSN, SampleRate: 0.5}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEnabled(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.Enabled())
	assert.False(t, DefaultConfig().Enabled())
	assert.True(t, (&Config{DSN: testDSN}).Enabled())
}

func TestCaptureError(t *testing.T) {
	sink := &eventSink{}
	c, err := New(&Config{DSN: testDSN, Tags: map[string]string{"service": "lootpity"}}, WithBeforeSend(sink.drop))
	require.NoError(t, err)

	c.CaptureError(errors.New("profile failed"), map[string]string{"profile_id": "pmc1"})
	c.CaptureMessage("pass failed", LevelWarning, nil)
	assert.Nil(t, c.CaptureError(nil, nil))

	events := sink.list()
	require.Len(t, events, 2)
	assert.Equal(t, "pmc1", events[0].Tags["profile_id"])
	assert.Equal(t, "lootpity", events[0].Tags["service"])
	require.NotEmpty(t, events[0].Exception)
	assert.Equal(t, "profile failed", events[0].Exception[0].Value)

	assert.Equal(t, "pass failed", events[1].Message)
	assert.Equal(t, sentry.LevelWarning, events[1].Level)
	assert.NotContains(t, events[1].Tags, "profile_id")

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.EventsTotal)
	assert.Equal(t, uint64(2), stats.EventsDropped)

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Close(), ErrClientClosed)
	assert.Nil(t, c.CaptureError(errors.New("after close"), nil))
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(&Config{})
	assert.ErrorIs(t, err, ErrInvalidDSN)
}
