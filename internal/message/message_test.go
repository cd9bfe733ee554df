package message

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeConn struct {
	subj    string
	data    []byte
	err     error
	drained bool
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subj, f.data = subj, data
	return f.err
}

func (f *fakeConn) Drain() error { f.drained = true; return nil }

func TestNATSPublisher_EncodesJSON(t *testing.T) {
	fc := &fakeConn{}
	p := &NATSPublisher{nc: fc}

	err := p.Publish(context.Background(), "corpsite.contact.submitted",
		ContactSubmitted{ID: 3, Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "corpsite.contact.submitted", fc.subj)

	var got ContactSubmitted
	require.NoError(t, json.Unmarshal(fc.data, &got))
	assert.Equal(t, int64(3), got.ID)

	p.Close()
	assert.True(t, fc.drained)
}

func TestNATSPublisher_Errors(t *testing.T) {
	fc := &fakeConn{err: errors.New("nats: connection closed")}
	p := &NATSPublisher{nc: fc}
	assert.Error(t, p.Publish(context.Background(), "s", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "s", 1), context.Canceled)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := LogPublisher{Log: zap.New(core).Sugar()}

	require.NoError(t, p.Publish(context.Background(), "corpsite.contact.submitted", map[string]int{"id": 1}))
	entries := logs.FilterMessage("event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, `{"id":1}`, entries[0].ContextMap()["payload"])
}
