package logger

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Fields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	lgr := FromLogrus("chat-service", base)

	lgr.Info("order_placed", "Order placed", "req-1", map[string]interface{}{"order_number": "1234"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Order placed", entry.Message)
	assert.Equal(t, "chat-service", entry.Data[FieldService])
	assert.Equal(t, "order_placed", entry.Data[FieldAction])
	assert.Equal(t, "req-1", entry.Data[FieldRequestID])
	assert.Equal(t, map[string]interface{}{"order_number": "1234"}, entry.Data[FieldDetails])
}

func TestLogger_ErrorCarriesErr(t *testing.T) {
	base, hook := test.NewNullLogger()
	lgr := FromLogrus("svc", base)

	boom := errors.New("boom")
	lgr.Error("publish_failed", "Failed to publish", "", nil, boom)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, boom, entry.Data[logrus.ErrorKey])
	assert.NotContains(t, entry.Data, FieldRequestID)
	assert.NotContains(t, entry.Data, FieldDetails)
}

func TestLogger_DebugFilteredByLevel(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)
	lgr := FromLogrus("svc", base)

	lgr.Debug("typing", "Typing", "", nil)
	assert.Empty(t, hook.AllEntries())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("x", "y", "", nil, errors.New("z"))
	})
}
