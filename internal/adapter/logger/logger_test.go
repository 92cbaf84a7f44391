package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerAdapter_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	adapter := NewWithLogger(log)
	adapter.Info("Vehicle created", map[string]interface{}{"vehicle_id": "abc"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Vehicle created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["vehicle_id"])
}

func TestLoggerAdapter_NilFields(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	NewWithLogger(log).Warn("Shutting down", nil)
	assert.Contains(t, buf.String(), "Shutting down")
}

func TestLoggerAdapter_RespectsLevel(t *testing.T) {
	adapter := NewLoggerAdapter("production", "warn")

	assert.Equal(t, logrus.WarnLevel, adapter.log.GetLevel())
	_, isJSON := adapter.log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestLoggerAdapter_UnknownLevelDefaultsToInfo(t *testing.T) {
	adapter := NewLoggerAdapter("development", "loud")

	assert.Equal(t, logrus.InfoLevel, adapter.log.GetLevel())
	_, isText := adapter.log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}
