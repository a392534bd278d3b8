package helpers

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("app", "development", "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "").GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewLogger("app", "production", "warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "chatty").GetLevel())

	_, isJSON := NewLogger("app", "production", "").Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
