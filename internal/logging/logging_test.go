package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.TextFormatter{})
	})

	Setup("production", "debug")
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	Setup("development", "warn")
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)

	Setup("development", "chatty")
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
