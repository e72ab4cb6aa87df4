// Package logging configures the process-wide logrus logger.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup points logrus at stdout, picks a formatter for the environment and applies
// the configured level. An unknown level falls back to info and is reported once.
func Setup(env, level string) {
	log.SetOutput(os.Stdout)

	if env == "production" {
		// JSON lines are what the log shipper expects in production.
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
		return
	}
	log.SetLevel(lvl)
}
