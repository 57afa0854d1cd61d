package logging

import (
	"yumzy-partner/config"

	log "github.com/sirupsen/logrus"
)

// Setup configures the global logger for the environment.
func Setup(env string) {
	switch env {
	case config.Production:
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.JSONFormatter{})
	case config.Staging:
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
	default:
		log.SetLevel(log.DebugLevel)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	}
}
