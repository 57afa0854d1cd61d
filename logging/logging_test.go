package logging

import (
	"testing"

	"yumzy-partner/config"

	log "github.com/sirupsen/logrus"
)

func TestSetup(t *testing.T) {
	defer Setup(config.Development)

	tests := []struct {
		env   string
		level log.Level
		json  bool
	}{
		{config.Development, log.DebugLevel, false},
		{"", log.DebugLevel, false},
		{config.Staging, log.InfoLevel, false},
		{config.Production, log.InfoLevel, true},
	}
	for _, tt := range tests {
		Setup(tt.env)
		if got := log.GetLevel(); got != tt.level {
			t.Errorf("Setup(%q) level = %v, want %v", tt.env, got, tt.level)
		}
		_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
		if isJSON != tt.json {
			t.Errorf("Setup(%q) json formatter = %v, want %v", tt.env, isJSON, tt.json)
		}
	}
}
