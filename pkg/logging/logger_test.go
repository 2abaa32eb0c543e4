package logging

import (
	"testing"

	"github.com/steemit/condenser/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"json format", config.LoggingConfig{Level: "INFO", Format: "json"}},
		{"text format", config.LoggingConfig{Level: "DEBUG", Format: "text"}},
		{"scalyr format", config.LoggingConfig{Level: "INFO", Format: "json", ScalyrFormat: true}},
		{"invalid level falls back to info", config.LoggingConfig{Level: "bogus", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("InitLogger() error: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	Logger = nil
	if GetLogger() == nil {
		t.Fatal("GetLogger should return a fallback logger")
	}
}

func TestWithComponent(t *testing.T) {
	Logger = nil
	child := WithComponent("like-store")
	if child == nil {
		t.Fatal("WithComponent returned nil")
	}
}
