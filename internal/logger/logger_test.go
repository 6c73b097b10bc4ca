package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("builds development logger", func(t *testing.T) {
		log, err := New(config.LogConfig{Env: "development", Level: "debug"})
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Error("Expected debug level to be enabled")
		}
	})

	t.Run("builds production logger at info", func(t *testing.T) {
		log, err := New(config.LogConfig{Env: "production", Level: "info"})
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if log.Core().Enabled(zapcore.DebugLevel) {
			t.Error("Expected debug level to be disabled")
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
			t.Error("Expected error for unknown level")
		}
	})
}
