package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)

		logger.Info("hello")
		if buf.Len() == 0 {
			t.Error("expected log output to be written")
		}
	})

	t.Run("NewLogger defaults to stderr with a nil writer", func(t *testing.T) {
		if NewLogger(nil) == nil {
			t.Error("expected a logger")
		}
	})

	t.Run("WithLogger stamps every entry with the given fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "component", "http")

		logger.Info("request")
		if !bytes.Contains(buf.Bytes(), []byte("component")) {
			t.Errorf("expected component field in output: %s", buf.String())
		}
	})

	t.Run("SetLogLevel filters lower levels", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)

		SetLogLevel(logger, log.WarnLevel)
		logger.Info("quiet")
		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %s", buf.String())
		}

		SetLogLevel(logger, log.DebugLevel)
		logger.Debug("loud")
		if buf.Len() == 0 {
			t.Error("expected debug output after lowering the level")
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}
