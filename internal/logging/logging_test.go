package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", false)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewWithWriter_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "verbose", false)

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	if out := buf.String(); strings.Contains(out, `"debug"`) || !strings.Contains(out, `"message":"info"`) {
		t.Errorf("unexpected output: %q", out)
	}
}
