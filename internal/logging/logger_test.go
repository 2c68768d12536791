package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	Info().Str("mood", "happy").Msg("recommended")
	Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, `"mood":"happy"`) {
		t.Errorf("expected structured field, got %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level: %s", out)
	}
}

func TestComponentTag(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	l := Component("ranking")
	l.Debug().Msg("scored")

	if !strings.Contains(buf.String(), `"component":"ranking"`) {
		t.Errorf("expected component field, got %s", buf.String())
	}
}
