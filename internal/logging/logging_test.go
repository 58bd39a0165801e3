package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jorge-barreto/splice/internal/config"
)

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.Log{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.WithFields(logrus.Fields{"file": "main.go", "blocks": 2}).Debug("applied")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not json: %q", buf.String())
	}
	if entry["msg"] != "applied" || entry["file"] != "main.go" {
		t.Fatalf("got %v", entry)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.Log{Level: "warn"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(config.Log{Level: "chatty"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see")
}
