package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/splice/internal/editerr"
)

func fake(stdin string, tty bool, clip string) *Provider {
	return &Provider{
		Stdin:           strings.NewReader(stdin),
		StdinIsTerminal: func() bool { return tty },
		ReadClipboard:   func() (string, error) { return clip, nil },
		ReadFile:        os.ReadFile,
	}
}

func TestRead_PipedStdin(t *testing.T) {
	got, err := fake("payload", false, "").Read("", false)
	if err != nil || got != "payload" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestRead_DashForcesStdin(t *testing.T) {
	got, err := fake("payload", true, "").Read("-", false)
	if err != nil || got != "payload" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestRead_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.txt")
	if err := os.WriteFile(path, []byte("from file"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := fake("", true, "").Read(path, false)
	if err != nil || got != "from file" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestRead_Clipboard(t *testing.T) {
	got, err := fake("ignored", false, "clip").Read("", true)
	if err != nil || got != "clip" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestRead_ClipboardError(t *testing.T) {
	p := fake("", true, "")
	p.ReadClipboard = func() (string, error) { return "", errors.New("no xclip") }
	if _, err := p.Read("", true); err == nil || !strings.Contains(err.Error(), "clipboard") {
		t.Fatalf("got %v", err)
	}
}

func TestRead_NothingAvailable(t *testing.T) {
	_, err := fake("", true, "").Read("", false)
	if !errors.Is(err, editerr.ErrValidation) {
		t.Fatalf("got %v", err)
	}
}

func TestRead_EmptyPayload(t *testing.T) {
	_, err := fake("  \n", false, "").Read("", false)
	if !errors.Is(err, editerr.ErrValidation) {
		t.Fatalf("got %v", err)
	}
}
