// Package source reads an edit payload from a file, stdin or the clipboard.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/jorge-barreto/splice/internal/editerr"
)

// Provider determines and retrieves the payload.
type Provider struct {
	Stdin           io.Reader
	StdinIsTerminal func() bool
	ReadClipboard   func() (string, error)
	ReadFile        func(string) ([]byte, error)
}

// New creates a Provider bound to the process's stdin and the system
// clipboard.
func New() *Provider {
	return &Provider{
		Stdin:           os.Stdin,
		StdinIsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		ReadClipboard:   clipboard.ReadAll,
		ReadFile:        os.ReadFile,
	}
}

// Read returns the payload. With fromClipboard set it reads the clipboard.
// Otherwise arg names a file, "-" means stdin, and an empty arg reads stdin
// when it is piped.
func (p *Provider) Read(arg string, fromClipboard bool) (string, error) {
	var content string
	switch {
	case fromClipboard:
		c, err := p.ReadClipboard()
		if err != nil {
			return "", fmt.Errorf("failed to read from clipboard: %w", err)
		}
		content = c
	case arg == "-" || (arg == "" && !p.StdinIsTerminal()):
		data, err := io.ReadAll(p.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		content = string(data)
	case arg != "":
		data, err := p.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("failed to read payload: %w", err)
		}
		content = string(data)
	default:
		return "", editerr.Invalid("payload", "nothing to read: pass a file, pipe to stdin, or use --clipboard")
	}

	if strings.TrimSpace(content) == "" {
		return "", editerr.Invalid("payload", "empty")
	}
	return content, nil
}
