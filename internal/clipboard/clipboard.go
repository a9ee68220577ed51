// Package clipboard copies text to the system clipboard, falling back to an
// OSC52 terminal escape when no clipboard utility is available.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/lotas/tabstash/internal/applog"
)

// Copier writes text to the clipboard.
type Copier struct {
	write    func(string) error
	terminal io.Writer
}

// New returns a Copier using the system clipboard and stderr for the
// OSC52 fallback.
func New() *Copier {
	return &Copier{write: systemWrite, terminal: os.Stderr}
}

// NewWith returns a Copier with a custom primary writer and fallback
// terminal. A nil write always falls back.
func NewWith(write func(string) error, terminal io.Writer) *Copier {
	return &Copier{write: write, terminal: terminal}
}

func systemWrite(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility found")
	}
	return clipboard.WriteAll(text)
}

// Copy places text on the clipboard. Blank text is ignored.
func (c *Copier) Copy(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var primaryErr error
	if c.write != nil {
		primaryErr = c.write(text)
		if primaryErr == nil {
			applog.Debug("clipboard.copy", "bytes", len(text))
			return nil
		}
	}
	applog.Info("clipboard.fallback", "reason", errString(primaryErr))

	if c.terminal == nil {
		return fmt.Errorf("copy to clipboard: %w", primaryErr)
	}
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(c.terminal); err != nil {
		applog.Error("clipboard.fallback", err)
		return fmt.Errorf("copy to clipboard: %w", errors.Join(primaryErr, err))
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return "disabled"
	}
	return err.Error()
}
