// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/rsync-tui/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init initializes the clipboard. Safe to call multiple times; only the
// first call does any work. Headless sessions without X11 or Wayland fail
// here, and callers fall back to the terminal's OSC 52 support.
func Init() error {
	initOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
			logger.WithComponent("clipboard").Warn("system clipboard unavailable", "error", err)
		}
	})
	return initErr
}

// WriteText puts text on the system clipboard.
func WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}
