// Package notification raises a desktop notification when the download
// queue empties, so the operator can leave the terminal in the background.
package notification

import (
	"github.com/dustin/go-humanize/english"
	"github.com/gen2brain/beeep"

	"github.com/zhubert/rsync-tui/internal/logger"
)

// AppName is the notification title.
const AppName = "rsync-tui"

var notify = beeep.Notify

// Send posts one notification through the platform's native mechanism.
// Errors are logged and returned; callers treat them as non-fatal.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	if err := notify(title, message, ""); err != nil {
		log.Warn("notification not delivered", "title", title, "error", err)
		return err
	}
	log.Debug("notification sent", "title", title, "message", message)
	return nil
}

// QueueDrained reports the outcome of a finished batch.
func QueueDrained(completed, failed int) error {
	msg := english.Plural(completed, "download", "") + " finished"
	if failed > 0 {
		msg += ", " + english.Plural(failed, "failed", "failed")
	}
	return Send(AppName, msg)
}
