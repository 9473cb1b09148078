package present

import (
	"errors"

	"docassist/internal/port"
)

const copyAction = "copy"

var errNoClipboard = errors.New("no clipboard available")

// Copy writes the displayed text to clipboard and reports the outcome through
// notifier. It reports false on failure and never touches display or edit state.
// notifier may be nil.
func Copy(text string, clipboard port.Clipboard, notifier port.Notifier) bool {
	err := errNoClipboard
	if clipboard != nil {
		err = clipboard.WriteText(text)
	}
	if err != nil {
		notify(notifier, port.Notification{
			Level:   port.NotificationError,
			Action:  copyAction,
			Message: "Could not copy the result: " + err.Error(),
		})
		return false
	}
	notify(notifier, port.Notification{
		Level:   port.NotificationSuccess,
		Action:  copyAction,
		Message: "Result copied to clipboard",
	})
	return true
}

func notify(n port.Notifier, msg port.Notification) {
	if n != nil {
		n.Notify(msg)
	}
}
