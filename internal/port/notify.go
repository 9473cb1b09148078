package port

// NotificationLevel classifies a user-facing notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification is a toast-style message raised by a view action.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Action  string            `json:"action"`
	Message string            `json:"message"`
}

// Notifier delivers notifications. Calls are fire-and-forget.
type Notifier interface {
	Notify(n Notification)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}
