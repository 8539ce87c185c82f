package hunt

// Notifier delivers hunt notifications to the operator. Delivery is
// best-effort: implementations log failures and swallow them, the hunt never
// branches on whether a notification went out. The Telegram implementation
// lives in the notify package.
type Notifier interface {
	// Send delivers text as a new message.
	Send(text string)
	// Update edits the most recently sent message in place, falling back to
	// a new message when there is none to edit.
	Update(text string)
}

// NopNotifier discards all notifications. Used when no channel is configured.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) Send(string)   {}
func (NopNotifier) Update(string) {}
