package controller

// Notifier receives transient user-visible outcomes, the toast equivalent.
// Implementations must be safe for use from controller callbacks.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// Confirmer asks the user for an explicit decision before a destructive
// action. Returning false aborts the action with no side effects.
type Confirmer interface {
	Confirm(title, message string) bool
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string, string) {}
func (NopNotifier) Error(string, string)   {}
