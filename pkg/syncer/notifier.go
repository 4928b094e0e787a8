package syncer

// ToastKind categorizes a user-visible confirmation.
type ToastKind string

const (
	ToastAdd    ToastKind = "add"
	ToastUpdate ToastKind = "update"
	ToastDelete ToastKind = "delete"
	ToastError  ToastKind = "error"
)

// Notifier receives the confirmations the view renders as toasts. How long
// a message stays visible is the implementation's business.
type Notifier interface {
	Notify(message string, kind ToastKind)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(string, ToastKind) {}
