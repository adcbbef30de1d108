// Package notify carries transient, non-blocking user notifications (toasts)
// from the explorer flows to whatever front end presents them.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Variant is the visual weight of a notification.
type Variant int

const (
	Default Variant = iota
	Destructive
)

func (v Variant) String() string {
	if v == Destructive {
		return "destructive"
	}
	return "default"
}

// Notification is one toast.
type Notification struct {
	Variant     Variant
	Title       string
	Description string
}

// Info builds a default notification.
func Info(title, description string) Notification {
	return Notification{Variant: Default, Title: title, Description: description}
}

// Error builds a destructive notification.
func Error(title, description string) Notification {
	return Notification{Variant: Destructive, Title: title, Description: description}
}

// Notifier presents notifications.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify calls f(n).
func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Multi fans a notification out to every notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return Func(func(n Notification) {
		for _, x := range notifiers {
			x.Notify(n)
		}
	})
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	log *zap.SugaredLogger
}

// NewLogNotifier creates a notifier backed by log.
func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs n at info level, or warn level for destructive notifications.
func (l *LogNotifier) Notify(n Notification) {
	if n.Variant == Destructive {
		l.log.Warnw(n.Title, "description", n.Description)
		return
	}
	l.log.Infow(n.Title, "description", n.Description)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify records n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Reset forgets every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
