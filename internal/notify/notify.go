// Package notify records transient, user-visible notifications. Every
// failed write surfaces as exactly one notification; none is fatal and
// all are dismissable.
package notify

import (
	"sync"
	"time"
)

// Kind distinguishes success confirmations from failure notices.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one transient user-visible record.
type Notification struct {
	ID      int       `json:"id"`
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notifications raised by the view-model layer.
type Notifier interface {
	Notify(kind Kind, title, message string)
}

// Recorder is an in-memory Notifier that keeps notifications until they
// are dismissed. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	nextID int
	items  []Notification
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{nextID: 1}
}

// Notify implements Notifier.
func (r *Recorder) Notify(kind Kind, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{
		ID:      r.nextID,
		Kind:    kind,
		Title:   title,
		Message: message,
		At:      time.Now(),
	})
	r.nextID++
}

// All returns a snapshot of the undismissed notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Dismiss removes the notification with the given id, if present.
func (r *Recorder) Dismiss(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.items {
		if n.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return
		}
	}
}
