package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Message is one reminder.
type Message struct {
	Title string
	Body  string
}

// Notifier delivers reminders.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// WriterNotifier prints reminders to a writer, one line each.
type WriterNotifier struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w, now: time.Now}
}

func (n *WriterNotifier) Notify(_ context.Context, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "[%s] %s: %s\n", n.now().Format("15:04"), msg.Title, msg.Body)
	return err
}
