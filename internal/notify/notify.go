// Package notify delivers the advisory and urgent messages raised by
// validation and aggregation. Implementations plug into the core.Notifier
// port so the core never knows where messages end up.
package notify

import (
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// LogNotifier writes notifications through the structured logger, mapping
// severity to log level.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent(log.ComponentNotify)}
}

func (n *LogNotifier) Notify(message string, severity core.Severity) {
	switch severity {
	case core.SeverityUrgent, core.SeverityBlocking:
		n.logger.Error(message, log.FieldSeverity, string(severity))
	case core.SeverityAdvisory:
		n.logger.Warn(message, log.FieldSeverity, string(severity))
	default:
		n.logger.Info(message, log.FieldSeverity, string(severity))
	}
}

// ReannounceDelay is how long a repeated message is held back so assistive
// listeners observe a fresh announcement instead of a no-op.
const ReannounceDelay = 50 * time.Millisecond

// Announcer forwards notifications to a delegate. When the same message is
// raised twice in a row the second delivery is deferred by ReannounceDelay;
// the delay has no ordering effect on any computation.
type Announcer struct {
	mu    sync.Mutex
	last  string
	delay time.Duration
	next  core.Notifier
}

func NewAnnouncer(next core.Notifier) *Announcer {
	return &Announcer{next: next, delay: ReannounceDelay}
}

func (a *Announcer) Notify(message string, severity core.Severity) {
	a.mu.Lock()
	repeated := message == a.last
	a.last = message
	a.mu.Unlock()

	if repeated {
		time.AfterFunc(a.delay, func() {
			a.next.Notify(message, severity)
		})
		return
	}
	a.next.Notify(message, severity)
}

// Notification is one recorded message.
type Notification struct {
	Message  string
	Severity core.Severity
}

// Recorder keeps every notification it receives. The http layer serves the
// recent ones; tests assert on them.
type Recorder struct {
	mu     sync.Mutex
	events []Notification
	max    int
}

func NewRecorder(max int) *Recorder {
	if max <= 0 {
		max = 100
	}
	return &Recorder{max: max}
}

func (r *Recorder) Notify(message string, severity core.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Notification{Message: message, Severity: severity})
	if len(r.events) > r.max {
		r.events = r.events[len(r.events)-r.max:]
	}
}

// Events returns a snapshot of the recorded notifications, oldest first.
func (r *Recorder) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Multi fans a notification out to several notifiers.
type Multi []core.Notifier

func (m Multi) Notify(message string, severity core.Severity) {
	for _, n := range m {
		n.Notify(message, severity)
	}
}
