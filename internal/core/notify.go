package core

// Severity grades a notification. Blocking failures prevent the action that
// raised them; everything else is informational and never stops processing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityAdvisory Severity = "advisory"
	SeverityUrgent   Severity = "urgent"
	SeverityBlocking Severity = "blocking"
)

// Notifier receives user-facing messages raised by validation and
// aggregation. Implementations decide how (and whether) to deliver them; the
// core never depends on a rendering target.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Severity) {}
