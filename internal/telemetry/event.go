// ABOUTME: Normalized UltraDNS telemetry event types shared across the relay
// ABOUTME: Defines the inbound callback payload and the nested change record

package telemetry

import "time"

// Telemetry event type constants.
const (
	// EventTypeTest is the sentinel type UltraDNS sends to verify a
	// registered webhook endpoint is reachable.
	EventTypeTest = "TEST_TELEMETRY_WEBHOOK"

	// EventTypeSetupTest is the type used for the synthetic event sent to a
	// destination right after registration.
	EventTypeSetupTest = "TEST_WEBHOOK_ENDPOINT"
)

// Payload is the body UltraDNS posts to a callback endpoint.
type Payload struct {
	TelemetryEvents []Event `json:"telemetryEvents"`
}

// Event is a single telemetry notification from UltraDNS.
type Event struct {
	AccountName        string       `json:"accountName,omitempty"`
	TelemetryEventType string       `json:"telemetryEventType,omitempty"`
	TelemetryEventTime string       `json:"telemetryEventTime,omitempty"`
	TelemetryEvent     *ChangeEvent `json:"telemetryEvent,omitempty"`
}

// ChangeEvent carries the object/change metadata nested inside an Event.
type ChangeEvent struct {
	ObjectType  string  `json:"objectType,omitempty"`
	ChangeType  string  `json:"changeType,omitempty"`
	ChangeTime  string  `json:"changeTime,omitempty"`
	Object      string  `json:"object,omitempty"`
	User        string  `json:"user,omitempty"`
	Application string  `json:"application,omitempty"`
	Detail      *Detail `json:"detail,omitempty"`
}

// Detail holds the optional per-field change list.
type Detail struct {
	Changes []Change `json:"changes,omitempty"`
}

// Change is one before/after value pair inside a change detail.
type Change struct {
	Value string `json:"value,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

// IsTest reports whether the event is the verification sentinel.
func (e Event) IsTest() bool {
	return e.TelemetryEventType == EventTypeTest
}

// changeEvent returns the nested change record, or an empty one so callers
// never have to nil-check.
func (e Event) changeEvent() ChangeEvent {
	if e.TelemetryEvent == nil {
		return ChangeEvent{}
	}
	return *e.TelemetryEvent
}

// NewSetupTestEvent builds the synthetic event dispatched to a destination
// immediately after it is registered, proving the URL accepts messages.
func NewSetupTestEvent(now time.Time) Event {
	return Event{
		AccountName:        "none",
		TelemetryEventType: EventTypeSetupTest,
		TelemetryEvent: &ChangeEvent{
			ObjectType:  "Setup",
			ChangeType:  "Sending a test message to webhook",
			ChangeTime:  now.Format("2006-01-02 15:04:05.000"),
			Object:      "Test Object",
			User:        "none",
			Application: "Setup Process",
		},
	}
}

// FormatTestTelemetry rewrites an arbitrary inbound event into the canonical
// minimal test event echoed back to the user's chat channel. The original
// event's account and timestamps are preserved where present; everything else
// is replaced so the result is always renderable.
func FormatTestTelemetry(e Event) Event {
	accountName := e.AccountName
	if accountName == "" {
		accountName = "Unknown Account"
	}
	eventTime := e.TelemetryEventTime
	if eventTime == "" {
		eventTime = "Unknown Time"
	}
	eventType := e.TelemetryEventType
	if eventType == "" {
		eventType = "Unknown Type"
	}

	return Event{
		AccountName:        accountName,
		TelemetryEventType: eventType,
		TelemetryEvent: &ChangeEvent{
			ObjectType:  "Setup",
			ChangeType:  "Testing telemetry from UltraDNS application",
			ChangeTime:  eventTime,
			Object:      "Test Telemetry",
			User:        accountName,
			Application: "Setup Process",
		},
	}
}
