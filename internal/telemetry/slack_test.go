// ABOUTME: Tests for the Slack Block Kit transformation
// ABOUTME: Covers field chunking, placeholders, and the header title

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() Event {
	return Event{
		AccountName:        "acme",
		TelemetryEventType: "ZONE_CHANGE",
		TelemetryEvent: &ChangeEvent{
			ObjectType:  "Zone",
			ChangeType:  "Update",
			ChangeTime:  "2026-08-29 10:00:00.000",
			Object:      "example.com",
			User:        "alice",
			Application: "Portal",
		},
	}
}

func TestToSlackMessage_HeaderAndSections(t *testing.T) {
	msg := ToSlackMessage(sampleEvent())

	// Header plus two sections: 14 field entries chunked in tens.
	require.Len(t, msg.Blocks, 3)

	header := msg.Blocks[0]
	assert.Equal(t, "header", header.Type)
	require.NotNil(t, header.Text)
	assert.Equal(t, "plain_text", header.Text.Type)
	assert.Equal(t, "acme ZONE_CHANGE Zone Update", header.Text.Text)
	assert.True(t, header.Text.Emoji)

	assert.Equal(t, "section", msg.Blocks[1].Type)
	assert.Len(t, msg.Blocks[1].Fields, 10)
	assert.Equal(t, "section", msg.Blocks[2].Type)
	assert.Len(t, msg.Blocks[2].Fields, 4)
}

func TestToSlackMessage_FieldOrder(t *testing.T) {
	msg := ToSlackMessage(sampleEvent())

	fields := append(msg.Blocks[1].Fields, msg.Blocks[2].Fields...)
	require.Len(t, fields, 14)

	assert.Equal(t, "*Time:*", fields[0].Text)
	assert.Equal(t, "2026-08-29 10:00:00.000", fields[1].Text)
	assert.Equal(t, "*Application:*", fields[12].Text)
	assert.Equal(t, "Portal", fields[13].Text)

	for _, f := range fields {
		assert.Equal(t, "mrkdwn", f.Type)
	}
}

func TestToSlackMessage_EmptyEvent(t *testing.T) {
	msg := ToSlackMessage(Event{})

	require.Len(t, msg.Blocks, 3)
	assert.Equal(t, "Unknown Account Unknown Event Unknown Object Unknown Change", msg.Blocks[0].Text.Text)

	fields := append(msg.Blocks[1].Fields, msg.Blocks[2].Fields...)
	assert.Equal(t, "Unknown Time", fields[1].Text)
	assert.Equal(t, "Unknown User", fields[11].Text)
}

func TestToSlackMessage_IgnoresDetailChanges(t *testing.T) {
	event := sampleEvent()
	event.TelemetryEvent.Detail = &Detail{
		Changes: []Change{{Value: "ttl", From: "300", To: "600"}},
	}

	msg := ToSlackMessage(event)

	// Detail changes are a Teams-only rendering.
	total := 0
	for _, block := range msg.Blocks[1:] {
		total += len(block.Fields)
	}
	assert.Equal(t, 14, total)
}
