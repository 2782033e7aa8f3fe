// ABOUTME: Transforms normalized telemetry events into Slack Block Kit messages
// ABOUTME: Pure functions, never fail on missing fields

package telemetry

import "fmt"

// slackFieldsPerSection is the Block Kit limit on fields per section block.
const slackFieldsPerSection = 10

// SlackMessage is the JSON document posted to a Slack incoming webhook.
type SlackMessage struct {
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a single Block Kit block (header or section).
type SlackBlock struct {
	Type   string      `json:"type"`
	Text   *SlackText  `json:"text,omitempty"`
	Fields []SlackText `json:"fields,omitempty"`
}

// SlackText is a Block Kit text object.
type SlackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// ToSlackMessage renders a telemetry event as a Slack Block Kit message: a
// header block titled with the event summary followed by section blocks of
// label/value field pairs, chunked to respect the per-section field limit.
func ToSlackMessage(e Event) SlackMessage {
	ce := e.changeEvent()

	accountName := orUnknown(e.AccountName, "Unknown Account")
	eventType := orUnknown(e.TelemetryEventType, "Unknown Event")
	objectType := orUnknown(ce.ObjectType, "Unknown Object")
	changeType := orUnknown(ce.ChangeType, "Unknown Change")

	fields := []SlackText{
		mrkdwn("*Time:*"), mrkdwn(orUnknown(ce.ChangeTime, "Unknown Time")),
		mrkdwn("*Object Type:*"), mrkdwn(objectType),
		mrkdwn("*Change Type:*"), mrkdwn(changeType),
		mrkdwn("*Object:*"), mrkdwn(orUnknown(ce.Object, "Unknown Object")),
		mrkdwn("*Account:*"), mrkdwn(accountName),
		mrkdwn("*User:*"), mrkdwn(orUnknown(ce.User, "Unknown User")),
		mrkdwn("*Application:*"), mrkdwn(orUnknown(ce.Application, "Unknown Application")),
	}

	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{
				Type:  "plain_text",
				Text:  fmt.Sprintf("%s %s %s %s", accountName, eventType, objectType, changeType),
				Emoji: true,
			},
		},
	}

	for start := 0; start < len(fields); start += slackFieldsPerSection {
		end := min(start+slackFieldsPerSection, len(fields))
		blocks = append(blocks, SlackBlock{
			Type:   "section",
			Fields: fields[start:end],
		})
	}

	return SlackMessage{Blocks: blocks}
}

func mrkdwn(text string) SlackText {
	return SlackText{Type: "mrkdwn", Text: text}
}

func orUnknown(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
