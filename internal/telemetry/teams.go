// ABOUTME: Transforms normalized telemetry events into Teams Adaptive Cards
// ABOUTME: Pure functions, appends detail changes as extra facts

package telemetry

import "fmt"

// TeamsMessage is the JSON document posted to a Teams incoming webhook.
type TeamsMessage struct {
	Summary     string            `json:"summary"`
	Attachments []TeamsAttachment `json:"attachments"`
}

// TeamsAttachment wraps an Adaptive Card in the Teams message envelope.
type TeamsAttachment struct {
	ContentType string    `json:"contentType"`
	Content     TeamsCard `json:"content"`
}

// TeamsCard is the Adaptive Card body.
type TeamsCard struct {
	Type    string             `json:"type"`
	Schema  string             `json:"$schema"`
	Version string             `json:"version"`
	Body    []TeamsCardElement `json:"body"`
}

// TeamsCardElement is a card body element, either a TextBlock or a FactSet.
type TeamsCardElement struct {
	Type   string      `json:"type"`
	Text   string      `json:"text,omitempty"`
	Weight string      `json:"weight,omitempty"`
	Size   string      `json:"size,omitempty"`
	Facts  []TeamsFact `json:"facts,omitempty"`
}

// TeamsFact is one title/value row in a FactSet.
type TeamsFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ToTeamsMessage renders a telemetry event as a Teams Adaptive Card: a bold
// title TextBlock and a FactSet of the base facts. Entries from the optional
// change detail are appended to the FactSet in input order.
func ToTeamsMessage(e Event) TeamsMessage {
	ce := e.changeEvent()

	accountName := orUnknown(e.AccountName, "Unknown Account")
	eventType := orUnknown(e.TelemetryEventType, "Unknown Event")
	eventTime := orUnknown(e.TelemetryEventTime, "Unknown Time")
	objectType := orUnknown(ce.ObjectType, "Unknown Object")
	changeType := orUnknown(ce.ChangeType, "Unknown Change")
	changeTime := orUnknown(ce.ChangeTime, eventTime)

	facts := []TeamsFact{
		{Title: "Time", Value: changeTime},
		{Title: "Object Type", Value: objectType},
		{Title: "Change Type", Value: changeType},
		{Title: "Object", Value: orUnknown(ce.Object, "Unknown Object")},
		{Title: "Account", Value: accountName},
		{Title: "User", Value: orUnknown(ce.User, "Unknown User")},
		{Title: "Application", Value: orUnknown(ce.Application, "Unknown Application")},
	}

	if ce.Detail != nil {
		for _, change := range ce.Detail.Changes {
			facts = append(facts,
				TeamsFact{Title: "Value", Value: orUnknown(change.Value, "-")},
				TeamsFact{Title: "From", Value: orUnknown(change.From, "-")},
				TeamsFact{Title: "To", Value: orUnknown(change.To, "-")},
			)
		}
	}

	return TeamsMessage{
		Summary: fmt.Sprintf("%s %s %s %s", accountName, eventType, objectType, changeType),
		Attachments: []TeamsAttachment{
			{
				ContentType: "application/vnd.microsoft.card.adaptive",
				Content: TeamsCard{
					Type:    "AdaptiveCard",
					Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
					Version: "1.2",
					Body: []TeamsCardElement{
						{
							Type:   "TextBlock",
							Text:   fmt.Sprintf("**%s %s**", accountName, eventType),
							Weight: "Bolder",
							Size:   "Medium",
						},
						{
							Type:  "FactSet",
							Facts: facts,
						},
					},
				},
			},
		},
	}
}
