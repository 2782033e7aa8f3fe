// ABOUTME: Platform selection for event transformation
// ABOUTME: Maps a platform name to the matching message renderer

package telemetry

import "fmt"

// Message renders the event as the named platform's webhook document.
func Message(platform string, e Event) (any, error) {
	switch platform {
	case "slack":
		return ToSlackMessage(e), nil
	case "teams":
		return ToTeamsMessage(e), nil
	default:
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}
}
