// Package telemetry defines the normalized UltraDNS telemetry event model and
// the pure transformations that render events as Slack Block Kit messages or
// Teams Adaptive Cards. Transformations never fail: absent fields render as
// "Unknown ..." placeholders.
package telemetry
