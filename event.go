package statuswatch

// StatusEvent is one observed status change on a watched provider: a new
// incident update or a component health transition.
//
// StatusEvent is immutable once constructed. Instances are delivered to
// callbacks registered via [WithEventCallback], in the order the event
// bus serialized them.
type StatusEvent struct {
	// Provider is the configured display name of the provider that
	// reported the change.
	Provider string

	// Product is the affected product or component name as reported
	// upstream.
	Product string

	// Message is the human-readable status text: the latest incident
	// update body, or the new component status with separators replaced
	// by spaces.
	Message string

	// Impact is the upstream incident impact (e.g. "minor", "major").
	// Empty for component transitions and incidents without one.
	Impact string

	// Timestamp is the canonical display form "YYYY-MM-DD HH:MM:SS",
	// "unknown" when the upstream record carried no usable time, or the
	// raw upstream value when it could not be parsed.
	Timestamp string
}
