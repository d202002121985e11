package events

// EventCollector is embedded in aggregates to buffer the events raised while
// they are being built, until the application layer publishes them.
type EventCollector struct {
	pending []DomainEvent
}

// Record appends domain events to the collector.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Events returns the buffered events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.pending
}

// ClearEvents returns the buffered events and empties the collector.
func (c *EventCollector) ClearEvents() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}
