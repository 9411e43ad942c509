package enums

import "slices"

// EventStatus tracks where an event is in its lifecycle.
type EventStatus string

const (
	EventStatusPlanning  EventStatus = "planning"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

var validEventStatuses = []EventStatus{
	EventStatusPlanning,
	EventStatusOngoing,
	EventStatusCompleted,
	EventStatusCancelled,
}

var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusPlanning: {EventStatusOngoing, EventStatusCancelled},
	EventStatusOngoing:  {EventStatusCompleted, EventStatusCancelled},
}

func (s EventStatus) String() string {
	return string(s)
}

func (s EventStatus) IsValid() bool {
	return slices.Contains(validEventStatuses, s)
}

// IsTerminal reports whether no further transitions are possible.
func (s EventStatus) IsTerminal() bool {
	return s == EventStatusCompleted || s == EventStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	return slices.Contains(eventTransitions[s], next)
}

func ParseEventStatus(value string) (EventStatus, error) {
	return parse(validEventStatuses, value, "event status")
}
