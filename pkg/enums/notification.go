package enums

import "slices"

// NotificationType maps to the notification_type check constraint.
type NotificationType string

const (
	NotificationTypeTaskAssigned  NotificationType = "task_assigned"
	NotificationTypeEventAssigned NotificationType = "event_assigned"
	NotificationTypeBudgetStatus  NotificationType = "budget_status"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeTaskAssigned,
	NotificationTypeEventAssigned,
	NotificationTypeBudgetStatus,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	return slices.Contains(validNotificationTypes, n)
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	return parse(validNotificationTypes, value, "notification type")
}
