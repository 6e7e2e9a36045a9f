package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventSolutionStatusUpdated EventType = "SOLUTION_STATUS_UPDATED"
	EventDeliveryStatusUpdated EventType = "DELIVERY_STATUS_UPDATED"
	EventMetricsInvalidated    EventType = "METRICS_INVALIDATED"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	RequestID int64       `json:"requestId,omitempty"` // routes to a specific request "room"
}

// StatusUpdatedPayload describes a request status change pushed to
// connected dashboards.
type StatusUpdatedPayload struct {
	RequestID int64  `json:"requestId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
	UpdatedBy string `json:"updatedBy"`
}

// MetricsInvalidatedPayload tells dashboards that cached metrics series
// are stale and should be refetched.
type MetricsInvalidatedPayload struct {
	Kind string `json:"kind"`
}
