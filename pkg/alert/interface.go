package alert

import "context"

// Sender delivers a short text alert to the emergency-service contact.
// Delivery is best effort: failures are logged by the caller and never
// block the operation that triggered the alert.
type Sender interface {
	Send(ctx context.Context, request *AlertRequest) (*AlertResponse, error)
}

type AlertRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type AlertResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}
