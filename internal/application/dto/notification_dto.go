package dto

import "time"

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Read        bool      `json:"read"`
	ActionLink  string    `json:"action_link,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationListResponse lista más el contador de no leídas.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
}
