package dto

import "time"

// NotificationResponse notificación.
type NotificationResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"tipo"`
	Title     string     `json:"titulo"`
	Message   string     `json:"mensagem"`
	Link      string     `json:"link,omitempty"`
	Read      bool       `json:"lida"`
	ReadAt    *time.Time `json:"data_leitura,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationListResponse últimas notificaciones y contador de no leídas.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
}

// UnreadCountResponse contador de no leídas.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
