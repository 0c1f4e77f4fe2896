package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message es un turno de la conversacion; inmutable una vez agregado al historial.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUser indica si el mensaje fue escrito por el usuario.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
