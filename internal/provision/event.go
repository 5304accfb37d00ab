package provision

// Event describes a newly created provider account. Delivery is
// at-least-once: the same event can reach the provisioner more than once,
// so every handler keyed on UserID must be idempotent.
type Event struct {
	UserID   string         `json:"user_id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
