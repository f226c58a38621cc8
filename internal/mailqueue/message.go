package mailqueue

import "time"

// Message is the envelope pushed through the email queue. It is
// JSON-serialized on the wire; the body itself is rendered by the
// consumer from TemplateName and Variables at delivery time.
type Message struct {
	To           string         `json:"to"`
	Subject      string         `json:"subject"`
	TemplateName string         `json:"template_name"`
	Variables    map[string]any `json:"variables"`
	RetryCount   int            `json:"retry_count"`
	CreatedAt    time.Time      `json:"created_at"`
}
