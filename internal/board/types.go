package board

import "encoding/json"

// WebhookEnvelope is the body the board sends to the webhook endpoint.
// A handshake request carries only Challenge; steady-state requests
// carry only Event.
type WebhookEnvelope struct {
	Challenge json.RawMessage `json:"challenge,omitempty"`
	Event     *WebhookEvent   `json:"event,omitempty"`
}

// WebhookEvent is one column-change event on the board. Value keeps its
// raw form: the board does not guarantee a stable encoding for it.
type WebhookEvent struct {
	Type        string          `json:"type"`
	TriggerUUID string          `json:"triggerUuid"`
	PulseID     int64           `json:"pulseId"`
	PulseName   string          `json:"pulseName"`
	ItemName    string          `json:"itemName"`
	ColumnID    string          `json:"columnId"`
	Value       json.RawMessage `json:"value"`
}

// Name returns the item name of the event, whichever field carried it.
func (e WebhookEvent) Name() string {
	if e.PulseName != "" {
		return e.PulseName
	}
	return e.ItemName
}
