package subscription

import (
	"encoding/json"

	"github.com/golangid/gqlsubscription/candishared"
)

// ChangeEvent something changed on channel
type ChangeEvent struct {
	Channel    string      `json:"channel"`
	SchemaName string      `json:"schemaName,omitempty"`
	Payload    interface{} `json:"payload"`
}

// Encode serialize event for message bus
func (e ChangeEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeChangeEvent deserialize event received from message bus, payload kept as raw json
func DecodeChangeEvent(data []byte) (ChangeEvent, error) {
	var raw struct {
		Channel    string          `json:"channel"`
		SchemaName string          `json:"schemaName"`
		Payload    json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ChangeEvent{}, candishared.NewInvalidMessageError("invalid change event: %v", err)
	}
	if raw.Channel == "" {
		return ChangeEvent{}, candishared.NewInvalidMessageError("invalid change event: empty channel")
	}
	return ChangeEvent{Channel: raw.Channel, SchemaName: raw.SchemaName, Payload: raw.Payload}, nil
}
