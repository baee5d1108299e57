package subscription

import (
	"encoding/json"

	"github.com/golangid/gqlsubscription/candishared"
)

// MessageType protocol message type
type MessageType string

const (
	// MessageTypeStart client -> server, register subscription
	MessageTypeStart MessageType = "start"
	// MessageTypeStop client -> server, unregister subscription
	MessageTypeStop MessageType = "stop"
	// MessageTypeData server -> client, notification or registration result
	MessageTypeData MessageType = "data"
	// MessageTypeError server -> client
	MessageTypeError MessageType = "error"
	// MessageTypeSuccess server -> client, acknowledge stop
	MessageTypeSuccess MessageType = "success"
)

// Message closed set of protocol messages: *StartMessage, *StopMessage, *DataMessage, *ErrorMessage, *SuccessMessage
type Message interface {
	Type() MessageType
	isMessage()
}

type envelope struct {
	Type    MessageType     `json:"type"`
	ID      *string         `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StartPayload payload of start message
type StartPayload struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type (
	// StartMessage register subscription
	StartMessage struct {
		ID      *string
		Payload StartPayload
	}

	// StopMessage unregister subscription with subscriber id
	StopMessage struct {
		ID string
	}

	// DataMessage deliver execution result
	DataMessage struct {
		ID      string
		Payload interface{}
	}

	// ErrorMessage deliver error
	ErrorMessage struct {
		ID      *string
		Payload interface{}
	}

	// SuccessMessage acknowledge stop
	SuccessMessage struct {
		ID *string
	}
)

func (*StartMessage) Type() MessageType   { return MessageTypeStart }
func (*StopMessage) Type() MessageType    { return MessageTypeStop }
func (*DataMessage) Type() MessageType    { return MessageTypeData }
func (*ErrorMessage) Type() MessageType   { return MessageTypeError }
func (*SuccessMessage) Type() MessageType { return MessageTypeSuccess }

func (*StartMessage) isMessage()   {}
func (*StopMessage) isMessage()    {}
func (*DataMessage) isMessage()    {}
func (*ErrorMessage) isMessage()   {}
func (*SuccessMessage) isMessage() {}

// MarshalJSON method
func (m *StartMessage) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(m.Type(), m.ID, m.Payload)
}

// MarshalJSON method
func (m *StopMessage) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(m.Type(), &m.ID, nil)
}

// MarshalJSON method
func (m *DataMessage) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(m.Type(), &m.ID, m.Payload)
}

// MarshalJSON method
func (m *ErrorMessage) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(m.Type(), m.ID, m.Payload)
}

// MarshalJSON method
func (m *SuccessMessage) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(m.Type(), m.ID, nil)
}

func marshalEnvelope(typ MessageType, id *string, payload interface{}) ([]byte, error) {
	env := envelope{Type: typ, ID: id}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// ParseMessage decode protocol message from json
func ParseMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, candishared.NewInvalidMessageError("invalid message: %v", err)
	}

	switch env.Type {
	case MessageTypeStart:
		msg := &StartMessage{ID: env.ID}
		if err := decodeStartPayload(env.Payload, &msg.Payload); err != nil {
			return nil, err
		}
		return msg, nil

	case MessageTypeStop:
		msg := &StopMessage{}
		if env.ID != nil {
			msg.ID = *env.ID
		}
		return msg, nil

	case MessageTypeData:
		msg := &DataMessage{Payload: env.Payload}
		if env.ID != nil {
			msg.ID = *env.ID
		}
		return msg, nil

	case MessageTypeError:
		return &ErrorMessage{ID: env.ID, Payload: env.Payload}, nil

	case MessageTypeSuccess:
		return &SuccessMessage{ID: env.ID}, nil
	}

	return nil, candishared.NewInvalidMessageError(`Only "%s", "%s" types are handled but got %q.`, MessageTypeStart, MessageTypeStop, env.Type)
}

// payload may be absent or not an object, null values keep their defaults
func decodeStartPayload(raw json.RawMessage, target *StartPayload) error {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return candishared.NewInvalidMessageError("invalid start payload: %v", err)
	}
	for key, dst := range map[string]interface{}{
		"query":         &target.Query,
		"variables":     &target.Variables,
		"operationName": &target.OperationName,
	} {
		value, ok := fields[key]
		if !ok || string(value) == "null" {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return candishared.NewInvalidMessageError("invalid start payload field %q: %v", key, err)
		}
	}
	return nil
}
