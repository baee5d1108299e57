package validator

import (
	"testing"
	"testing/fstest"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ProtocolMessage(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		document string
		fields   []string
	}{
		{name: "start", document: `{"type":"start","payload":{"query":"subscription { inbox { message } }"}}`},
		{name: "start without payload", document: `{"type":"start","id":null}`},
		{name: "stop", document: `{"type":"stop","id":"abc"}`},
		{name: "unknown type", document: `{"type":"ping"}`, fields: []string{"type"}},
		{name: "missing type", document: `{"id":"abc"}`, fields: []string{"type"}},
		{name: "stop without id", document: `{"type":"stop"}`, fields: []string{"id"}},
		{name: "start with scalar payload", document: `{"type":"start","payload":"query"}`, fields: []string{"payload"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDocument("protocol/message", []byte(tt.document))
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			mErr, ok := err.(candihelper.MultiError)
			require.True(t, ok)
			for _, field := range tt.fields {
				assert.Contains(t, mErr.ToMap(), field)
			}
		})
	}

	assert.Error(t, v.ValidateDocument("unknown", []byte(`{}`)))
}

func TestJSONSchemaValidator_LoadWithoutID(t *testing.T) {
	fileSystem := fstest.MapFS{
		"schemas/inbox/message.json": {Data: []byte(`{"type":"object","required":["message"]}`)},
		"schemas/readme.txt":         {Data: []byte("ignored")},
	}
	v := NewJSONSchemaValidator(fileSystem, "schemas")

	assert.NoError(t, v.ValidateDocument("inbox/message", []byte(`{"message":"hello"}`)))
	err := v.ValidateDocument("inbox/message", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.(candihelper.MultiError).ToMap(), "message")

	assert.Error(t, v.AddSchema("broken", []byte(`{"type":1}`)))
}

func TestStructValidator(t *testing.T) {
	type payload struct {
		Channel string `validate:"required"`
		Message string `validate:"max=5"`
	}

	v := NewStructValidator()
	assert.NoError(t, v.ValidateStruct(payload{Channel: "inbox", Message: "hi"}))

	err := v.ValidateStruct(payload{Message: "too long"})
	require.Error(t, err)
	errs := err.(candihelper.MultiError).ToMap()
	assert.Contains(t, errs, "channel")
	assert.Contains(t, errs, "message")

	assert.Error(t, v.ValidateStruct("not a struct"))
}
