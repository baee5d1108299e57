package candishared

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    ErrorCode
		clientError bool
	}{
		{name: "configuration", err: NewConfigurationError("bad pattern %q", "x"), wantCode: CodeConfiguration},
		{name: "invalid query", err: NewInvalidQueryError(errors.New("syntax")), wantCode: CodeInvalidQuery, clientError: true},
		{name: "invalid operation", err: NewInvalidOperationError("two root fields"), wantCode: CodeInvalidOperation, clientError: true},
		{name: "storage", err: NewStorageError("store", errors.New("disk full")), wantCode: CodeStorage},
		{name: "not found", err: NewNotFoundError("subscriber", "abc"), wantCode: CodeNotFound, clientError: true},
		{name: "delivery", err: NewDeliveryError("inbox", "", errors.New("hub down")), wantCode: CodeDelivery},
		{name: "invalid message", err: NewInvalidMessageError("unknown type"), wantCode: CodeInvalidMessage, clientError: true},
		{name: "wrapped", err: fmt.Errorf("wrap: %w", NewStorageError("delete", errors.New("x"))), wantCode: CodeStorage},
		{name: "unknown", err: errors.New("plain"), wantCode: CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, GetErrorCode(tt.err))
			assert.Equal(t, tt.clientError, IsClientError(tt.err))
		})
	}
}

func TestErrorLocation(t *testing.T) {
	file, line := GetErrorLocation(NewStorageError("store", errors.New("x")))
	assert.True(t, strings.HasSuffix(file, "errors_test.go"))
	assert.NotZero(t, line)

	file, line = GetErrorLocation(errors.New("plain"))
	assert.Empty(t, file)
	assert.Zero(t, line)
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("stop: %w", NewNotFoundError("subscriber", "abc"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, `stop: subscriber "abc" not found`, err.Error())
}
