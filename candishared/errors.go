package candishared

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorCode classify error kind, used in structured log
type ErrorCode int

const (
	// CodeUnknown for error outside this taxonomy
	CodeUnknown ErrorCode = iota
	// CodeConfiguration invalid static configuration, fatal at construction
	CodeConfiguration
	// CodeInvalidQuery subscription document cannot be parsed
	CodeInvalidQuery
	// CodeInvalidOperation wrong operation kind, root field count, or unknown operation name
	CodeInvalidOperation
	// CodeStorage persistence failure
	CodeStorage
	// CodeNotFound unknown subscriber id
	CodeNotFound
	// CodeDelivery failure while re-executing or publishing a notification
	CodeDelivery
	// CodeInvalidMessage protocol message cannot be handled
	CodeInvalidMessage
)

var (
	// ErrNotFound sentinel, match with errors.Is
	ErrNotFound = errors.New("not found")
)

type errorLocation struct {
	file string
	line int
}

// Location return file and line where error created
func (e errorLocation) Location() (string, int) {
	return e.file, e.line
}

func callerLocation() errorLocation {
	_, file, line, _ := runtime.Caller(2)
	return errorLocation{file: file, line: line}
}

// ConfigurationError invalid configuration
type ConfigurationError struct {
	errorLocation
	Message string
}

// NewConfigurationError constructor
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{errorLocation: callerLocation(), Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string   { return "configuration: " + e.Message }
func (e *ConfigurationError) Code() ErrorCode { return CodeConfiguration }

// InvalidQueryError subscription document failed to parse
type InvalidQueryError struct {
	errorLocation
	Err error
}

// NewInvalidQueryError constructor
func NewInvalidQueryError(err error) *InvalidQueryError {
	return &InvalidQueryError{errorLocation: callerLocation(), Err: err}
}

func (e *InvalidQueryError) Error() string   { return e.Err.Error() }
func (e *InvalidQueryError) Unwrap() error   { return e.Err }
func (e *InvalidQueryError) Code() ErrorCode { return CodeInvalidQuery }

// InvalidOperationError operation cannot be used as subscription
type InvalidOperationError struct {
	errorLocation
	Message string
}

// NewInvalidOperationError constructor
func NewInvalidOperationError(format string, args ...interface{}) *InvalidOperationError {
	return &InvalidOperationError{errorLocation: callerLocation(), Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidOperationError) Error() string   { return e.Message }
func (e *InvalidOperationError) Code() ErrorCode { return CodeInvalidOperation }

// StorageError persistence failure
type StorageError struct {
	errorLocation
	Op  string
	Err error
}

// NewStorageError constructor
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{errorLocation: callerLocation(), Op: op, Err: err}
}

func (e *StorageError) Error() string   { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error   { return e.Err }
func (e *StorageError) Code() ErrorCode { return CodeStorage }

// NotFoundError unknown resource
type NotFoundError struct {
	errorLocation
	Resource, ID string
}

// NewNotFoundError constructor
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{errorLocation: callerLocation(), Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string        { return fmt.Sprintf("%s %q not found", e.Resource, e.ID) }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) Code() ErrorCode      { return CodeNotFound }

// DeliveryError failure during notification delivery
type DeliveryError struct {
	errorLocation
	Channel, SchemaName string
	// Err is the cause, a MultiError keyed by subscriber id when raised for a whole change event
	Err error
}

// NewDeliveryError constructor
func NewDeliveryError(channel, schemaName string, err error) *DeliveryError {
	return &DeliveryError{errorLocation: callerLocation(), Channel: channel, SchemaName: schemaName, Err: err}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery on channel %q (schema %q): %v", e.Channel, e.SchemaName, e.Err)
}
func (e *DeliveryError) Unwrap() error   { return e.Err }
func (e *DeliveryError) Code() ErrorCode { return CodeDelivery }

// InvalidMessageError protocol message is malformed or not handled
type InvalidMessageError struct {
	errorLocation
	Message string
}

// NewInvalidMessageError constructor
func NewInvalidMessageError(format string, args ...interface{}) *InvalidMessageError {
	return &InvalidMessageError{errorLocation: callerLocation(), Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidMessageError) Error() string   { return e.Message }
func (e *InvalidMessageError) Code() ErrorCode { return CodeInvalidMessage }

// GetErrorCode extract code from error chain
func GetErrorCode(err error) ErrorCode {
	var coder interface{ Code() ErrorCode }
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return CodeUnknown
}

// GetErrorLocation extract file and line where error created, empty when unknown
func GetErrorLocation(err error) (file string, line int) {
	var locator interface{ Location() (string, int) }
	if errors.As(err, &locator) {
		return locator.Location()
	}
	return "", 0
}

// IsClientError check error must be reported to client as structured error response
func IsClientError(err error) bool {
	switch GetErrorCode(err) {
	case CodeInvalidQuery, CodeInvalidOperation, CodeNotFound, CodeInvalidMessage:
		return true
	}
	return false
}
