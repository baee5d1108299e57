package resthandler

import (
	"context"
	"io"
	"net/http"

	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/golangid/gqlsubscription/wrapper"
	"github.com/labstack/echo"
)

// MessageSchemaID json schema reference of protocol message
const MessageSchemaID = "protocol/message"

// MessageHandler handle client protocol message
type MessageHandler interface {
	Handle(ctx context.Context, message subscription.Message, schemaName string, extras map[string]interface{}) (subscription.Message, error)
}

// ExtrasFunc build extras of a new subscription from the request, such as authorization claims
type ExtrasFunc func(c echo.Context) (map[string]interface{}, error)

// RestHandler handler
type RestHandler struct {
	handler    MessageHandler
	validator  interfaces.Validator
	extrasFunc ExtrasFunc
}

// NewRestHandler create new rest handler, extrasFunc is optional
func NewRestHandler(handler MessageHandler, validator interfaces.Validator, extrasFunc ExtrasFunc) *RestHandler {
	return &RestHandler{
		handler:    handler,
		validator:  validator,
		extrasFunc: extrasFunc,
	}
}

// Mount handler with root group, schema name is taken from last path segment
func (h *RestHandler) Mount(root *echo.Group) {
	subscriptions := root.Group("/subscriptions")
	subscriptions.POST("", h.handle)
	subscriptions.POST("/:schemaName", h.handle)
}

func (h *RestHandler) handle(c echo.Context) error {
	trace, ctx := tracer.StartTraceWithContext(c.Request().Context(), "ProtocolDeliveryREST:Handle")
	defer trace.Finish()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return wrapper.NewHTTPResponse(http.StatusBadRequest, "Failed read request body", err).JSON(c.Response())
	}

	message, err := subscription.ParseJSONRequest(c.Request().Header.Get(echo.HeaderContentType), body)
	if err != nil {
		return wrapper.NewHTTPErrorResponse(err).JSON(c.Response())
	}
	if err := h.validator.ValidateDocument(MessageSchemaID, body); err != nil {
		return wrapper.NewHTTPResponse(http.StatusBadRequest, "Invalid protocol message", err).JSON(c.Response())
	}

	schemaName := c.Param("schemaName")
	trace.SetTag("schema_name", schemaName)
	trace.SetTag("message_type", message.Type())

	var extras map[string]interface{}
	if message.Type() == subscription.MessageTypeStart && h.extrasFunc != nil {
		if extras, err = h.extrasFunc(c); err != nil {
			return err
		}
	}

	response, err := h.handler.Handle(ctx, message, schemaName, extras)
	if err != nil {
		trace.SetError(err)
		return wrapper.NewHTTPErrorResponse(err).JSON(c.Response())
	}
	return c.JSON(http.StatusOK, response)
}
